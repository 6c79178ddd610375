// internal/app/features/reports/memberscsv.go
package reports

import (
	"net/http"

	"github.com/caiosarava/cadastramento/internal/app/features/shared/stageguard"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/csvutil"
	"go.uber.org/zap"
)

// ServeMembersCSV exports the member set with one column per form field,
// in form order.
func (h *Handler) ServeMembersCSV(w http.ResponseWriter, r *http.Request) {
	dec, _, ok := stageguard.Guard(w, r, h.Flow, h.SessionMgr, h.ErrLog, registration.StageView)
	if !ok {
		return
	}

	schema := registration.MemberSchema
	header := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		header[i] = f.Label
	}
	rows := make([][]string, len(dec.Members))
	for i, m := range dec.Members {
		values := registration.MemberValues(m)
		row := make([]string, len(schema.Fields))
		for j, f := range schema.Fields {
			row[j] = values[f.Name]
		}
		rows[i] = row
	}

	filename := csvutil.Filename(dec.Group.GroupName, h.now())
	if err := csvutil.WriteAttachment(w, filename, header, rows); err != nil {
		// headers are already out; nothing left to tell the client
		h.Log.Warn("write members csv failed", zap.Error(err))
		return
	}
	h.Log.Info("members csv exported", zap.String("group_id", dec.Group.ID.Hex()), zap.Int("rows", len(rows)))
}
