// internal/app/features/reports/membersreport.go
package reports

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/caiosarava/cadastramento/internal/app/features/shared/stageguard"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/filestore"
	"github.com/caiosarava/cadastramento/internal/app/system/formutil"
	"github.com/caiosarava/cadastramento/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// documentListSize bounds the document list on the page.
const documentListSize = 20

// ServeView renders the summary of the group and its members.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	dec, _, ok := stageguard.Guard(w, r, h.Flow, h.SessionMgr, h.ErrLog, registration.StageView)
	if !ok {
		return
	}
	notice := ""
	if r.URL.Query().Get("uploaded") == "1" {
		notice = "Document uploaded."
	}
	h.renderView(w, r, dec.Outcome, "", notice)
}

func (h *Handler) renderView(w http.ResponseWriter, r *http.Request, out registration.Outcome, errMsg, notice string) {
	sum := registration.Summarize(out.Members)
	data := pageData{
		Summary: sum,
		Breakdowns: []breakdown{
			{"Gender", sum.ByGender},
			{"Role", sum.ByRole},
			{"Education", sum.ByEducation},
			{"Ethnicity", sum.ByEthnicity},
			{"Monthly income", sum.ByIncome},
		},
		UploadsEnabled: h.Files != nil,
		Accept:         acceptList(),
		MaxUploadMB:    filestore.MaxUploadBytes >> 20,
	}
	formutil.SetBase(&data.Base, r, "Registration summary", "/members")
	if errMsg != "" {
		data.SetError(errMsg)
	}
	data.Notice = notice

	if g := out.Group; g != nil {
		data.GroupName = g.GroupName
		values := registration.GroupValues(*g)
		for _, f := range registration.GroupSchema.Fields {
			data.GroupFields = append(data.GroupFields, labeled{Label: f.Label, Value: values[f.Name]})
		}
		data.Documents = h.documents(r.Context(), g.ID.Hex())
	}
	for i, m := range out.Members {
		data.Members = append(data.Members, memberLine{
			Number: i + 1,
			Name:   m.Name,
			CPF:    m.CPF,
			Phone:  m.Phone,
			Gender: m.Gender,
			Role:   m.Role,
		})
	}

	h.render(w, r, "view_summary", data)
}

// documents lists what the group already uploaded. A storage failure only
// hides the list.
func (h *Handler) documents(ctx context.Context, prefix string) []filestore.FileRef {
	if h.Files == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	refs, err := h.Files.ListFolder(ctx, prefix, documentListSize)
	if err != nil {
		h.Log.Warn("list group documents failed", zap.String("prefix", prefix), zap.Error(err))
		return nil
	}
	return refs
}

func acceptList() string {
	exts := make([]string, 0, len(filestore.AcceptedTypes))
	for ext := range filestore.AcceptedTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ",")
}
