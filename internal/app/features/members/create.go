// internal/app/features/members/create.go
package members

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/caiosarava/cadastramento/internal/app/features/shared/stageguard"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/caiosarava/cadastramento/internal/app/system/formutil"
	"github.com/caiosarava/cadastramento/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeMembersForm renders the member stage with the current member set.
func (h *Handler) ServeMembersForm(w http.ResponseWriter, r *http.Request) {
	dec, _, ok := stageguard.Guard(w, r, h.Flow, h.SessionMgr, h.ErrLog, registration.StageMembers)
	if !ok {
		return
	}
	h.renderForm(w, r, dec.Group.GroupName, rowsFromMembers(dec.Members), "")
}

// ServeBlankRow returns one empty member block for the HTMX "add member"
// button. The row number comes from ?n=.
func (h *Handler) ServeBlankRow(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n < 0 || n >= maxRowIndex {
		http.Error(w, "bad row number", http.StatusBadRequest)
		return
	}
	h.snippet(w, "member_row", newRow(n, nil))
}

// HandleMembersForm replaces the group's member set with the submitted rows.
func (h *Handler) HandleMembersForm(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		stageguard.Redirect(w, r, registration.StageLogin.Path())
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/members")
		return
	}

	rows := formutil.CollectIndexed(r.PostForm, rowPrefix, registration.MemberSchema.Names())
	groupName := r.PostForm.Get("group_name")
	if len(rows) > maxRows {
		h.renderForm(w, r, groupName, rowsFromValues(rows[:maxRows]),
			fmt.Sprintf("A group can have at most %d members.", maxRows))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := h.Flow.SubmitMembers(ctx, u.ID, rows, h.SessionMgr.GroupSession(w, r))
	switch {
	case errors.Is(err, registration.ErrUnauthenticated):
		stageguard.Redirect(w, r, registration.StageLogin.Path())
		return
	case errors.Is(err, registration.ErrNoGroup):
		stageguard.Redirect(w, r, registration.StageGroup.Path())
		return
	case err != nil:
		h.Log.Info("member form rejected", zap.String("account_id", u.ID), zap.Error(err))
		h.renderForm(w, r, groupName, rowsFromValues(rows), registration.Describe(err))
		return
	}

	stageguard.Redirect(w, r, out.Next().Path())
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, groupName string, rows []rowVM, msg string) {
	data := formData{GroupName: groupName, Rows: rows, MaxRows: maxRows}
	formutil.SetBase(&data.Base, r, "Member registration", "/group")
	if msg != "" {
		data.SetError(msg)
	}
	h.render(w, r, "members_form", data)
}
