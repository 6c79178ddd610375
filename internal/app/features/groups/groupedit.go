// internal/app/features/groups/groupedit.go
package groups

import (
	"context"
	"errors"
	"net/http"

	"github.com/caiosarava/cadastramento/internal/app/features/shared/fields"
	"github.com/caiosarava/cadastramento/internal/app/features/shared/stageguard"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/caiosarava/cadastramento/internal/app/system/formutil"
	"github.com/caiosarava/cadastramento/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type groupFormData struct {
	formutil.Base
	Fields  []fields.VM
	Editing bool
}

// ServeGroupForm renders the group stage, prefilled when the account
// already registered a group.
func (h *Handler) ServeGroupForm(w http.ResponseWriter, r *http.Request) {
	dec, _, ok := stageguard.Guard(w, r, h.Flow, h.SessionMgr, h.ErrLog, registration.StageGroup)
	if !ok {
		return
	}

	values := map[string]string{}
	if dec.Group != nil {
		values = registration.GroupValues(*dec.Group)
	}
	h.renderForm(w, r, values, dec.Group != nil, "")
}

// HandleGroupForm saves the group and moves on to the next stage.
func (h *Handler) HandleGroupForm(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		stageguard.Redirect(w, r, registration.StageLogin.Path())
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/group")
		return
	}

	values := formutil.Collect(r.PostForm, registration.GroupSchema.Names())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := h.Flow.SubmitGroup(ctx, u.ID, values, h.SessionMgr.GroupSession(w, r))
	switch {
	case errors.Is(err, registration.ErrUnauthenticated):
		stageguard.Redirect(w, r, registration.StageLogin.Path())
		return
	case err != nil:
		h.Log.Info("group form rejected", zap.String("account_id", u.ID), zap.Error(err))
		h.renderForm(w, r, registration.GroupSchema.Mask(values), r.PostForm.Get("editing") == "1", registration.Describe(err))
		return
	}

	stageguard.Redirect(w, r, out.Next().Path())
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, values map[string]string, editing bool, msg string) {
	data := groupFormData{
		Fields:  fields.Build(registration.GroupSchema, values),
		Editing: editing,
	}
	formutil.SetBase(&data.Base, r, "Group registration", "/")
	if msg != "" {
		data.SetError(msg)
	}
	h.render(w, r, "group_form", data)
}
