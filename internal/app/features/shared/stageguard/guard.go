// Package stageguard keeps each registration page reachable only from the
// state that allows it.
package stageguard

import (
	"context"
	"net/http"

	uierrors "github.com/caiosarava/cadastramento/internal/app/features/errors"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/caiosarava/cadastramento/internal/app/system/timeouts"
)

// Guard resolves the signed-in account and checks it may open want.
//
// When ok is false a response has already been written: a redirect to the
// stage the account belongs on, or an error page.
func Guard(
	w http.ResponseWriter,
	r *http.Request,
	flow *registration.Workflow,
	sm *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	want registration.Stage,
) (dec registration.Decision, ownerID string, ok bool) {
	u, signedIn := auth.CurrentUser(r)
	if !signedIn {
		Redirect(w, r, registration.StageLogin.Path())
		return registration.Decision{}, "", false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	dec, err := flow.Ensure(ctx, u.ID, want, sm.GroupSession(w, r))
	if err != nil {
		errLog.LogServerError(w, r, "registration guard failed", err, registration.Describe(err), "/")
		return registration.Decision{}, "", false
	}
	if !dec.Allowed {
		Redirect(w, r, dec.Redirect.Path())
		return dec, u.ID, false
	}
	return dec, u.ID, true
}

// Redirect sends a 303, or an HX-Redirect header for HTMX requests.
func Redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
