package home

import (
	"context"
	"net/http"

	uierrors "github.com/caiosarava/cadastramento/internal/app/features/errors"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/caiosarava/cadastramento/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to route the landing request.
type Handler struct {
	Flow       *registration.Workflow
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(flow *registration.Workflow, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Flow:       flow,
		SessionMgr: sm,
		ErrLog:     errLog,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – page-load check                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot sends the visitor to the stage matching their registration state.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, registration.StageLogin.Path(), http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	out, err := h.Flow.Resolve(ctx, u.ID, h.SessionMgr.GroupSession(w, r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "resolve registration state failed", err, registration.Describe(err), "/logout")
		return
	}
	http.Redirect(w, r, out.Next().Path(), http.StatusSeeOther)
}
