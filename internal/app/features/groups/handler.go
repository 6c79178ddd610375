// internal/app/features/groups/handler.go
package groups

import (
	"net/http"

	uierrors "github.com/caiosarava/cadastramento/internal/app/features/errors"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the group stage of the registration flow.
type Handler struct {
	Flow       *registration.Workflow
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	render func(http.ResponseWriter, *http.Request, string, any)
}

func NewHandler(flow *registration.Workflow, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Flow:       flow,
		SessionMgr: sm,
		ErrLog:     errLog,
		Log:        logger,
		render:     templates.Render,
	}
}
