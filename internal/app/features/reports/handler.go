// internal/app/features/reports/handler.go
package reports

import (
	"net/http"
	"time"

	uierrors "github.com/caiosarava/cadastramento/internal/app/features/errors"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/caiosarava/cadastramento/internal/app/system/filestore"
	"github.com/caiosarava/cadastramento/internal/app/system/metrics"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler owns the view stage: the group summary page, the member CSV
// export and the document upload.
//
// Files is nil when document storage is not configured; the page then
// hides the upload form and uploads are refused.
type Handler struct {
	Flow       *registration.Workflow
	SessionMgr *auth.SessionManager
	Files      filestore.Files
	Metrics    *metrics.Metrics
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	render func(http.ResponseWriter, *http.Request, string, any)
	now    func() time.Time
}

func NewHandler(
	flow *registration.Workflow,
	sm *auth.SessionManager,
	files filestore.Files,
	m *metrics.Metrics,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Handler{
		Flow:       flow,
		SessionMgr: sm,
		Files:      files,
		Metrics:    m,
		ErrLog:     errLog,
		Log:        logger,
		render:     templates.Render,
		now:        time.Now,
	}
}
