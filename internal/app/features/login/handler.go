// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"

	uierrors "github.com/caiosarava/cadastramento/internal/app/features/errors"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/caiosarava/cadastramento/internal/app/system/formutil"
	"github.com/caiosarava/cadastramento/internal/app/system/ratelimit"
	"github.com/caiosarava/cadastramento/internal/app/system/timeouts"
	"github.com/caiosarava/cadastramento/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Accounts is the part of the account store sign-in needs.
type Accounts interface {
	Create(ctx context.Context, email, passwordHash string) (models.Account, error)
	GetByEmail(ctx context.Context, email string) (models.Account, error)
	TouchLogin(ctx context.Context, id primitive.ObjectID) error
}

type Handler struct {
	Accounts   Accounts
	Flow       *registration.Workflow
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.SignInLimiter
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	render func(http.ResponseWriter, *http.Request, string, any)
}

func NewHandler(
	accounts Accounts,
	flow *registration.Workflow,
	sessionMgr *auth.SessionManager,
	limiter *ratelimit.SignInLimiter,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Accounts:   accounts,
		Flow:       flow,
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		ErrLog:     errLog,
		Log:        logger,
		render:     templates.Render,
	}
}

const (
	modeSignIn = "signin"
	modeSignUp = "signup"
)

type loginFormData struct {
	formutil.Base
	Mode  string
	Email string
}

func parseMode(s string) string {
	if s == modeSignUp {
		return modeSignUp
	}
	return modeSignIn
}

// ServeLogin handles GET /login. Signed-in visitors are sent on to the
// stage they belong on.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.redirectToStage(w, r, u.ID)
		return
	}
	h.renderForm(w, r, http.StatusOK, parseMode(r.URL.Query().Get("mode")), "", "")
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, mode, email, msg string) {
	title := "Sign in"
	if mode == modeSignUp {
		title = "Create account"
	}
	data := loginFormData{Mode: mode, Email: email}
	formutil.SetBase(&data.Base, r, title, "/")
	if msg != "" {
		data.SetError(msg)
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	h.render(w, r, "login_form", data)
}

// redirectToStage sends a signed-in account to the page its registration
// state calls for.
func (h *Handler) redirectToStage(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	out, err := h.Flow.Resolve(ctx, userID, h.SessionMgr.GroupSession(w, r))
	if err != nil {
		// Home resolves again and shows the error page if the store is still down.
		h.Log.Warn("resolve after sign-in failed", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, out.Next().Path(), http.StatusSeeOther)
}
