package login

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	accountstore "github.com/caiosarava/cadastramento/internal/app/store/accounts"
	"github.com/caiosarava/cadastramento/internal/app/system/authutil"
	"github.com/caiosarava/cadastramento/internal/app/system/inputval"
	"github.com/caiosarava/cadastramento/internal/app/system/normalize"
	"github.com/caiosarava/cadastramento/internal/app/system/timeouts"
	"github.com/caiosarava/cadastramento/internal/domain/models"
	"go.uber.org/zap"
)

const msgBadCredentials = "Invalid email or password."

// HandleLoginPost handles POST /login for both sign-in and sign-up.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	mode := parseMode(r.PostFormValue("mode"))
	email := normalize.Email(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	_, err := inputval.Validate(
		map[string]string{"email": email, "password": password},
		[]string{"email", "password"},
		map[string]*regexp.Regexp{"email": inputval.EmailPattern},
	)
	if err != nil {
		msg := "Please enter your email and password."
		var bad *inputval.PatternMismatchError
		if errors.As(err, &bad) {
			msg = "Please enter a valid email address."
		}
		h.renderForm(w, r, http.StatusOK, mode, email, msg)
		return
	}

	if ok, msg := h.Limiter.Check(r, email); !ok {
		h.Log.Warn("sign-in rate limited", zap.String("email", email))
		h.renderForm(w, r, http.StatusTooManyRequests, mode, email, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var acct models.Account
	if mode == modeSignUp {
		acct, err = h.signUp(ctx, email, password)
	} else {
		acct, err = h.signIn(ctx, email, password)
	}
	if err != nil {
		var fe formError
		if errors.As(err, &fe) {
			h.renderForm(w, r, http.StatusOK, mode, email, string(fe))
			return
		}
		h.ErrLog.LogServerError(w, r, "account lookup failed", err, "A server error occurred. Please try again.", "/login")
		return
	}

	h.Limiter.ResetEmail(email)
	if err := h.SessionMgr.SignIn(w, r, acct.ID.Hex(), acct.Email); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Could not start your session.", "/login")
		return
	}
	h.Log.Info("signed in", zap.String("mode", mode), zap.String("account_id", acct.ID.Hex()))

	h.redirectToStage(w, r, acct.ID.Hex())
}

// formError is a message shown on the form instead of an error page.
type formError string

func (e formError) Error() string { return string(e) }

func (h *Handler) signUp(ctx context.Context, email, password string) (models.Account, error) {
	if err := authutil.ValidatePassword(password); err != nil {
		return models.Account{}, formError(passwordMessage(err))
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return models.Account{}, err
	}
	acct, err := h.Accounts.Create(ctx, email, hash)
	if errors.Is(err, accountstore.ErrDuplicateEmail) {
		return models.Account{}, formError("An account with this email already exists. Please sign in.")
	}
	return acct, err
}

func (h *Handler) signIn(ctx context.Context, email, password string) (models.Account, error) {
	acct, err := h.Accounts.GetByEmail(ctx, email)
	if errors.Is(err, accountstore.ErrNotFound) {
		return models.Account{}, formError(msgBadCredentials)
	}
	if err != nil {
		return models.Account{}, err
	}
	if !authutil.CheckPassword(password, acct.PasswordHash) {
		return models.Account{}, formError(msgBadCredentials)
	}
	if err := h.Accounts.TouchLogin(ctx, acct.ID); err != nil {
		h.Log.Warn("record last login failed", zap.Error(err))
	}
	return acct, nil
}

func passwordMessage(err error) string {
	switch {
	case errors.Is(err, authutil.ErrPasswordTooShort):
		return "Password must have at least 6 characters."
	case errors.Is(err, authutil.ErrPasswordTooLong):
		return "Password is too long."
	default:
		return "Please choose a password."
	}
}
