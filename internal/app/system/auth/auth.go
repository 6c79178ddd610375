// Package auth keeps the signed-in account and the current group id in a
// signed gorilla/sessions cookie.
package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey  = "is_authenticated"
	userIDKey  = "user_id"
	userEmail  = "user_email"
	groupIDKey = "current_group_id"
)

// SessionUser is what LoadSessionUser injects into the request context.
type SessionUser struct {
	ID    string // account ObjectID hex
	Email string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user and whether there is one.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithUser returns a copy of r carrying u as the current user.
func WithUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// SessionManager wraps the cookie store and the cookie name.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager creates the cookie store.
//
// maxAge 0 makes the cookie last for the browser session. secure marks the
// cookie Secure; it should be true whenever the site is served over HTTPS.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, errors.New("session key is empty; provide 32+ random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "cadastro-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Store exposes the underlying cookie store.
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// Name is the session cookie name.
func (sm *SessionManager) Name() string { return sm.name }

// GetSession returns the request's session. When the cookie cannot be
// decoded a fresh session is returned together with the error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// LoadSessionUser injects the signed-in user (if any) into the context.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			sm.logSessionError("session cookie unreadable, treating as signed out", err)
			next.ServeHTTP(w, r)
			return
		}
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			id := getString(sess, userIDKey)
			if id != "" {
				r = WithUser(r, &SessionUser{ID: id, Email: getString(sess, userEmail)})
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn lets the request through only when a user is in context.
// Otherwise:
//   - HTMX: HX-Redirect to /login?return=...
//   - HTML: 303 to /login?return=...
//   - API:  401
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		dest := "/login?return=" + url.QueryEscape(r.URL.RequestURI())

		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", dest)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if wantsHTML(r) {
			http.Redirect(w, r, dest, http.StatusSeeOther)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// SignIn marks the session as authenticated for the account and drops any
// group id left by a previous identity.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID, email string) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.logSessionError("session cookie invalid, using fresh session", err)
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	sess.Values[userEmail] = email
	delete(sess.Values, groupIDKey)
	return sess.Save(r, w)
}

// SignOut expires the session cookie, which also clears the group id.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.logSessionError("session cookie invalid during sign-out", err)
	}

	// the deletion cookie must match the store's scope
	if opts := sm.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	return sess.Save(r, w)
}

// logSessionError logs cookies that fail to decode (rotated key, tampering)
// at debug level and anything else as a store error.
func (sm *SessionManager) logSessionError(msg string, err error) {
	var scErr securecookie.Error
	if errors.As(err, &scErr) && scErr.IsDecode() {
		sm.log.Debug(msg, zap.Error(err))
		return
	}
	sm.log.Warn(msg, zap.Error(err))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
