package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// GroupSession is the per-request view of the current group id stored in the
// session cookie. Writes are saved immediately, so they must happen before
// the response body is written.
type GroupSession struct {
	sm   *SessionManager
	w    http.ResponseWriter
	r    *http.Request
	sess *sessions.Session
}

// GroupSession binds the accessor to a request/response pair.
func (sm *SessionManager) GroupSession(w http.ResponseWriter, r *http.Request) *GroupSession {
	return &GroupSession{sm: sm, w: w, r: r}
}

func (g *GroupSession) session() *sessions.Session {
	if g.sess == nil {
		sess, err := g.sm.GetSession(g.r)
		if err != nil {
			g.sm.logSessionError("session cookie invalid, using fresh session", err)
		}
		g.sess = sess
	}
	return g.sess
}

// Get returns the stored group id.
func (g *GroupSession) Get() (string, bool) {
	id, ok := g.session().Values[groupIDKey].(string)
	return id, ok && id != ""
}

// Set stores id. Saving an unchanged value does not rewrite the cookie.
func (g *GroupSession) Set(id string) error {
	sess := g.session()
	if cur, _ := sess.Values[groupIDKey].(string); cur == id {
		return nil
	}
	sess.Values[groupIDKey] = id
	return sess.Save(g.r, g.w)
}

// Clear removes the stored group id.
func (g *GroupSession) Clear() error {
	sess := g.session()
	if _, ok := sess.Values[groupIDKey]; !ok {
		return nil
	}
	delete(sess.Values, groupIDKey)
	return sess.Save(g.r, g.w)
}
