package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser is a signed-in account for handler tests.
type TestUser struct {
	ID    string
	Email string
}

// NewTestUser returns a TestUser with a fresh id.
func NewTestUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Email: "owner@test.com"}
}

// WithUser puts user into the request context, bypassing the session
// middleware.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithUser(r, &auth.SessionUser{ID: user.ID, Email: user.Email})
}

// NewAuthenticatedRequest creates a request with user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// NewFormRequest creates a urlencoded POST carrying form.
func NewFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AssertRedirect checks for a 303 to location.
func AssertRedirect(t interface {
	Helper()
	Errorf(string, ...any)
}, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Errorf("redirect location: got %q, want %q", got, location)
	}
}

// AssertContains checks that the response body contains want.
func AssertContains(t interface {
	Helper()
	Errorf(string, ...any)
}, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("response body does not contain %q", want)
	}
}
