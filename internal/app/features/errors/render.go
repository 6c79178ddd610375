// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/caiosarava/cadastramento/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
}

func render(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, title, "/"),
		Status:  status,
		Message: msg,
	}
	if backURL != "" {
		data.BackURL = backURL
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", data)
}

// RenderUnauthorized shows a "sign in required" page. An empty backURL
// defaults to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	render(w, r, http.StatusUnauthorized, "Sign in required", "Please sign in to continue.", backURL)
}

// RenderForbidden shows an access error with msg.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusForbidden, "Access denied", msg, backURL)
}

func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusBadRequest, "Invalid request", msg, backURL)
}

func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusNotFound, "Not found", msg, backURL)
}

func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusInternalServerError, "Something went wrong", msg, backURL)
}
