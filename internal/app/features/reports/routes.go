// internal/app/features/reports/routes.go
package reports

import (
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(rr chi.Router) {
		rr.Use(sm.RequireSignedIn)
		rr.Get("/", h.ServeView)
		rr.Get("/members.csv", h.ServeMembersCSV)
		rr.Post("/documents", h.HandleUpload)
	})

	return r
}
