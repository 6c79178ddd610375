// internal/app/features/groups/routes.go
package groups

import (
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeGroupForm)
		pr.Post("/", h.HandleGroupForm)
	})

	return r
}
