// internal/app/features/members/routes.go
package members

import (
	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeMembersForm)
		pr.Post("/", h.HandleMembersForm)
		pr.Get("/row", h.ServeBlankRow)
	})

	return r
}
