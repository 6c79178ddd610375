// internal/app/features/masks/routes.go
package masks

import "github.com/go-chi/chi/v5"

func Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{kind}", ServeFormat)
	return r
}
