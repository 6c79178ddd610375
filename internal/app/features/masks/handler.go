// internal/app/features/masks/handler.go
package masks

import (
	"net/http"

	format "github.com/caiosarava/cadastramento/internal/app/system/masks"
	"github.com/go-chi/chi/v5"
)

// maxInput bounds the value echoed back; masked fields are short.
const maxInput = 64

// ServeFormat handles GET /masks/{kind}?value= and answers with the value
// formatted as text/plain, for keystroke formatting in the browser.
func ServeFormat(w http.ResponseWriter, r *http.Request) {
	kind, ok := format.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.Error(w, "unknown mask", http.StatusBadRequest)
		return
	}
	v := r.URL.Query().Get("value")
	if len(v) > maxInput {
		v = v[:maxInput]
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(format.Format(v, kind)))
}
