// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/caiosarava/cadastramento/internal/app/system/auth"
	"github.com/caiosarava/cadastramento/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// BaseVM contains the fields every page layout reads.
// Embed it in feature view models:
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	IsLoggedIn bool
	UserEmail  string

	Title       string
	BackURL     string
	CurrentPath string

	CSRFToken string
}

// NewBaseVM fills a BaseVM from the request.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.UserEmail = u.Email
	}
	return vm
}
