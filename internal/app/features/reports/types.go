package reports

import (
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/filestore"
	"github.com/caiosarava/cadastramento/internal/app/system/formutil"
)

// labeled is one "label: value" line of the group card.
type labeled struct {
	Label string
	Value string
}

// memberLine is one row of the member table.
type memberLine struct {
	Number int
	Name   string
	CPF    string
	Phone  string
	Gender string
	Role   string
}

// breakdown is one count table of the overview.
type breakdown struct {
	Title  string
	Counts []registration.Count
}

// pageData is the view model for the view stage.
type pageData struct {
	formutil.Base

	GroupName   string
	GroupFields []labeled
	Summary     registration.Summary
	Breakdowns  []breakdown
	Members     []memberLine

	UploadsEnabled bool
	Documents      []filestore.FileRef
	Accept         string
	MaxUploadMB    int
}
