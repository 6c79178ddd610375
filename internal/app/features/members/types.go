// internal/app/features/members/types.go
package members

import (
	"github.com/caiosarava/cadastramento/internal/app/features/shared/fields"
	"github.com/caiosarava/cadastramento/internal/app/system/formutil"
)

// rowPrefix names the repeated inputs: members-<n>-<field>.
const rowPrefix = "members"

// maxRows caps one submission. Row numbers are never reused after a block
// is removed, so they may run past maxRows.
const (
	maxRows     = 200
	maxRowIndex = 5 * maxRows
)

// One member block on the form.
type rowVM struct {
	Index  int
	Number int
	Fields []fields.VM
}

// Member stage VM
type formData struct {
	formutil.Base
	GroupName string
	Rows      []rowVM
	MaxRows   int
}
