// internal/app/features/members/util.go
package members

import (
	"github.com/caiosarava/cadastramento/internal/app/features/shared/fields"
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/domain/models"
)

func newRow(n int, values map[string]string) rowVM {
	return rowVM{
		Index:  n,
		Number: n + 1,
		Fields: fields.BuildIndexed(registration.MemberSchema, rowPrefix, n, values),
	}
}

// rowsFromMembers prefills the form with the stored set. An empty set still
// gets one blank block to fill in.
func rowsFromMembers(ms []models.Member) []rowVM {
	if len(ms) == 0 {
		return []rowVM{newRow(0, nil)}
	}
	rows := make([]rowVM, len(ms))
	for i, m := range ms {
		rows[i] = newRow(i, registration.MemberValues(m))
	}
	return rows
}

// rowsFromValues echoes a rejected submission back, masked the way it
// would have been saved.
func rowsFromValues(in []map[string]string) []rowVM {
	if len(in) == 0 {
		return []rowVM{newRow(0, nil)}
	}
	rows := make([]rowVM, len(in))
	for i, v := range in {
		rows[i] = newRow(i, registration.MemberSchema.Mask(v))
	}
	return rows
}
