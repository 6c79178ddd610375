// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email trims and lower-cases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses runs of whitespace to a single space. Case is kept.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// State upper-cases a two-letter state code.
func State(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QueryParam trims a query-string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
