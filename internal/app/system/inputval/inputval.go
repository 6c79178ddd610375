// Package inputval validates submitted form values.
//
// Check evaluates a single value against a Rule (required, then pattern, then
// minimum length) and reports the first failure. Validate runs the form-level
// pipeline: every required field must be present before any pattern is
// looked at, and the result is all-or-nothing.
package inputval

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Patterns shared by the registration forms.
var (
	EmailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	PhonePattern      = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)
	TaxIDPattern      = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	PostalCodePattern = regexp.MustCompile(`^\d{5}-\d{3}$`)
	DatePattern       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	SmallIntPattern   = regexp.MustCompile(`^[1-9]\d?$`) // 1 to 99
)

// Reasons returned by Check.
const (
	ReasonRequired = "This field is required."
	ReasonFormat   = "Invalid format."
)

// Rule describes the constraints on one field.
type Rule struct {
	Required  bool
	Pattern   *regexp.Regexp
	MinLength int
}

// Check reports whether value satisfies rule. On failure it also returns a
// human-readable reason. Evaluation stops at the first failing constraint, so
// an empty required field never also reports a format problem.
func Check(value string, rule Rule) (bool, string) {
	v := strings.TrimSpace(value)
	if rule.Required && v == "" {
		return false, ReasonRequired
	}
	if rule.Pattern != nil && v != "" && !rule.Pattern.MatchString(v) {
		return false, ReasonFormat
	}
	if rule.MinLength > 0 && v != "" && utf8.RuneCountInString(v) < rule.MinLength {
		return false, fmt.Sprintf("Minimum of %d characters.", rule.MinLength)
	}
	return true, ""
}

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return EmailPattern.MatchString(strings.TrimSpace(s))
}

// IsValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	if !DatePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// MissingFieldsError lists required fields that were absent or blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// PatternMismatchError names the first field whose value had the wrong shape.
type PatternMismatchError struct {
	Field string
}

func (e *PatternMismatchError) Error() string {
	return "invalid format: " + e.Field
}

// Validate trims every value in data and checks it.
//
// Required fields are checked first and all missing ones are reported
// together, in the order given. Pattern checks then run over the fields that
// appear in both data and patterns, in sorted field order, and the first
// mismatch is returned. On success the trimmed values are returned.
func Validate(data map[string]string, required []string, patterns map[string]*regexp.Regexp) (map[string]string, error) {
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = strings.TrimSpace(v)
	}

	var missing []string
	for _, f := range required {
		if out[f] == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	fields := make([]string, 0, len(patterns))
	for f := range patterns {
		if _, ok := out[f]; ok {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)

	for _, f := range fields {
		if ok, _ := Check(out[f], Rule{Pattern: patterns[f]}); !ok {
			return nil, &PatternMismatchError{Field: f}
		}
	}
	return out, nil
}
