// Package masks formats partially typed Brazilian identifiers the way the
// registration forms display them: postal code (CEP), taxpayer id (CPF) and
// phone numbers.
//
// Every formatter strips non-digits first, truncates to the maximum digit
// count and re-inserts separators at fixed offsets. Because only digits
// survive the first step, formatting a formatted value is a no-op.
package masks

import (
	"strings"
)

// Kind selects a formatter.
type Kind string

const (
	None       Kind = ""
	PostalCode Kind = "cep"
	TaxID      Kind = "cpf"
	Phone      Kind = "phone"
)

// Maximum digit counts.
const (
	postalCodeDigits = 8
	taxIDDigits      = 11
	phoneDigits      = 11
)

// ParseKind maps a URL/form token to a Kind. Unknown tokens return false.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case PostalCode:
		return PostalCode, true
	case TaxID:
		return TaxID, true
	case Phone:
		return Phone, true
	}
	return None, false
}

// Format applies the formatter for kind. None returns raw unchanged.
func Format(raw string, kind Kind) string {
	switch kind {
	case PostalCode:
		return FormatPostalCode(raw)
	case TaxID:
		return FormatTaxID(raw)
	case Phone:
		return FormatPhone(raw)
	}
	return raw
}

// MaxDigits is the digit count a complete value of kind has. None returns 0.
func MaxDigits(kind Kind) int {
	switch kind {
	case PostalCode:
		return postalCodeDigits
	case TaxID:
		return taxIDDigits
	case Phone:
		return phoneDigits
	}
	return 0
}

// Fits reports whether raw has no more digits than kind allows, so that
// Format keeps every digit.
func Fits(raw string, kind Kind) bool {
	return len(Digits(raw)) <= MaxDigits(kind)
}

// FormatPostalCode renders up to 8 digits as DDDDD-DDD.
func FormatPostalCode(raw string) string {
	d := digits(raw, postalCodeDigits)
	if len(d) <= 5 {
		return d
	}
	return d[:5] + "-" + d[5:]
}

// FormatTaxID renders up to 11 digits as DDD.DDD.DDD-DD.
func FormatTaxID(raw string) string {
	d := digits(raw, taxIDDigits)
	var b strings.Builder
	for i := 0; i < len(d); i++ {
		switch i {
		case 3, 6:
			b.WriteByte('.')
		case 9:
			b.WriteByte('-')
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

// FormatPhone renders up to 11 digits as (DD) DDDD-DDDD, switching to the
// five-digit local prefix (DD) DDDDD-DDDD once an eleventh digit is present.
// The area code is left bare until a third digit arrives.
func FormatPhone(raw string) string {
	d := digits(raw, phoneDigits)
	n := len(d)
	switch {
	case n == 0:
		return ""
	case n <= 2:
		return d
	}

	prefix := 4
	if n > 10 {
		prefix = 5
	}

	out := "(" + d[:2] + ") "
	local := d[2:]
	if len(local) <= prefix {
		return out + local
	}
	return out + local[:prefix] + "-" + local[prefix:]
}

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	return digits(s, -1)
}

func digits(s string, max int) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		if max >= 0 && b.Len() == max {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}
