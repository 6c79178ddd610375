// internal/app/system/csvutil/csvutil.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
)

// bom makes Excel open the file as UTF-8.
var bom = []byte{0xEF, 0xBB, 0xBF}

// WriteAttachment sends header and rows as a CSV download named filename.
func WriteAttachment(w http.ResponseWriter, filename string, header []string, rows [][]string) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	if _, err := w.Write(bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(Safe(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Safe prefixes cells that a spreadsheet would evaluate as a formula.
func Safe(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		if c != "" && strings.ContainsRune("=+-@\t\r", rune(c[0])) {
			c = "'" + c
		}
		out[i] = c
	}
	return out
}

// Filename builds "<slug>_<yyyy-mm-dd>.csv" from a display name.
func Filename(name string, at time.Time) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "export"
	}
	return slug + "_" + at.Format("2006-01-02") + ".csv"
}
