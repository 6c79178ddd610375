// Package formutil provides helpers for form pages: the shared view-model
// fields used to re-render a form with an error, and collectors that pull
// trimmed values out of a posted form.
//
// When a submission fails validation the handler re-renders the same form
// with the user's values echoed back and a message in Error:
//
//	data := groupFormData{Values: values}
//	formutil.SetBase(&data.Base, r, "Group", "/")
//	data.SetError("Please fill in all required fields.")
//	templates.Render(w, r, "group_form", data)
package formutil

import (
	"html/template"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/caiosarava/cadastramento/internal/app/system/viewdata"
)

// Base is embedded in form view models.
type Base struct {
	viewdata.BaseVM
	Error  template.HTML
	Notice string
}

// SetBase fills the embedded BaseVM.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
}

// SetError sets the banner message. msg is escaped.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// Collect returns field -> trimmed value for each named field present in form.
func Collect(form url.Values, fields []string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if vs, ok := form[f]; ok && len(vs) > 0 {
			out[f] = strings.TrimSpace(vs[0])
		}
	}
	return out
}

// CollectIndexed gathers repeated rows posted as "<prefix>-<n>-<field>".
// Rows come back ordered by n; gaps in the numbering are closed.
func CollectIndexed(form url.Values, prefix string, fields []string) []map[string]string {
	want := make(map[string]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}

	rows := map[int]map[string]string{}
	p := prefix + "-"
	for key, vs := range form {
		if !strings.HasPrefix(key, p) || len(vs) == 0 {
			continue
		}
		rest := key[len(p):]
		i := strings.IndexByte(rest, '-')
		if i <= 0 {
			continue
		}
		n, err := strconv.Atoi(rest[:i])
		if err != nil || n < 0 {
			continue
		}
		field := rest[i+1:]
		if !want[field] {
			continue
		}
		if rows[n] == nil {
			rows[n] = map[string]string{}
		}
		rows[n][field] = strings.TrimSpace(vs[0])
	}

	idx := make([]int, 0, len(rows))
	for n := range rows {
		idx = append(idx, n)
	}
	sort.Ints(idx)

	out := make([]map[string]string, 0, len(idx))
	for _, n := range idx {
		out = append(out, rows[n])
	}
	return out
}

// IndexedName builds the form field name CollectIndexed reads.
func IndexedName(prefix string, n int, field string) string {
	return prefix + "-" + strconv.Itoa(n) + "-" + field
}
