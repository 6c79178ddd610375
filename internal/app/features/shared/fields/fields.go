// Package fields turns a registration schema into the view models the
// shared "field" partial renders.
package fields

import (
	"github.com/caiosarava/cadastramento/internal/app/registration"
	"github.com/caiosarava/cadastramento/internal/app/system/formutil"
)

// VM is one rendered input.
type VM struct {
	F         registration.Field
	Name      string
	Value     string
	Options   []string
	TextArea  bool
	InputType string
	Mask      string
}

// Build returns one VM per schema field, named plainly.
func Build(s registration.Schema, values map[string]string) []VM {
	out := make([]VM, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = vm(f, f.Name, values[f.Name])
	}
	return out
}

// BuildIndexed returns the VMs for row n of a repeated form, named
// "<prefix>-<n>-<field>".
func BuildIndexed(s registration.Schema, prefix string, n int, values map[string]string) []VM {
	out := make([]VM, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = vm(f, formutil.IndexedName(prefix, n, f.Name), values[f.Name])
	}
	return out
}

func vm(f registration.Field, name, value string) VM {
	v := VM{F: f, Name: name, Value: value, Options: f.Options, Mask: string(f.Mask)}
	switch f.Kind {
	case registration.KindEmail:
		v.InputType = "email"
	case registration.KindTel:
		v.InputType = "tel"
	case registration.KindNumber:
		v.InputType = "number"
	case registration.KindDate:
		v.InputType = "date"
	case registration.KindTextArea:
		v.TextArea = true
	default:
		v.InputType = "text"
	}
	return v
}
