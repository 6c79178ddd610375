package registration

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/caiosarava/cadastramento/internal/app/system/inputval"
	"github.com/caiosarava/cadastramento/internal/app/system/masks"
	"github.com/caiosarava/cadastramento/internal/app/system/normalize"
)

// FieldKind selects the input widget and the extra checks a field gets.
type FieldKind int

const (
	KindText FieldKind = iota
	KindEmail
	KindTel
	KindSelect
	KindYesNo
	KindNumber
	KindDate
	KindTextArea
)

// Field is one entry of a form schema.
type Field struct {
	Name      string
	Label     string
	Kind      FieldKind
	Required  bool
	Pattern   *regexp.Regexp
	MinLength int
	Mask      masks.Kind
	Options   []string
	Normalize func(string) string
}

// Rule is the validator rule for the field.
func (f Field) Rule() inputval.Rule {
	return inputval.Rule{Required: f.Required, Pattern: f.Pattern, MinLength: f.MinLength}
}

// Schema is a versioned, ordered field table.
type Schema struct {
	Name    string
	Version int
	Fields  []Field
}

// Display values for yes/no selects.
const (
	Yes = "Yes"
	No  = "No"
)

var yesNo = []string{Yes, No}

// Select options.
var (
	GenderOptions = []string{"Masculino", "Feminino", "Não-binário", "Prefiro não informar"}

	EthnicityOptions = []string{"Branco", "Pardo", "Preto", "Amarelo", "Indígena", "Prefiro não informar"}

	EducationOptions = []string{
		"Fundamental Incompleto", "Fundamental Completo",
		"Médio Incompleto", "Médio Completo",
		"Superior Incompleto", "Superior Completo",
		"Pós-graduação",
	}

	IncomeOptions = []string{
		"Até R$ 1.000", "R$ 1.001 a R$ 2.000", "R$ 2.001 a R$ 3.000",
		"R$ 3.001 a R$ 4.000", "R$ 4.001 a R$ 5.000", "Acima de R$ 5.000",
	}

	RoleOptions = []string{
		"Artesão(ã)", "Costureiro(a)", "Cozinheiro(a)", "Produtor(a) Rural",
		"Administrador(a)", "Vendedor(a)", "Outro",
	}

	StateOptions = []string{
		"AC", "AL", "AM", "AP", "BA", "CE", "DF", "ES", "GO", "MA", "MG", "MS", "MT", "PA",
		"PB", "PE", "PI", "PR", "RJ", "RN", "RO", "RR", "RS", "SC", "SE", "SP", "TO",
	}
)

// GroupSchema is the group form.
var GroupSchema = Schema{
	Name:    "group",
	Version: 2,
	Fields: []Field{
		{Name: "group_name", Label: "Group name", Required: true, MinLength: 3, Normalize: normalize.Name},
		{Name: "representative", Label: "Representative", Required: true, MinLength: 3, Normalize: normalize.Name},
		{Name: "email", Label: "Email", Kind: KindEmail, Required: true, Pattern: inputval.EmailPattern, Normalize: normalize.Email},
		{Name: "phone", Label: "Phone", Kind: KindTel, Required: true, Pattern: inputval.PhonePattern, Mask: masks.Phone},
		{Name: "city", Label: "City", Required: true},
		{Name: "state", Label: "State", Kind: KindSelect, Required: true, Options: StateOptions, Normalize: normalize.State},
		{Name: "has_headquarters", Label: "Has its own headquarters", Kind: KindYesNo, Options: yesNo},
	},
}

// MemberSchema is one row of the member form.
var MemberSchema = Schema{
	Name:    "member",
	Version: 2,
	Fields: []Field{
		{Name: "name", Label: "Full name", Required: true, MinLength: 3, Normalize: normalize.Name},
		{Name: "cpf", Label: "CPF", Kind: KindTel, Required: true, Pattern: inputval.TaxIDPattern, Mask: masks.TaxID},
		{Name: "rg", Label: "RG"},
		{Name: "birth_date", Label: "Birth date", Kind: KindDate, Pattern: inputval.DatePattern},
		{Name: "mother_name", Label: "Mother's name", Normalize: normalize.Name},
		{Name: "phone", Label: "Phone", Kind: KindTel, Required: true, Pattern: inputval.PhonePattern, Mask: masks.Phone},
		{Name: "email", Label: "Email", Kind: KindEmail, Pattern: inputval.EmailPattern, Normalize: normalize.Email},
		{Name: "address", Label: "Address", Kind: KindTextArea},
		{Name: "cep", Label: "CEP", Kind: KindTel, Pattern: inputval.PostalCodePattern, Mask: masks.PostalCode},
		{Name: "gender", Label: "Gender", Kind: KindSelect, Required: true, Options: GenderOptions},
		{Name: "ethnicity", Label: "Ethnicity", Kind: KindSelect, Options: EthnicityOptions},
		{Name: "education", Label: "Education", Kind: KindSelect, Options: EducationOptions},
		{Name: "role", Label: "Role in the group", Kind: KindSelect, Required: true, Options: RoleOptions},
		{Name: "household_size", Label: "People in household", Kind: KindNumber, Pattern: inputval.SmallIntPattern},
		{Name: "monthly_income", Label: "Monthly income", Kind: KindSelect, Options: IncomeOptions},
		{Name: "products", Label: "Products", Kind: KindTextArea},
		{Name: "raw_materials", Label: "Raw materials", Kind: KindTextArea},
		{Name: "solidarity_network", Label: "Takes part in a solidarity network", Kind: KindYesNo, Options: yesNo},
		{Name: "has_secondary_activity", Label: "Has a secondary activity", Kind: KindYesNo, Options: yesNo},
		{Name: "secondary_activity", Label: "Secondary activity"},
	},
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// Required returns the required field names in schema order.
func (s Schema) Required() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Patterns returns the pattern table for inputval.Validate.
func (s Schema) Patterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	for _, f := range s.Fields {
		if f.Pattern != nil {
			out[f.Name] = f.Pattern
		}
	}
	return out
}

// Field looks a field up by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Label returns the display label for name, or name itself.
func (s Schema) Label(name string) string {
	if f, ok := s.Field(name); ok {
		return f.Label
	}
	return name
}

// Mask trims every value, then applies the field normalizers and masks. Keys not in the
// schema are dropped. A value with more digits than its mask holds is kept as typed
// so that Validate rejects it instead of saving a truncated number.
func (s Schema) Mask(values map[string]string) map[string]string {
	out := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if f.Normalize != nil {
			v = f.Normalize(v)
		}
		if f.Mask != masks.None && v != "" && masks.Fits(v, f.Mask) {
			v = masks.Format(v, f.Mask)
		}
		out[f.Name] = v
	}
	return out
}

// OptionMismatchError names a select field whose value is not one of its
// options.
type OptionMismatchError struct {
	Field string
}

func (e *OptionMismatchError) Error() string {
	return "value not allowed: " + e.Field
}

// LengthError names a field shorter than its minimum length.
type LengthError struct {
	Field string
	Min   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s: shorter than %d characters", e.Field, e.Min)
}

// Validate runs the form pipeline over values (already masked). Missing
// required fields are reported first, then pattern mismatches, then the
// per-field checks in schema order. Nothing partial is returned.
func (s Schema) Validate(values map[string]string) (map[string]string, error) {
	clean, err := inputval.Validate(values, s.Required(), s.Patterns())
	if err != nil {
		return nil, err
	}
	for _, f := range s.Fields {
		v := clean[f.Name]
		if v == "" {
			continue
		}
		if ok, _ := inputval.Check(v, inputval.Rule{MinLength: f.MinLength}); !ok {
			return nil, &LengthError{Field: f.Name, Min: f.MinLength}
		}
		if len(f.Options) > 0 && !slices.Contains(f.Options, v) {
			return nil, &OptionMismatchError{Field: f.Name}
		}
		if f.Kind == KindDate && !inputval.IsValidDate(v) {
			return nil, &inputval.PatternMismatchError{Field: f.Name}
		}
	}
	return clean, nil
}

// Describe turns a validation error into a message for the form banner.
func (s Schema) Describe(err error) string {
	var (
		missing *inputval.MissingFieldsError
		pattern *inputval.PatternMismatchError
		option  *OptionMismatchError
		length  *LengthError
	)
	switch {
	case errors.As(err, &missing):
		labels := make([]string, len(missing.Fields))
		for i, f := range missing.Fields {
			labels[i] = s.Label(f)
		}
		return "Please fill in the required fields: " + strings.Join(labels, ", ") + "."
	case errors.As(err, &pattern):
		return "Check the format of " + s.Label(pattern.Field) + "."
	case errors.As(err, &option):
		return "Choose a valid option for " + s.Label(option.Field) + "."
	case errors.As(err, &length):
		return fmt.Sprintf("%s must have at least %d characters.", s.Label(length.Field), length.Min)
	default:
		return "The form could not be validated."
	}
}
