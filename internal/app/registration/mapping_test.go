package registration

import (
	"testing"
)

func TestYesNo_Inverse(t *testing.T) {
	for _, b := range []bool{true, false} {
		if got := YesNoToBool(BoolToYesNo(b)); got != b {
			t.Errorf("YesNoToBool(BoolToYesNo(%v)) = %v", b, got)
		}
	}
	for _, s := range []string{Yes, No} {
		if got := BoolToYesNo(YesNoToBool(s)); got != s {
			t.Errorf("BoolToYesNo(YesNoToBool(%q)) = %q", s, got)
		}
	}
	if YesNoToBool("") || YesNoToBool("yes") {
		t.Error("only the exact Yes value is true")
	}
}

func TestMemberFromValues_StripsMarkup(t *testing.T) {
	v := validMemberRow()
	v["products"] = "<b>Cestas</b> & bolsas"
	v["household_size"] = "4"
	v["solidarity_network"] = Yes

	m := MemberFromValues(v)
	if m.Products != "Cestas & bolsas" {
		t.Errorf("Products = %q", m.Products)
	}
	if m.HouseholdSize != 4 || !m.SolidarityNetwork || m.HasSecondaryActivity {
		t.Errorf("unexpected member %+v", m)
	}
}

func TestGroupValues_PrefillsForm(t *testing.T) {
	v := GroupSchema.Mask(validGroupValues())
	back := GroupValues(GroupFromValues(v))
	for _, name := range GroupSchema.Names() {
		if back[name] != v[name] {
			t.Errorf("%s: got %q, want %q", name, back[name], v[name])
		}
	}
}

func TestMemberSchema_HouseholdSize(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"1", false},
		{"4", false},
		{"99", false},
		{"0", true},
		{"00", true},
		{"100", true},
	}
	for _, tt := range tests {
		v := validMemberRow()
		v["household_size"] = tt.value
		clean, err := MemberSchema.Validate(MemberSchema.Mask(v))
		if (err != nil) != tt.wantErr {
			t.Errorf("household_size %q: err = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if err == nil {
			if back := MemberValues(MemberFromValues(clean)); back["household_size"] != tt.value {
				t.Errorf("household_size %q came back as %q", tt.value, back["household_size"])
			}
		}
	}
}
