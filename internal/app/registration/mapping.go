package registration

import (
	"strconv"

	"github.com/caiosarava/cadastramento/internal/app/system/htmlsanitize"
	"github.com/caiosarava/cadastramento/internal/domain/models"
)

// BoolToYesNo renders a stored flag for display.
func BoolToYesNo(b bool) string {
	if b {
		return Yes
	}
	return No
}

// YesNoToBool reads a yes/no select. Anything but Yes is false.
func YesNoToBool(s string) bool {
	return s == Yes
}

// GroupFromValues maps validated group form values to a record. Identity
// and timestamps are left for the store.
func GroupFromValues(v map[string]string) models.Group {
	return models.Group{
		GroupName:       v["group_name"],
		Representative:  v["representative"],
		Email:           v["email"],
		Phone:           v["phone"],
		City:            v["city"],
		State:           v["state"],
		HasHeadquarters: YesNoToBool(v["has_headquarters"]),
	}
}

// GroupValues is the inverse of GroupFromValues, used to prefill the form.
func GroupValues(g models.Group) map[string]string {
	return map[string]string{
		"group_name":       g.GroupName,
		"representative":   g.Representative,
		"email":            g.Email,
		"phone":            g.Phone,
		"city":             g.City,
		"state":            g.State,
		"has_headquarters": BoolToYesNo(g.HasHeadquarters),
	}
}

// MemberFromValues maps one validated member row to a record. Free-text
// fields have any markup stripped.
func MemberFromValues(v map[string]string) models.Member {
	household, _ := strconv.Atoi(v["household_size"])
	return models.Member{
		Name:                 v["name"],
		CPF:                  v["cpf"],
		RG:                   v["rg"],
		BirthDate:            v["birth_date"],
		MotherName:           v["mother_name"],
		Phone:                v["phone"],
		Email:                v["email"],
		Address:              htmlsanitize.PlainText(v["address"]),
		CEP:                  v["cep"],
		Gender:               v["gender"],
		Ethnicity:            v["ethnicity"],
		Education:            v["education"],
		Role:                 v["role"],
		HouseholdSize:        household,
		MonthlyIncome:        v["monthly_income"],
		Products:             htmlsanitize.PlainText(v["products"]),
		RawMaterials:         htmlsanitize.PlainText(v["raw_materials"]),
		SolidarityNetwork:    YesNoToBool(v["solidarity_network"]),
		HasSecondaryActivity: YesNoToBool(v["has_secondary_activity"]),
		SecondaryActivity:    htmlsanitize.PlainText(v["secondary_activity"]),
	}
}

// MemberValues is the inverse of MemberFromValues.
func MemberValues(m models.Member) map[string]string {
	household := ""
	if m.HouseholdSize > 0 {
		household = strconv.Itoa(m.HouseholdSize)
	}
	return map[string]string{
		"name":                   m.Name,
		"cpf":                    m.CPF,
		"rg":                     m.RG,
		"birth_date":             m.BirthDate,
		"mother_name":            m.MotherName,
		"phone":                  m.Phone,
		"email":                  m.Email,
		"address":                m.Address,
		"cep":                    m.CEP,
		"gender":                 m.Gender,
		"ethnicity":              m.Ethnicity,
		"education":              m.Education,
		"role":                   m.Role,
		"household_size":         household,
		"monthly_income":         m.MonthlyIncome,
		"products":               m.Products,
		"raw_materials":          m.RawMaterials,
		"solidarity_network":     BoolToYesNo(m.SolidarityNetwork),
		"has_secondary_activity": BoolToYesNo(m.HasSecondaryActivity),
		"secondary_activity":     m.SecondaryActivity,
	}
}
