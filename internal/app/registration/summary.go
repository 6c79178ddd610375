package registration

import (
	"sort"

	"github.com/caiosarava/cadastramento/internal/domain/models"
)

// Count is one bucket of a breakdown.
type Count struct {
	Label string
	N     int
}

// Summary is the aggregated report shown on the view page.
type Summary struct {
	Total             int
	HouseholdTotal    int
	SolidarityNetwork int
	SecondaryActivity int
	ByGender          []Count
	ByRole            []Count
	ByEducation       []Count
	ByEthnicity       []Count
	ByIncome          []Count
}

const notInformed = "Not informed"

// Summarize aggregates members. Breakdowns list the schema options in order
// (zero buckets omitted) followed by values outside the option list.
func Summarize(members []models.Member) Summary {
	s := Summary{Total: len(members)}
	gender := map[string]int{}
	role := map[string]int{}
	education := map[string]int{}
	ethnicity := map[string]int{}
	income := map[string]int{}

	for _, m := range members {
		s.HouseholdTotal += m.HouseholdSize
		if m.SolidarityNetwork {
			s.SolidarityNetwork++
		}
		if m.HasSecondaryActivity {
			s.SecondaryActivity++
		}
		gender[orNotInformed(m.Gender)]++
		role[orNotInformed(m.Role)]++
		education[orNotInformed(m.Education)]++
		ethnicity[orNotInformed(m.Ethnicity)]++
		income[orNotInformed(m.MonthlyIncome)]++
	}

	s.ByGender = breakdown(gender, GenderOptions)
	s.ByRole = breakdown(role, RoleOptions)
	s.ByEducation = breakdown(education, EducationOptions)
	s.ByEthnicity = breakdown(ethnicity, EthnicityOptions)
	s.ByIncome = breakdown(income, IncomeOptions)
	return s
}

func orNotInformed(v string) string {
	if v == "" {
		return notInformed
	}
	return v
}

func breakdown(counts map[string]int, order []string) []Count {
	out := make([]Count, 0, len(counts))
	seen := make(map[string]bool, len(order))
	for _, o := range order {
		seen[o] = true
		if n := counts[o]; n > 0 {
			out = append(out, Count{Label: o, N: n})
		}
	}
	var rest []string
	for k := range counts {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, Count{Label: k, N: counts[k]})
	}
	return out
}
