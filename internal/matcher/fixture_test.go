package matcher

import (
	"testing"

	"github.com/spigell/occupation-matcher/internal/occupation"
)

func annualWages(p10, p50, p90 float64) *occupation.WageStatistics {
	return &occupation.WageStatistics{Annual: occupation.WageFigures{P10: p10, P50: p50, P90: p90}}
}

func fixtureRecords() []*occupation.Record {
	return []*occupation.Record{
		{
			Code:            "15-1252",
			Title:           "Software Developers",
			AlternateTitles: []string{"Software Engineer", "Programmer"},
			Group:           "Computer and Mathematical",
			Wages:           annualWages(77020, 132270, 208620),
		},
		{
			Code:            "15-1253",
			Title:           "Software Quality Assurance Analysts and Testers",
			AlternateTitles: []string{"QA Engineer", "Software Tester"},
			Group:           "Computer and Mathematical",
			Wages:           annualWages(59460, 101800, 162050),
		},
		{
			Code:            "29-1141",
			Title:           "Registered Nurses",
			AlternateTitles: []string{"RN", "Staff Nurse"},
			Group:           "Healthcare Practitioners",
		},
		{
			Code:            "35-2014",
			Title:           "Cooks, Restaurant",
			AlternateTitles: []string{"Line Cook"},
			Group:           "Food Preparation",
			Description:     "Prepare, season, and cook dishes in restaurants.",
			Wages:           annualWages(29610, 36850, 47580),
		},
		{
			Code:        "29-1171",
			Title:       "Nurse Practitioners",
			Group:       "Healthcare Practitioners",
			Description: "Diagnose and treat acute, episodic, or chronic illness.",
			Wages:       annualWages(94530, 126260, 168030),
		},
		{
			Code:            "41-4012",
			Title:           "Sales Representatives, Wholesale and Manufacturing",
			AlternateTitles: []string{"Sales Rep"},
			Group:           "Sales and Related",
		},
	}
}

func newFixtureMatcher(t *testing.T, records []*occupation.Record, opts IndexOptions) *Matcher {
	t.Helper()
	catalog, err := occupation.NewCatalog(&occupation.Records{Items: records})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return New(catalog, BuildIndex(catalog, opts), nil)
}
