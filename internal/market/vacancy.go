package market

import "strings"

type Vacancies struct {
	Items []*Vacancy
}

type Vacancy struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Area struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"area,omitempty"`
	Salary   *Salary `json:"salary,omitempty"`
	Employer struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"employer,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
}

// Salary is an offered range. Either bound may be missing.
type Salary struct {
	From     float64 `json:"from,omitempty"`
	To       float64 `json:"to,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Gross    bool    `json:"gross,omitempty"`
}

// Midpoint returns the middle of the range, or the only known bound.
func (s *Salary) Midpoint() (float64, bool) {
	if s == nil {
		return 0, false
	}
	switch {
	case s.From > 0 && s.To > 0:
		return (s.From + s.To) / 2, true
	case s.From > 0:
		return s.From, true
	case s.To > 0:
		return s.To, true
	default:
		return 0, false
	}
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}

// SalarySamples returns the salary midpoint of every vacancy paying in
// currency. An empty currency accepts all.
func (v *Vacancies) SalarySamples(currency string) []float64 {
	samples := make([]float64, 0, len(v.Items))
	for _, vacancy := range v.Items {
		if vacancy.Salary == nil {
			continue
		}
		if currency != "" && !strings.EqualFold(vacancy.Salary.Currency, currency) {
			continue
		}
		if mid, ok := vacancy.Salary.Midpoint(); ok {
			samples = append(samples, mid)
		}
	}
	return samples
}

// ByArea counts vacancies per area name.
func (v *Vacancies) ByArea() map[string]int {
	report := make(map[string]int)
	for _, vacancy := range v.Items {
		name := vacancy.Area.Name
		if name == "" {
			name = "unknown"
		}
		report[name]++
	}
	return report
}
