// Package budget derives spending statistics and budget figures from a
// transaction list. Every figure is recomputed from scratch on each call;
// there is no incremental state.
package budget

import (
	"sort"
	"time"

	"scontrino/internal/core"
)

const (
	SavingsPercentage SavingsType = "percentage"
	SavingsFixed      SavingsType = "fixed"
)

// TopCategoryCount is how many categories the dashboard chart shows.
const TopCategoryCount = 5

type (
	// SavingsType selects how Settings.SavingsValue is interpreted.
	SavingsType string

	// Settings is the per-user budget configuration. A zero Income means
	// the user has not configured a budget yet; that is a defined state,
	// not an error.
	Settings struct {
		Income       core.Amount `json:"income"`
		SavingsType  SavingsType `json:"savingsType"`
		SavingsValue core.Amount `json:"savingsValue"`
	}

	// CategoryTotal is an aggregated amount for one category.
	CategoryTotal struct {
		Name  string  `json:"name"`
		Total float64 `json:"total"`
	}

	// Stats is the full set of derived dashboard figures.
	Stats struct {
		MonthlyTotal float64 `json:"monthlyTotal"`
		YearlyTotal  float64 `json:"yearlyTotal"`
		DailyAverage float64 `json:"dailyAverage"`

		HighestCategory CategoryTotal   `json:"highestCategory"`
		Categories      []CategoryTotal `json:"categories"`

		SavingsAmount      float64 `json:"savingsAmount"`
		SpendableAmount    float64 `json:"spendableAmount"`
		RemainingSpendable float64 `json:"remainingSpendable"`
	}
)

// Compute aggregates the given transactions against the reference instant.
// The category figures are computed over exactly the slice passed in; the
// caller decides whether that slice is the full history or a month filter.
// A nil settings pointer yields zeroed budget fields.
func Compute(txns []core.Transaction, settings *Settings, now time.Time) Stats {
	monthKey := core.MonthKey(now)
	year := now.Year()

	var s Stats
	for _, t := range txns {
		amount := float64(t.Total)
		if core.InMonth(t.Date, monthKey) {
			s.MonthlyTotal += amount
		}
		if core.InYear(t.Date, year) {
			s.YearlyTotal += amount
		}
	}

	day := now.Day()
	if day < 1 {
		day = 1
	}
	s.DailyAverage = s.MonthlyTotal / float64(day)

	s.Categories = CategoryTotals(txns)
	s.HighestCategory = HighestCategory(s.Categories)

	if settings != nil && settings.Income > 0 {
		s.SavingsAmount = settings.SavingsAmount()
		s.SpendableAmount = float64(settings.Income) - s.SavingsAmount
		s.RemainingSpendable = s.SpendableAmount - s.MonthlyTotal
	}

	return s
}

// SavingsAmount resolves the configured savings target to a euro amount.
func (s Settings) SavingsAmount() float64 {
	switch s.SavingsType {
	case SavingsFixed:
		return float64(s.SavingsValue)
	default:
		// Percentage is the default interpretation.
		return float64(s.Income) * float64(s.SavingsValue) / 100
	}
}

// CategoryTotals sums line-item totals per category over the given slice,
// in first-seen order. Transactions without line items contribute their
// total under the default category.
func CategoryTotals(txns []core.Transaction) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal

	add := func(name string, amount float64) {
		if name == "" {
			name = core.DefaultCategory
		}
		i, ok := index[name]
		if !ok {
			index[name] = len(out)
			out = append(out, CategoryTotal{Name: name})
			i = len(out) - 1
		}
		out[i].Total += amount
	}

	for _, t := range txns {
		if len(t.LineItems) == 0 {
			add(core.DefaultCategory, float64(t.Total))
			continue
		}
		for _, li := range t.LineItems {
			add(li.Category, float64(li.TotalPrice))
		}
	}

	return out
}

// HighestCategory returns the category with the greatest total. Ties keep
// the earlier-seen category: only a strictly greater total wins.
func HighestCategory(cats []CategoryTotal) CategoryTotal {
	highest := CategoryTotal{Name: "N/A"}
	for _, c := range cats {
		if c.Total > highest.Total {
			highest = c
		}
	}
	return highest
}

// TopCategories returns the n largest categories in descending order. The
// sort is stable so equal totals keep their first-seen order.
func TopCategories(cats []CategoryTotal, n int) []CategoryTotal {
	sorted := make([]CategoryTotal, len(cats))
	copy(sorted, cats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total > sorted[j].Total
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
