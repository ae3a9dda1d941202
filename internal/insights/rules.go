package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"scontrino/internal/core"
)

const (
	TipSaving    TipType = "saving"
	TipTrendUp   TipType = "trend_up"
	TipTrendDown TipType = "trend_down"
	TipHabit     TipType = "habit"
)

const (
	priorityTrendUp   = 100
	priorityTrendDown = 90
	priorityHabit     = 10
)

// maxTips caps the rule-based insight list to keep the rotation short.
const maxTips = 3

// habitVisitThreshold: a merchant becomes a "buying habit" only past this
// many visits in the current month.
const habitVisitThreshold = 2

type (
	// TipType identifies which heuristic produced a tip.
	TipType string

	// Tip is one deterministic rule-based insight.
	Tip struct {
		Type     TipType `json:"type"`
		Title    string  `json:"title"`
		Message  string  `json:"message"`
		Priority float64 `json:"priority"`
		Icon     string  `json:"icon"`
	}
)

// RuleBased produces up to three heuristic tips from the transaction list:
// price-comparison savings, the month-over-month spending trend, and the
// most-visited merchant. Candidates are ranked by priority, deduplicated by
// message text (first occurrence wins) and capped.
func RuleBased(txns []core.Transaction, now time.Time) []Tip {
	if len(txns) == 0 {
		return nil
	}

	var tips []Tip
	tips = append(tips, savingTips(txns, now)...)
	if tip, ok := trendTip(txns, now); ok {
		tips = append(tips, tip)
	}
	if tip, ok := habitTip(txns, now); ok {
		tips = append(tips, tip)
	}

	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].Priority > tips[j].Priority
	})

	seen := make(map[string]struct{}, len(tips))
	unique := tips[:0]
	for _, tip := range tips {
		if _, dup := seen[tip.Message]; dup {
			continue
		}
		seen[tip.Message] = struct{}{}
		unique = append(unique, tip)
	}

	if len(unique) > maxTips {
		unique = unique[:maxTips]
	}
	return unique
}

// savingTips emits one tip per flagged price comparison, prioritized by the
// absolute euro gap.
func savingTips(txns []core.Transaction, now time.Time) []Tip {
	var tips []Tip
	for _, c := range ComparePrices(txns, now) {
		tips = append(tips, Tip{
			Type:  TipSaving,
			Title: "Smart Shopper Tip",
			Message: fmt.Sprintf("You paid €%.2f for %s at %s, but it was only €%.2f at %s.",
				c.Expensive.UnitPrice, c.Name, c.Expensive.Merchant,
				c.Cheapest.UnitPrice, c.Cheapest.Merchant),
			Priority: c.Gap,
			Icon:     "lightbulb",
		})
	}
	return tips
}

// trendTip compares this month's total against last month's. Both sides
// must be positive for a meaningful percentage; equal totals say nothing.
func trendTip(txns []core.Transaction, now time.Time) (Tip, bool) {
	curKey := core.MonthKey(now)
	prevKey := core.PrevMonthKey(now)

	var current, previous float64
	for _, t := range txns {
		if core.InMonth(t.Date, curKey) {
			current += float64(t.Total)
		}
		if core.InMonth(t.Date, prevKey) {
			previous += float64(t.Total)
		}
	}

	if current <= 0 || previous <= 0 || current == previous {
		return Tip{}, false
	}

	diff := current - previous
	percent := math.Abs(diff / previous * 100)
	if diff > 0 {
		return Tip{
			Type:     TipTrendUp,
			Title:    "Spending Alert",
			Message:  fmt.Sprintf("You've spent €%.2f (%.1f%%) more this month compared to last month.", diff, percent),
			Priority: priorityTrendUp,
			Icon:     "trending-up",
		}, true
	}
	return Tip{
		Type:     TipTrendDown,
		Title:    "Great Job!",
		Message:  fmt.Sprintf("You've saved €%.2f (%.1f%%) compared to last month!", -diff, percent),
		Priority: priorityTrendDown,
		Icon:     "trending-down",
	}, true
}

// habitTip flags the merchant with the most visits this month, once the
// count is strictly above the threshold. Ties keep the first-seen merchant.
func habitTip(txns []core.Transaction, now time.Time) (Tip, bool) {
	curKey := core.MonthKey(now)

	counts := make(map[string]int)
	var order []string
	for _, t := range txns {
		if !core.InMonth(t.Date, curKey) {
			continue
		}
		if _, ok := counts[t.Merchant]; !ok {
			order = append(order, t.Merchant)
		}
		counts[t.Merchant]++
	}

	var top string
	max := 0
	for _, m := range order {
		if counts[m] > max {
			max = counts[m]
			top = m
		}
	}

	if top == "" || max <= habitVisitThreshold {
		return Tip{}, false
	}
	return Tip{
		Type:     TipHabit,
		Title:    "Buying Habit",
		Message:  fmt.Sprintf("You've visited %s %d times this month.", top, max),
		Priority: priorityHabit,
		Icon:     "shopping-bag",
	}, true
}
