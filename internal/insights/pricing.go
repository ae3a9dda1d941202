// Package insights derives the rotating tip sequence shown on the dashboard:
// deterministic rule-based tips computed from the transaction list, merged
// with month-cached suggestions from the external assistant.
package insights

import (
	"sort"
	"time"

	"scontrino/internal/core"
)

// PriceWindowMonths is the trailing span price comparisons consider.
const PriceWindowMonths = 3

// priceGapFactor: the expensive observation must exceed the cheap one by
// strictly more than this factor to be worth a tip.
const priceGapFactor = 1.1

type (
	// Observation is one priced sighting of an item at a merchant.
	Observation struct {
		Name      string
		Merchant  string
		Date      string
		UnitPrice float64
		Total     float64
	}

	// Comparison flags a meaningful price gap for one item between two
	// merchants inside the recency window.
	Comparison struct {
		Name      string
		Cheapest  Observation
		Expensive Observation
		Gap       float64
	}
)

// flattenItems collects one observation per line item, carrying the owning
// transaction's merchant and date. Items with no usable price are dropped.
func flattenItems(txns []core.Transaction) []Observation {
	var out []Observation
	for _, t := range txns {
		for _, raw := range t.LineItems {
			li := raw.Normalize()
			obs := Observation{
				Name:      li.GroupKey(),
				Merchant:  t.Merchant,
				Date:      t.Date,
				UnitPrice: float64(li.UnitPrice),
				Total:     float64(li.TotalPrice),
			}
			if obs.UnitPrice <= 0 && obs.Total <= 0 {
				continue
			}
			out = append(out, obs)
		}
	}
	return out
}

// ComparePrices groups all line items by normalized name and flags groups
// where, inside the recency window, the most expensive unit price exceeds
// the cheapest by more than 10% at a different merchant. A price swing at a
// single merchant over time is not a reason to shop elsewhere.
func ComparePrices(txns []core.Transaction, now time.Time) []Comparison {
	observations := flattenItems(txns)

	groups := make(map[string][]Observation)
	var order []string
	for _, obs := range observations {
		if _, ok := groups[obs.Name]; !ok {
			order = append(order, obs.Name)
		}
		groups[obs.Name] = append(groups[obs.Name], obs)
	}

	var out []Comparison
	for _, name := range order {
		group := groups[name]
		if len(group) < 2 {
			continue
		}

		var recent []Observation
		for _, obs := range group {
			if core.WithinMonths(obs.Date, now, PriceWindowMonths) {
				recent = append(recent, obs)
			}
		}
		if len(recent) < 2 {
			continue
		}

		sort.SliceStable(recent, func(i, j int) bool {
			return recent[i].UnitPrice < recent[j].UnitPrice
		})
		cheapest := recent[0]
		expensive := recent[len(recent)-1]

		if expensive.UnitPrice <= cheapest.UnitPrice*priceGapFactor {
			continue
		}
		if cheapest.Merchant == expensive.Merchant {
			continue
		}

		out = append(out, Comparison{
			Name:      name,
			Cheapest:  cheapest,
			Expensive: expensive,
			Gap:       expensive.UnitPrice - cheapest.UnitPrice,
		})
	}
	return out
}
