package core

import "strings"

// Normalize returns a canonical copy of the transaction: trimmed strings,
// finite non-negative amounts and every line item normalized. It never
// fails; invalid input degrades to zero or default values.
func (t Transaction) Normalize() Transaction {
	out := t
	out.Merchant = strings.TrimSpace(t.Merchant)
	out.Location = strings.TrimSpace(t.Location)
	out.Date = strings.TrimSpace(t.Date)
	out.Total = clampAmount(float64(t.Total))
	if len(t.LineItems) > 0 {
		out.LineItems = make([]LineItem, len(t.LineItems))
		for i, li := range t.LineItems {
			out.LineItems[i] = li.Normalize()
		}
	}
	return out
}

// Normalize returns a canonical copy of the line item. A blank name becomes
// DefaultItemName, a blank category becomes DefaultCategory, a missing or
// invalid quantity defaults to 1, and prices clamp to finite non-negative
// values. A missing total price is derived as quantity × unit price; a
// present one is left untouched even when it disagrees with that product.
func (li LineItem) Normalize() LineItem {
	out := li
	out.Name = strings.TrimSpace(li.Name)
	if out.Name == "" {
		out.Name = DefaultItemName
	}
	out.Category = strings.TrimSpace(li.Category)
	if out.Category == "" {
		out.Category = DefaultCategory
	}
	out.Quantity = clampAmount(float64(li.Quantity))
	if out.Quantity == 0 {
		out.Quantity = 1
	}
	out.UnitPrice = clampAmount(float64(li.UnitPrice))
	out.TotalPrice = clampAmount(float64(li.TotalPrice))
	if out.TotalPrice == 0 {
		out.TotalPrice = Amount(float64(out.Quantity) * float64(out.UnitPrice))
	}
	return out
}
