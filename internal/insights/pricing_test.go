package insights

import (
	"testing"
	"time"

	"scontrino/internal/core"
)

var june15 = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func itemTxn(merchant, date string, total float64, items ...core.LineItem) core.Transaction {
	return core.Transaction{Merchant: merchant, Date: date, Total: core.Amount(total), LineItems: items}
}

func TestComparePricesFlagsCrossMerchantGap(t *testing.T) {
	// The documented scenario: Milk at €1.50 (A) vs €1.00 (B) inside the
	// three-month window. The €0.50 gap exceeds 10% of €1.00.
	txns := []core.Transaction{
		itemTxn("A", "2024-06-01", 10, core.LineItem{Name: "Milk", UnitPrice: 1.5, TotalPrice: 1.5}),
		itemTxn("B", "2024-03-01", 5, core.LineItem{Name: "Milk", UnitPrice: 1.0, TotalPrice: 1.0}),
	}

	got := ComparePrices(txns, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	if len(got) != 1 {
		t.Fatalf("ComparePrices() returned %d comparisons, want 1", len(got))
	}
	c := got[0]
	if c.Name != "milk" {
		t.Errorf("Name = %q, want %q", c.Name, "milk")
	}
	if c.Expensive.Merchant != "A" || c.Expensive.UnitPrice != 1.5 {
		t.Errorf("Expensive = %+v, want merchant A at 1.50", c.Expensive)
	}
	if c.Cheapest.Merchant != "B" || c.Cheapest.UnitPrice != 1.0 {
		t.Errorf("Cheapest = %+v, want merchant B at 1.00", c.Cheapest)
	}
	if c.Gap != 0.5 {
		t.Errorf("Gap = %v, want 0.5", c.Gap)
	}
}

func TestComparePricesSameMerchantNoTip(t *testing.T) {
	txns := []core.Transaction{
		itemTxn("A", "2024-06-01", 10, core.LineItem{Name: "Milk", UnitPrice: 2.0, TotalPrice: 2.0}),
		itemTxn("A", "2024-05-01", 5, core.LineItem{Name: "Milk", UnitPrice: 1.0, TotalPrice: 1.0}),
	}

	if got := ComparePrices(txns, june15); len(got) != 0 {
		t.Errorf("ComparePrices() on same-merchant swing = %+v, want none", got)
	}
}

func TestComparePricesTenPercentBoundaryNoTip(t *testing.T) {
	// Exactly 10% above the cheapest must not trigger: the condition is
	// strictly greater than cheapest × 1.1.
	txns := []core.Transaction{
		itemTxn("A", "2024-06-01", 10, core.LineItem{Name: "Milk", UnitPrice: 1.1, TotalPrice: 1.1}),
		itemTxn("B", "2024-05-01", 5, core.LineItem{Name: "Milk", UnitPrice: 1.0, TotalPrice: 1.0}),
	}

	if got := ComparePrices(txns, june15); len(got) != 0 {
		t.Errorf("ComparePrices() at exact 10%% boundary = %+v, want none", got)
	}
}

func TestComparePricesRespectsRecencyWindow(t *testing.T) {
	// The cheap observation lies outside the three-month window, leaving
	// only one recent member in the group.
	txns := []core.Transaction{
		itemTxn("A", "2024-06-01", 10, core.LineItem{Name: "Milk", UnitPrice: 2.0, TotalPrice: 2.0}),
		itemTxn("B", "2023-11-01", 5, core.LineItem{Name: "Milk", UnitPrice: 1.0, TotalPrice: 1.0}),
	}

	if got := ComparePrices(txns, june15); len(got) != 0 {
		t.Errorf("ComparePrices() with stale observation = %+v, want none", got)
	}
}

func TestComparePricesGroupsCaseInsensitively(t *testing.T) {
	txns := []core.Transaction{
		itemTxn("A", "2024-06-01", 10, core.LineItem{Name: " MILK ", UnitPrice: 2.0, TotalPrice: 2.0}),
		itemTxn("B", "2024-05-01", 5, core.LineItem{Name: "milk", UnitPrice: 1.0, TotalPrice: 1.0}),
	}

	got := ComparePrices(txns, june15)
	if len(got) != 1 {
		t.Fatalf("ComparePrices() = %d comparisons, want 1 (name variants grouped)", len(got))
	}
}

func TestComparePricesSkipsUnpricedItems(t *testing.T) {
	txns := []core.Transaction{
		itemTxn("A", "2024-06-01", 10, core.LineItem{Name: "Milk"}),
		itemTxn("B", "2024-05-01", 5, core.LineItem{Name: "Milk"}),
	}

	if got := ComparePrices(txns, june15); len(got) != 0 {
		t.Errorf("ComparePrices() over unpriced items = %+v, want none", got)
	}
}
