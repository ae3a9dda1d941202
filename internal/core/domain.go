package core

import (
	"errors"
	"strings"
	"time"
)

const (
	SourceManual Source = "manual"
	SourceScan   Source = "scan"
)

const (
	// DateLayout is the canonical calendar-date form for Transaction.Date.
	// Month and year bucketing works on string prefixes of this layout.
	DateLayout = "2006-01-02"

	// DefaultItemName replaces a blank line-item name.
	DefaultItemName = "Unknown Item"

	// DefaultCategory replaces a blank line-item category.
	DefaultCategory = "Other"
)

type (
	// Source marks how a transaction entered the system. It is a provenance
	// tag only and never affects aggregation.
	Source string

	// Transaction is one recorded purchase event. Transactions are immutable
	// once created; the only mutation path is deletion.
	Transaction struct {
		ID        string     `json:"id,omitempty"`
		Merchant  string     `json:"merchant"`
		Date      string     `json:"date"`
		Location  string     `json:"location,omitempty"`
		Total     Amount     `json:"total"`
		LineItems []LineItem `json:"lineItems,omitempty"`
		Source    Source     `json:"source,omitempty"`
	}

	// LineItem is one purchased product or service within a transaction.
	// UnitPrice carries the per-unit price; TotalPrice, when set, is
	// authoritative for aggregation even if it disagrees with
	// Quantity × UnitPrice.
	LineItem struct {
		Name       string `json:"name"`
		Category   string `json:"category,omitempty"`
		Quantity   Amount `json:"quantity,omitempty"`
		UnitPrice  Amount `json:"price"`
		TotalPrice Amount `json:"totalPrice,omitempty"`
	}
)

// Categories is the known category set. It is open: free text is tolerated
// on line items and only a blank category falls back to DefaultCategory.
var Categories = []string{
	"Groceries",
	"Dining",
	"Transport",
	"Clothing",
	"Household",
	"Health",
	"Entertainment",
	"Subscription",
	"Electronics",
	"Other",
}

var (
	ErrEmptyMerchant = errors.New("empty merchant")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidTotal  = errors.New("invalid total")
)

// IsValid reports whether the source tag is one of the known values.
func (s Source) IsValid() bool {
	switch s {
	case SourceManual, SourceScan:
		return true
	default:
		return false
	}
}

// GroupKey returns the normalized name used to group observations of the
// same item across merchants and time.
func (li LineItem) GroupKey() string {
	return strings.ToLower(strings.TrimSpace(li.Name))
}

// EffectiveTotal returns the amount a line item contributes to aggregation:
// TotalPrice when set, otherwise Quantity × UnitPrice.
func (li LineItem) EffectiveTotal() float64 {
	if li.TotalPrice > 0 {
		return float64(li.TotalPrice)
	}
	qty := float64(li.Quantity)
	if qty <= 0 {
		qty = 1
	}
	return qty * float64(li.UnitPrice)
}

// Validate checks the fields a transaction must carry before it is created.
// Normalization is forgiving; creation is not.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Merchant) == "" {
		return ErrEmptyMerchant
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return ErrInvalidDate
	}
	if t.Total < 0 {
		return ErrInvalidTotal
	}
	return nil
}
