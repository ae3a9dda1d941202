package core

import (
	"encoding/json"
	"testing"
)

func TestAmountUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{
			name: "plain number",
			in:   `12.5`,
			want: 12.5,
		},
		{
			name: "numeric string",
			in:   `"3.20"`,
			want: 3.2,
		},
		{
			name: "string with euro sign",
			in:   `"€4.99"`,
			want: 4.99,
		},
		{
			name: "decimal comma string",
			in:   `"1,50"`,
			want: 1.5,
		},
		{
			name: "negative number coerces to zero",
			in:   `-7`,
			want: 0,
		},
		{
			name: "garbage string coerces to zero",
			in:   `"abc"`,
			want: 0,
		},
		{
			name: "null coerces to zero",
			in:   `null`,
			want: 0,
		},
		{
			name: "object coerces to zero",
			in:   `{"x":1}`,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			if err := json.Unmarshal([]byte(tt.in), &a); err != nil {
				t.Fatalf("Unmarshal(%s) returned error: %v", tt.in, err)
			}
			if float64(a) != tt.want {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, float64(a), tt.want)
			}
		})
	}
}

func TestLineItemNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   LineItem
		want LineItem
	}{
		{
			name: "blank name and category get defaults",
			in:   LineItem{Name: "  ", UnitPrice: 2},
			want: LineItem{Name: "Unknown Item", Category: "Other", Quantity: 1, UnitPrice: 2, TotalPrice: 2},
		},
		{
			name: "missing total price derived from quantity times unit price",
			in:   LineItem{Name: "Milk", Category: "Groceries", Quantity: 3, UnitPrice: 1.5},
			want: LineItem{Name: "Milk", Category: "Groceries", Quantity: 3, UnitPrice: 1.5, TotalPrice: 4.5},
		},
		{
			name: "present total price kept even when it disagrees",
			in:   LineItem{Name: "Milk", Category: "Groceries", Quantity: 2, UnitPrice: 1.5, TotalPrice: 9.99},
			want: LineItem{Name: "Milk", Category: "Groceries", Quantity: 2, UnitPrice: 1.5, TotalPrice: 9.99},
		},
		{
			name: "free-text category tolerated",
			in:   LineItem{Name: "Thing", Category: "Mystery", UnitPrice: 1},
			want: LineItem{Name: "Thing", Category: "Mystery", Quantity: 1, UnitPrice: 1, TotalPrice: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTransactionNormalize(t *testing.T) {
	in := Transaction{
		Merchant: "  Rewe  ",
		Date:     " 2024-06-01 ",
		Total:    -3,
		LineItems: []LineItem{
			{Name: "Bread", UnitPrice: 2.5},
		},
	}

	got := in.Normalize()

	if got.Merchant != "Rewe" {
		t.Errorf("Merchant = %q, want %q", got.Merchant, "Rewe")
	}
	if got.Date != "2024-06-01" {
		t.Errorf("Date = %q, want %q", got.Date, "2024-06-01")
	}
	if got.Total != 0 {
		t.Errorf("negative total should coerce to 0, got %v", got.Total)
	}
	if got.LineItems[0].Category != "Other" {
		t.Errorf("line item category = %q, want Other", got.LineItems[0].Category)
	}
	// Input slice must not be mutated.
	if in.LineItems[0].Category != "" {
		t.Error("Normalize mutated the input line items")
	}
}

func TestLineItemEffectiveTotal(t *testing.T) {
	tests := []struct {
		name string
		in   LineItem
		want float64
	}{
		{
			name: "total price wins",
			in:   LineItem{Quantity: 2, UnitPrice: 3, TotalPrice: 5},
			want: 5,
		},
		{
			name: "derived when total absent",
			in:   LineItem{Quantity: 2, UnitPrice: 3},
			want: 6,
		},
		{
			name: "zero quantity treated as one",
			in:   LineItem{UnitPrice: 3},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.EffectiveTotal(); got != tt.want {
				t.Errorf("EffectiveTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Transaction
		wantErr error
	}{
		{
			name:    "valid",
			in:      Transaction{Merchant: "Rewe", Date: "2024-06-01", Total: 10},
			wantErr: nil,
		},
		{
			name:    "empty merchant",
			in:      Transaction{Merchant: " ", Date: "2024-06-01"},
			wantErr: ErrEmptyMerchant,
		},
		{
			name:    "malformed date",
			in:      Transaction{Merchant: "Rewe", Date: "01.06.2024"},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "negative total",
			in:      Transaction{Merchant: "Rewe", Date: "2024-06-01", Total: -1},
			wantErr: ErrInvalidTotal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
