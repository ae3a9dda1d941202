package memory

import (
	"context"
	"errors"
	"testing"

	"scontrino/internal/budget"
	"scontrino/internal/core"
	"scontrino/internal/storage"
)

func TestTransactionLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateTransaction(ctx, "u1", core.Transaction{Merchant: "Rewe", Date: "2024-06-01", Total: 10})
	if err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}
	if id == "" {
		t.Fatal("CreateTransaction() returned empty id")
	}

	got, ok, err := s.GetTransaction(ctx, "u1", id)
	if err != nil || !ok {
		t.Fatalf("GetTransaction() = %v, %v, %v", got, ok, err)
	}
	if got.Merchant != "Rewe" {
		t.Errorf("Merchant = %q", got.Merchant)
	}

	if err := s.DeleteTransaction(ctx, "u1", id); err != nil {
		t.Fatalf("DeleteTransaction() error: %v", err)
	}
	if _, ok, _ := s.GetTransaction(ctx, "u1", id); ok {
		t.Error("transaction still present after delete")
	}
	if err := s.DeleteTransaction(ctx, "u1", id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestListTransactionsSortedDateDescending(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, date := range []string{"2024-03-01", "2024-06-01", "2024-05-15"} {
		if _, err := s.CreateTransaction(ctx, "u1", core.Transaction{Merchant: "M", Date: date, Total: 1}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListTransactions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	want := []string{"2024-06-01", "2024-05-15", "2024-03-01"}
	for i, date := range want {
		if got[i].Date != date {
			t.Errorf("ListTransactions()[%d].Date = %q, want %q", i, got[i].Date, date)
		}
	}
}

func TestListTransactionsUnknownUserEmpty(t *testing.T) {
	s := New()

	got, err := s.ListTransactions(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListTransactions() = %+v, want empty", got)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, ok, err := s.GetSettings(ctx, "u1"); ok || err != nil {
		t.Fatalf("GetSettings() on fresh store = ok=%v err=%v", ok, err)
	}

	cfg := budget.Settings{Income: 3000, SavingsType: budget.SavingsPercentage, SavingsValue: 20}
	if err := s.UpdateSettings(ctx, "u1", cfg); err != nil {
		t.Fatalf("UpdateSettings() error: %v", err)
	}

	got, ok, err := s.GetSettings(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("GetSettings() = ok=%v err=%v", ok, err)
	}
	if got != cfg {
		t.Errorf("GetSettings() = %+v, want %+v", got, cfg)
	}
}

func TestInsightCache(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, ok, _ := s.Get(ctx, "u1", "insights_2024-06"); ok {
		t.Fatal("unexpected cache hit on fresh store")
	}

	if err := s.Set(ctx, "u1", "insights_2024-06", []byte(`[{"title":"t"}]`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	payload, ok, err := s.Get(ctx, "u1", "insights_2024-06")
	if err != nil || !ok {
		t.Fatalf("Get() = ok=%v err=%v", ok, err)
	}
	if string(payload) != `[{"title":"t"}]` {
		t.Errorf("payload = %s", payload)
	}

	// Entries are scoped per user.
	if _, ok, _ := s.Get(ctx, "u2", "insights_2024-06"); ok {
		t.Error("cache entry leaked across users")
	}

	if err := s.Delete(ctx, "u1", "insights_2024-06"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "u1", "insights_2024-06"); ok {
		t.Error("cache entry still present after delete")
	}
}

// Compile-time check that the memory store satisfies the unified port.
var _ storage.Store = (*Store)(nil)
