package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"scontrino/internal/amqp"
	"scontrino/internal/core"
	"scontrino/internal/insights"
	"scontrino/internal/storage/memory"
)

type stubSuggestionClient struct {
	calls int
	fail  bool
}

func (c *stubSuggestionClient) MonthlySuggestions(_ context.Context, txns []core.Transaction) ([]insights.Suggestion, error) {
	c.calls++
	if c.fail {
		return nil, fmt.Errorf("model unavailable")
	}
	return []insights.Suggestion{
		{Title: "Cook more", Insight: "Restaurants dominate last month.", Action: "Plan three home dinners.", EstimatedSavingPerMonth: 40},
	}, nil
}

// seedPreviousMonth inserts n transactions dated in the month before the
// real clock, since the worker refreshes against time.Now.
func seedPreviousMonth(t *testing.T, store *memory.Store, userID string, n int) {
	t.Helper()
	prevKey := core.PrevMonthKey(time.Now())
	for i := 0; i < n; i++ {
		_, err := store.CreateTransaction(context.Background(), userID, core.Transaction{
			Merchant: "Lidl",
			Date:     fmt.Sprintf("%s-%02d", prevKey, i+1),
			Total:    core.Amount(10 + i),
		})
		if err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}
}

func TestHandleTransactionEventWarmsCache(t *testing.T) {
	store := memory.New()
	client := &stubSuggestionClient{}
	w := NewInsightWorker(store, insights.NewService(store, client))

	seedPreviousMonth(t, store, "u1", insights.MinPreviousMonthTransactions)

	event := amqp.NewTransactionEvent("u1", "txn-1", amqp.ActionCreated)
	if err := w.HandleTransactionEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleTransactionEvent() error = %v", err)
	}

	if client.calls != 1 {
		t.Errorf("client calls = %d, want 1", client.calls)
	}

	now := time.Now()
	payload, ok, err := store.Get(context.Background(), "u1", insights.CacheKey(now))
	if err != nil || !ok {
		t.Fatalf("cache entry missing after refresh: ok=%v err=%v", ok, err)
	}
	var cached []insights.Suggestion
	if err := json.Unmarshal(payload, &cached); err != nil {
		t.Fatalf("cached payload not decodable: %v", err)
	}
	if len(cached) != 1 || cached[0].Title != "Cook more" {
		t.Errorf("cached suggestions = %+v", cached)
	}
}

func TestHandleTransactionEventSkipsThinMonths(t *testing.T) {
	store := memory.New()
	client := &stubSuggestionClient{}
	w := NewInsightWorker(store, insights.NewService(store, client))

	seedPreviousMonth(t, store, "u1", insights.MinPreviousMonthTransactions-1)

	event := amqp.NewTransactionEvent("u1", "txn-1", amqp.ActionCreated)
	if err := w.HandleTransactionEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleTransactionEvent() error = %v", err)
	}

	if client.calls != 0 {
		t.Errorf("client calls = %d, want 0", client.calls)
	}
}

func TestHandleTransactionEventPropagatesFetchFailure(t *testing.T) {
	store := memory.New()
	client := &stubSuggestionClient{fail: true}
	w := NewInsightWorker(store, insights.NewService(store, client))

	seedPreviousMonth(t, store, "u1", insights.MinPreviousMonthTransactions)

	event := amqp.NewTransactionEvent("u1", "txn-1", amqp.ActionCreated)
	if err := w.HandleTransactionEvent(context.Background(), event); err == nil {
		t.Fatal("expected error from failed fetch, got nil")
	}
}
