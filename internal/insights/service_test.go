package insights

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"scontrino/internal/core"
)

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, userID, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.entries[userID+"/"+key]
	return payload, ok, nil
}

func (c *fakeCache) Set(_ context.Context, userID, key string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID+"/"+key] = payload
	return nil
}

func (c *fakeCache) Delete(_ context.Context, userID, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID+"/"+key)
	return nil
}

type fakeClient struct {
	calls       atomic.Int32
	suggestions []Suggestion
	err         error
	block       chan struct{} // when set, MonthlySuggestions waits on it
	started     chan struct{} // closed on first invocation
}

func (f *fakeClient) MonthlySuggestions(_ context.Context, _ []core.Transaction) ([]Suggestion, error) {
	if f.calls.Add(1) == 1 && f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.suggestions, f.err
}

func prevMonthTxns(n int) []core.Transaction {
	var out []core.Transaction
	for i := 0; i < n; i++ {
		out = append(out, core.Transaction{Merchant: "M", Date: "2024-05-10", Total: 5})
	}
	return out
}

func TestRefreshCachesSuggestions(t *testing.T) {
	cache := newFakeCache()
	client := &fakeClient{suggestions: []Suggestion{{Title: "Buy in bulk", EstimatedSavingPerMonth: 12}}}
	svc := NewService(cache, client)

	if err := svc.Refresh(context.Background(), "u1", prevMonthTxns(5), june15); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if got := client.calls.Load(); got != 1 {
		t.Fatalf("client called %d times, want 1", got)
	}

	// Second refresh in the same month reads the cache and never calls out.
	if err := svc.Refresh(context.Background(), "u1", prevMonthTxns(5), june15); err != nil {
		t.Fatalf("second Refresh() error: %v", err)
	}
	if got := client.calls.Load(); got != 1 {
		t.Errorf("client called %d times after cached refresh, want 1", got)
	}
}

func TestSlidesReadCacheWithoutNetworkCall(t *testing.T) {
	cache := newFakeCache()
	payload, _ := json.Marshal([]Suggestion{{Title: "Skip the kiosk", Action: "Buy at the supermarket"}})
	if err := cache.Set(context.Background(), "u1", CacheKey(june15), payload); err != nil {
		t.Fatal(err)
	}
	client := &fakeClient{}
	svc := NewService(cache, client)

	slides := svc.Slides(context.Background(), "u1", prevMonthTxns(5), june15)

	if got := client.calls.Load(); got != 0 {
		t.Errorf("client called %d times with a warm cache, want 0", got)
	}
	if len(slides) == 0 || slides[0].Kind != SlideAI {
		t.Fatalf("slides = %+v, want a leading AI slide", slides)
	}
	if slides[0].AI.Title != "Skip the kiosk" {
		t.Errorf("AI slide title = %q", slides[0].AI.Title)
	}
}

func TestSlidesTooFewPreviousMonthTransactions(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(newFakeCache(), client)

	slides := svc.Slides(context.Background(), "u1", prevMonthTxns(4), june15)

	if got := client.calls.Load(); got != 0 {
		t.Errorf("client called %d times under the minimum, want 0", got)
	}
	for _, s := range slides {
		if s.IsAI() {
			t.Errorf("unexpected AI slide: %+v", s)
		}
	}
}

func TestSlidesShowLoadingWhileFetchInFlight(t *testing.T) {
	client := &fakeClient{
		suggestions: []Suggestion{{Title: "Tip"}},
		block:       make(chan struct{}),
		started:     make(chan struct{}),
	}
	cache := newFakeCache()
	svc := NewService(cache, client)
	txns := prevMonthTxns(5)

	slides := svc.Slides(context.Background(), "u1", txns, june15)
	if len(slides) == 0 || slides[0].Kind != SlideLoading {
		t.Fatalf("slides = %+v, want a loading placeholder", slides)
	}

	<-client.started
	// Still in flight: a second caller sees the placeholder, no new call.
	slides = svc.Slides(context.Background(), "u1", txns, june15)
	if len(slides) == 0 || slides[0].Kind != SlideLoading {
		t.Fatalf("second call slides = %+v, want a loading placeholder", slides)
	}
	if got := client.calls.Load(); got != 1 {
		t.Fatalf("client called %d times while in flight, want 1", got)
	}

	close(client.block)
	waitForCacheEntry(t, cache, "u1", CacheKey(june15))

	slides = svc.Slides(context.Background(), "u1", txns, june15)
	if len(slides) == 0 || slides[0].Kind != SlideAI {
		t.Fatalf("slides after fetch = %+v, want an AI slide", slides)
	}
	if got := client.calls.Load(); got != 1 {
		t.Errorf("client called %d times total, want 1", got)
	}
}

func TestFetchFailureLeavesMonthUncached(t *testing.T) {
	client := &fakeClient{err: errors.New("model unavailable")}
	cache := newFakeCache()
	svc := NewService(cache, client)

	if err := svc.Refresh(context.Background(), "u1", prevMonthTxns(5), june15); err == nil {
		t.Fatal("Refresh() should surface the client error to its caller")
	}
	if _, ok, _ := cache.Get(context.Background(), "u1", CacheKey(june15)); ok {
		t.Error("failed fetch must not populate the cache")
	}

	// The month stays uncached, so a later refresh tries again.
	client.err = nil
	client.suggestions = []Suggestion{{Title: "Tip"}}
	if err := svc.Refresh(context.Background(), "u1", prevMonthTxns(5), june15); err != nil {
		t.Fatalf("retry Refresh() error: %v", err)
	}
	if got := client.calls.Load(); got != 2 {
		t.Errorf("client called %d times, want 2", got)
	}
}

func TestCorruptCacheEntryDiscarded(t *testing.T) {
	cache := newFakeCache()
	if err := cache.Set(context.Background(), "u1", CacheKey(june15), []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	client := &fakeClient{suggestions: []Suggestion{{Title: "Tip"}}}
	svc := NewService(cache, client)

	// The corrupt entry behaves as a miss: the refresh calls out and
	// overwrites it.
	if err := svc.Refresh(context.Background(), "u1", prevMonthTxns(5), june15); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if got := client.calls.Load(); got != 1 {
		t.Errorf("client called %d times, want 1", got)
	}

	payload, ok, _ := cache.Get(context.Background(), "u1", CacheKey(june15))
	if !ok {
		t.Fatal("cache entry missing after refresh")
	}
	var suggestions []Suggestion
	if err := json.Unmarshal(payload, &suggestions); err != nil {
		t.Fatalf("cache entry still corrupt: %v", err)
	}
}

func TestNilClientDisablesAIPortion(t *testing.T) {
	svc := NewService(newFakeCache(), nil)

	if err := svc.Refresh(context.Background(), "u1", prevMonthTxns(5), june15); err != nil {
		t.Fatalf("Refresh() with nil client error: %v", err)
	}
	slides := svc.Slides(context.Background(), "u1", prevMonthTxns(5), june15)
	for _, s := range slides {
		if s.IsAI() {
			t.Errorf("unexpected AI slide with nil client: %+v", s)
		}
	}
}

func waitForCacheEntry(t *testing.T, cache *fakeCache, userID, key string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok, _ := cache.Get(context.Background(), userID, key); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("cache entry never appeared")
}
