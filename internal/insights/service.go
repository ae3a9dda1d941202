package insights

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"scontrino/internal/core"
)

// MinPreviousMonthTransactions gates the external call: the assistant is
// only worth asking once last month has enough data to analyze.
const MinPreviousMonthTransactions = 5

// cacheKeyPrefix builds the month-scoped cache key, e.g. "insights_2024-06".
const cacheKeyPrefix = "insights_"

type (
	// SuggestionClient is the external suggestion service: previous-month
	// transactions in, a handful of suggestions out.
	SuggestionClient interface {
		MonthlySuggestions(ctx context.Context, txns []core.Transaction) ([]Suggestion, error)
	}

	// CacheStore is the month-keyed suggestion cache. Entries never expire
	// on their own; a new month simply uses a new key.
	CacheStore interface {
		Get(ctx context.Context, userID, key string) ([]byte, bool, error)
		Set(ctx context.Context, userID, key string, payload []byte) error
		Delete(ctx context.Context, userID, key string) error
	}

	// Service merges cached or freshly fetched assistant suggestions with
	// the rule-based tips into one slide sequence. The cache is read before
	// any network call; within one process a single-flight guard prevents
	// duplicate fetches for the same key, but nothing serializes separate
	// processes, so both may miss and both may call out.
	Service struct {
		cache  CacheStore
		client SuggestionClient

		mu       sync.Mutex
		inflight map[string]bool
	}
)

// NewService wires the cache and the suggestion client. A nil client
// disables the AI portion entirely; rule-based tips still work.
func NewService(cache CacheStore, client SuggestionClient) *Service {
	return &Service{
		cache:    cache,
		client:   client,
		inflight: make(map[string]bool),
	}
}

// CacheKey returns the cache key for the calendar month of now.
func CacheKey(now time.Time) string {
	return cacheKeyPrefix + core.MonthKey(now)
}

// Slides returns the current slide sequence for the user. A cache hit needs
// no network; a miss with enough previous-month data kicks off a background
// fetch and shows the analyzing placeholder until it lands. Fetch failures
// are logged and leave the month uncached; they never surface to the user.
func (s *Service) Slides(ctx context.Context, userID string, txns []core.Transaction, now time.Time) []Slide {
	rules := RuleBased(txns, now)

	suggestions, ok := s.cached(ctx, userID, CacheKey(now))
	if ok {
		return BuildSlides(suggestions, false, rules)
	}

	loading := s.maybeFetch(ctx, userID, txns, now)
	return BuildSlides(nil, loading, rules)
}

// Refresh fetches and caches this month's suggestions synchronously. It is
// a no-op when the month is already cached or last month is too thin; both
// return nil. Used by the warming worker and anywhere a blocking refresh is
// acceptable.
func (s *Service) Refresh(ctx context.Context, userID string, txns []core.Transaction, now time.Time) error {
	if s.client == nil {
		return nil
	}
	key := CacheKey(now)
	if _, ok := s.cached(ctx, userID, key); ok {
		return nil
	}

	prev := previousMonthSlice(txns, now)
	if len(prev) < MinPreviousMonthTransactions {
		return nil
	}
	return s.fetch(ctx, userID, key, prev)
}

// cached reads and decodes the month entry. A corrupt entry is discarded
// and treated as a miss.
func (s *Service) cached(ctx context.Context, userID, key string) ([]Suggestion, bool) {
	payload, ok, err := s.cache.Get(ctx, userID, key)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read insight cache", "user_id", userID, "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var suggestions []Suggestion
	if err := json.Unmarshal(payload, &suggestions); err != nil {
		slog.WarnContext(ctx, "Discarding corrupt insight cache entry", "user_id", userID, "key", key, "error", err)
		if err := s.cache.Delete(ctx, userID, key); err != nil {
			slog.ErrorContext(ctx, "Failed to delete corrupt insight cache entry", "user_id", userID, "key", key, "error", err)
		}
		return nil, false
	}
	return suggestions, true
}

// maybeFetch starts a background fetch if one is warranted and reports
// whether a fetch is currently in flight for this user and month.
func (s *Service) maybeFetch(ctx context.Context, userID string, txns []core.Transaction, now time.Time) bool {
	if s.client == nil {
		return false
	}

	key := CacheKey(now)
	flightKey := userID + "/" + key

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[flightKey] {
		return true
	}

	prev := previousMonthSlice(txns, now)
	if len(prev) < MinPreviousMonthTransactions {
		return false
	}

	s.inflight[flightKey] = true
	// The fetch outlives the request that triggered it.
	bg := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.inflight, flightKey)
			s.mu.Unlock()
		}()
		if err := s.fetch(bg, userID, key, prev); err != nil {
			slog.ErrorContext(bg, "Monthly suggestion fetch failed", "user_id", userID, "key", key, "error", err)
		}
	}()
	return true
}

func (s *Service) fetch(ctx context.Context, userID, key string, prev []core.Transaction) error {
	suggestions, err := s.client.MonthlySuggestions(ctx, prev)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		return nil
	}

	payload, err := json.Marshal(suggestions)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, userID, key, payload); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Cached monthly suggestions",
		"user_id", userID,
		"key", key,
		"count", len(suggestions))
	return nil
}

func previousMonthSlice(txns []core.Transaction, now time.Time) []core.Transaction {
	prevKey := core.PrevMonthKey(now)
	var out []core.Transaction
	for _, t := range txns {
		if core.InMonth(t.Date, prevKey) {
			out = append(out, t)
		}
	}
	return out
}
