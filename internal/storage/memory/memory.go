// Package memory is the in-memory twin of the SQLite store: the default
// backend for local runs and the deterministic substitute in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"scontrino/internal/budget"
	"scontrino/internal/core"
	"scontrino/internal/storage"
)

type userData struct {
	txns     []core.Transaction
	settings *budget.Settings
	cache    map[string][]byte
}

// Store implements storage.Store with plain maps behind one mutex.
type Store struct {
	mu    sync.Mutex
	users map[string]*userData
}

func New() *Store {
	return &Store{users: make(map[string]*userData)}
}

func (s *Store) user(userID string) *userData {
	u, ok := s.users[userID]
	if !ok {
		u = &userData{cache: make(map[string][]byte)}
		s.users[userID] = u
	}
	return u
}

// ListTransactions returns the user's transactions sorted by date
// descending. An unknown user gets an empty list.
func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	out := append([]core.Transaction(nil), u.txns...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out, nil
}

func (s *Store) CreateTransaction(_ context.Context, userID string, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = uuid.NewString()
	s.user(userID).txns = append(s.user(userID).txns, t)
	return t.ID, nil
}

func (s *Store) GetTransaction(_ context.Context, userID, id string) (core.Transaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return core.Transaction{}, false, nil
	}
	for _, t := range u.txns {
		if t.ID == id {
			return t, true, nil
		}
	}
	return core.Transaction{}, false, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	for i, t := range u.txns {
		if t.ID == id {
			u.txns = append(u.txns[:i], u.txns[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) GetSettings(_ context.Context, userID string) (budget.Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || u.settings == nil {
		return budget.Settings{}, false, nil
	}
	return *u.settings, true, nil
}

func (s *Store) UpdateSettings(_ context.Context, userID string, cfg budget.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user(userID).settings = &cfg
	return nil
}

// Get implements insights.CacheStore.
func (s *Store) Get(_ context.Context, userID, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, false, nil
	}
	payload, ok := u.cache[key]
	return payload, ok, nil
}

// Set implements insights.CacheStore.
func (s *Store) Set(_ context.Context, userID, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user(userID).cache[key] = append([]byte(nil), payload...)
	return nil
}

// Delete implements insights.CacheStore.
func (s *Store) Delete(_ context.Context, userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[userID]; ok {
		delete(u.cache, key)
	}
	return nil
}
