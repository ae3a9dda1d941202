// Package storage defines the persistence ports and the SQLite document
// store behind them. The in-memory twin lives in storage/memory.
package storage

import (
	"context"
	"errors"

	"scontrino/internal/budget"
	"scontrino/internal/core"
	"scontrino/internal/insights"
)

// ErrNotFound is returned when a transaction id does not exist for the user.
// An unknown user, by contrast, simply has an empty transaction list.
var ErrNotFound = errors.New("not found")

// Ports for the persistence adapters.
type (
	// TransactionStore is the per-user transaction document store.
	TransactionStore interface {
		// ListTransactions returns the user's transactions sorted by date
		// descending. An unknown user yields an empty list, not an error.
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)

		// CreateTransaction persists the transaction, assigns its id, and
		// upserts the user's lightweight profile record as a side effect.
		CreateTransaction(ctx context.Context, userID string, t core.Transaction) (id string, err error)

		// GetTransaction returns one transaction, reporting absence via ok.
		GetTransaction(ctx context.Context, userID, id string) (t core.Transaction, ok bool, err error)

		// DeleteTransaction removes one transaction; ErrNotFound when absent.
		DeleteTransaction(ctx context.Context, userID, id string) error
	}

	// SettingsStore holds the per-user budget configuration.
	SettingsStore interface {
		GetSettings(ctx context.Context, userID string) (s budget.Settings, ok bool, err error)
		UpdateSettings(ctx context.Context, userID string, s budget.Settings) error
	}

	// Store is the unified backend: transactions, settings and the
	// month-keyed insight cache.
	Store interface {
		TransactionStore
		SettingsStore
		insights.CacheStore
	}
)
