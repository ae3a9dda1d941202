// Package worker reacts to transaction-change events by refreshing the
// monthly insight cache, so the dashboard rarely has to wait for the model.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"scontrino/internal/amqp"
	"scontrino/internal/insights"
	"scontrino/internal/storage"
)

// InsightWorker warms the insight cache for users whose data changed.
type InsightWorker struct {
	store    storage.TransactionStore
	insights *insights.Service
}

func NewInsightWorker(store storage.TransactionStore, svc *insights.Service) *InsightWorker {
	return &InsightWorker{
		store:    store,
		insights: svc,
	}
}

// HandleTransactionEvent refreshes the user's insight cache after a change.
// Returning an error requeues the event for another attempt.
func (w *InsightWorker) HandleTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	start := time.Now()

	slog.InfoContext(ctx, "Processing transaction event",
		"user_id", event.UserID,
		"transaction_id", event.TransactionID,
		"action", event.Action)

	txns, err := w.store.ListTransactions(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("list transactions for %s: %w", event.UserID, err)
	}

	if err := w.insights.Refresh(ctx, event.UserID, txns, time.Now()); err != nil {
		return fmt.Errorf("refresh insights for %s: %w", event.UserID, err)
	}

	slog.InfoContext(ctx, "Refreshed insight cache",
		"user_id", event.UserID,
		"transaction_count", len(txns),
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

// Run consumes transaction events until the context ends.
func (w *InsightWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeTransactionEvents(ctx, func(event *amqp.TransactionEvent) error {
		return w.HandleTransactionEvent(ctx, event)
	})
}
