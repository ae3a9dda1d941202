package services

import (
	"context"
	"fmt"
	"log/slog"

	"scontrino/internal/amqp"
	"scontrino/internal/core"
	"scontrino/internal/storage"
)

// TransactionService orchestrates transaction writes across storage and AMQP.
type TransactionService struct {
	store      storage.TransactionStore
	amqpClient *amqp.Client
}

func NewTransactionService(store storage.TransactionStore, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// CreateTransaction normalizes, validates and saves a transaction, then
// publishes a change event. Publishing is best effort: the transaction is
// already persisted, so a broker failure only degrades insight freshness.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, txn core.Transaction) (core.Transaction, error) {
	txn = txn.Normalize()
	if err := txn.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	id, err := s.store.CreateTransaction(ctx, userID, txn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	txn.ID = id

	if err := s.publishEvent(ctx, userID, id, amqp.ActionCreated); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"user_id", userID, "transaction_id", id, "error", err)
	}

	return txn, nil
}

// DeleteTransaction removes a transaction and publishes a change event.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	if err := s.store.DeleteTransaction(ctx, userID, transactionID); err != nil {
		return err
	}

	if err := s.publishEvent(ctx, userID, transactionID, amqp.ActionDeleted); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"user_id", userID, "transaction_id", transactionID, "error", err)
	}

	return nil
}

func (s *TransactionService) publishEvent(ctx context.Context, userID, transactionID, action string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping transaction event")
		return nil
	}

	return s.amqpClient.PublishTransactionEvent(ctx, userID, transactionID, action)
}
