package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"scontrino/internal/budget"
	"scontrino/internal/core"
	"scontrino/internal/storage"
)

// Overview is everything the dashboard screen needs in one payload.
type Overview struct {
	Stats budget.Stats `json:"stats"`

	// Chart holds the top categories of the current month only; the
	// headline figures in Stats span the full history.
	Chart []budget.CategoryTotal `json:"chart"`

	TransactionCount int `json:"transactionCount"`
}

// DashboardService assembles the overview from storage.
type DashboardService struct {
	store storage.Store
}

func NewDashboardService(store storage.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Overview fetches transactions and settings concurrently and derives the
// dashboard figures against the given reference instant.
func (s *DashboardService) Overview(ctx context.Context, userID string, now time.Time) (Overview, error) {
	var (
		txns     []core.Transaction
		settings *budget.Settings
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txns, err = s.store.ListTransactions(ctx, userID)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		got, ok, err := s.store.GetSettings(ctx, userID)
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}
		if ok {
			settings = &got
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	monthKey := core.MonthKey(now)
	var current []core.Transaction
	for _, t := range txns {
		if core.InMonth(t.Date, monthKey) {
			current = append(current, t)
		}
	}

	return Overview{
		Stats:            budget.Compute(txns, settings, now),
		Chart:            budget.TopCategories(budget.CategoryTotals(current), budget.TopCategoryCount),
		TransactionCount: len(txns),
	}, nil
}
