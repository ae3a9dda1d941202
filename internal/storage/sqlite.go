package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"scontrino/internal/budget"
	"scontrino/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ListTransactions implements TransactionStore.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, merchant, date, location, total, source, line_items
		FROM transactions
		WHERE user_id = ?
		ORDER BY date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// CreateTransaction implements TransactionStore. The insert and the user
// profile upsert commit together.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, userID string, t core.Transaction) (string, error) {
	items, err := json.Marshal(t.LineItems)
	if err != nil {
		return "", fmt.Errorf("create transaction: marshal line items: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("create transaction: begin: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, merchant, date, location, total, source, line_items, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, t.Merchant, t.Date, t.Location, float64(t.Total), string(t.Source), string(items), now)
	if err != nil {
		return "", fmt.Errorf("create transaction: insert: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, updated_at) VALUES (?, '', ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at`,
		userID, now)
	if err != nil {
		return "", fmt.Errorf("create transaction: upsert user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("create transaction: commit: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"user_id", userID,
		"merchant", t.Merchant,
		"date", t.Date,
		"total", float64(t.Total))

	return id, nil
}

// GetTransaction implements TransactionStore.
func (s *SQLiteStore) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, merchant, date, location, total, source, line_items
		FROM transactions
		WHERE user_id = ? AND id = ?`, userID, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, false, nil
	}
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("get transaction: %w", err)
	}
	return t, true, nil
}

// DeleteTransaction implements TransactionStore.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSettings implements SettingsStore.
func (s *SQLiteStore) GetSettings(ctx context.Context, userID string) (budget.Settings, bool, error) {
	var (
		income, value float64
		kind          string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT income, savings_type, savings_value
		FROM settings WHERE user_id = ?`, userID).Scan(&income, &kind, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return budget.Settings{}, false, nil
	}
	if err != nil {
		return budget.Settings{}, false, fmt.Errorf("get settings: %w", err)
	}
	return budget.Settings{
		Income:       core.Amount(income),
		SavingsType:  budget.SavingsType(kind),
		SavingsValue: core.Amount(value),
	}, true, nil
}

// UpdateSettings implements SettingsStore.
func (s *SQLiteStore) UpdateSettings(ctx context.Context, userID string, cfg budget.Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (user_id, income, savings_type, savings_value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			income = excluded.income,
			savings_type = excluded.savings_type,
			savings_value = excluded.savings_value`,
		userID, float64(cfg.Income), string(cfg.SavingsType), float64(cfg.SavingsValue))
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

// Get implements insights.CacheStore.
func (s *SQLiteStore) Get(ctx context.Context, userID, key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM insight_cache WHERE user_id = ? AND key = ?`,
		userID, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cache entry: %w", err)
	}
	return payload, true, nil
}

// Set implements insights.CacheStore. Entries never expire; a new month
// writes a new key and old months accumulate until externally cleared.
func (s *SQLiteStore) Set(ctx context.Context, userID, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO insight_cache (user_id, key, payload, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET
			payload = excluded.payload,
			created_at = excluded.created_at`,
		userID, key, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set cache entry: %w", err)
	}
	return nil
}

// Delete implements insights.CacheStore.
func (s *SQLiteStore) Delete(ctx context.Context, userID, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM insight_cache WHERE user_id = ? AND key = ?`, userID, key)
	if err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t      core.Transaction
		total  float64
		source string
		items  string
	)
	if err := row.Scan(&t.ID, &t.Merchant, &t.Date, &t.Location, &total, &source, &items); err != nil {
		return core.Transaction{}, err
	}
	t.Total = core.Amount(total)
	t.Source = core.Source(source)
	if err := json.Unmarshal([]byte(items), &t.LineItems); err != nil {
		return core.Transaction{}, fmt.Errorf("unmarshal line items: %w", err)
	}
	return t, nil
}
