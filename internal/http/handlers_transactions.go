package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"scontrino/internal/core"
	"scontrino/internal/storage"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	txns, err := s.store.ListTransactions(r.Context(), user)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "user_id", user, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if txns == nil {
		txns = []core.Transaction{}
	}

	writeJSON(w, r, http.StatusOK, txns)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	var txn core.Transaction
	if !readJSON(w, r, &txn) {
		return
	}

	created, err := s.transactions.CreateTransaction(r.Context(), user, txn)
	if err != nil {
		if isValidationError(err) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction failed", "user_id", user, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.invalidateOverview(user, created.Date)
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	txn, found, err := s.store.GetTransaction(r.Context(), user, r.PathValue("id"))
	if err != nil {
		slog.ErrorContext(r.Context(), "Get transaction failed", "user_id", user, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to load transaction")
		return
	}
	if !found {
		writeError(w, r, http.StatusNotFound, "transaction not found")
		return
	}

	writeJSON(w, r, http.StatusOK, txn)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := s.transactions.DeleteTransaction(r.Context(), user, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete transaction failed", "user_id", user, "transaction_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	// The deleted record's date is unknown here. Drop the current-month
	// entry, which aggregates the full history; entries for other months
	// age out through the cache TTL.
	s.invalidateOverview(user, "")
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyMerchant) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidTotal)
}

// overviewCacheKey scopes dashboard cache entries per user and month.
func overviewCacheKey(user, monthKey string) string {
	return user + "/" + monthKey
}

// invalidateOverview drops the cached dashboard for the month of the given
// date, plus the current month, which aggregates the full history.
func (s *Server) invalidateOverview(user, date string) {
	if len(date) >= 7 {
		s.overviewCache.Delete(overviewCacheKey(user, date[:7]))
	}
	// Every cached month embeds full-history figures, but only the current
	// month is actively served; older entries expire by TTL.
	s.overviewCache.Delete(overviewCacheKey(user, core.MonthKey(time.Now())))
}
