package http

import (
	"log/slog"
	"net/http"
	"time"

	"scontrino/internal/budget"
	"scontrino/internal/core"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	settings, found, err := s.store.GetSettings(r.Context(), user)
	if err != nil {
		slog.ErrorContext(r.Context(), "Get settings failed", "user_id", user, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to load settings")
		return
	}
	if !found {
		writeError(w, r, http.StatusNotFound, "settings not configured")
		return
	}

	writeJSON(w, r, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	var settings budget.Settings
	if !readJSON(w, r, &settings) {
		return
	}

	// Amount decoding clamps negative and malformed figures to zero, so
	// income and savings value are already non-negative here.
	switch settings.SavingsType {
	case budget.SavingsPercentage, budget.SavingsFixed:
	case "":
		settings.SavingsType = budget.SavingsPercentage
	default:
		writeError(w, r, http.StatusUnprocessableEntity, "savings type must be percentage or fixed")
		return
	}

	if err := s.store.UpdateSettings(r.Context(), user, settings); err != nil {
		slog.ErrorContext(r.Context(), "Update settings failed", "user_id", user, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to save settings")
		return
	}

	// Budget figures on the dashboard depend on settings.
	s.overviewCache.Delete(overviewCacheKey(user, core.MonthKey(time.Now())))

	writeJSON(w, r, http.StatusOK, settings)
}
