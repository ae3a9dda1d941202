package http

import (
	"log/slog"
	"net/http"
	"time"

	"scontrino/internal/core"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	now := time.Now()
	key := overviewCacheKey(user, core.MonthKey(now))

	if cached, found := s.overviewCache.Get(key); found {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "user_id", user, "month_key", core.MonthKey(now))
		writeJSON(w, r, http.StatusOK, cached)
		return
	}

	overview, err := s.dashboard.Overview(r.Context(), user, now)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard overview failed", "user_id", user, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	s.overviewCache.Set(key, overview)
	writeJSON(w, r, http.StatusOK, overview)
}
