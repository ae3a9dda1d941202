package http

import (
	"log/slog"
	"net/http"
	"time"

	"scontrino/internal/insights"
)

type insightsResponse struct {
	Slides []insights.Slide `json:"slides"`

	// RotationIntervalMS tells clients how fast to advance the carousel.
	RotationIntervalMS int64 `json:"rotation_interval_ms"`
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	txns, err := s.store.ListTransactions(r.Context(), user)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "user_id", user, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to load insights")
		return
	}

	slides := s.insights.Slides(r.Context(), user, txns, time.Now())
	if slides == nil {
		slides = []insights.Slide{}
	}

	writeJSON(w, r, http.StatusOK, insightsResponse{
		Slides:             slides,
		RotationIntervalMS: s.rotationInterval.Milliseconds(),
	})
}
