package http

import (
	"io"
	"log/slog"
	"net/http"
)

// maxReceiptImageBytes bounds uploaded receipt photos.
const maxReceiptImageBytes = 10 << 20

// handleScanReceipt extracts a draft transaction from an uploaded receipt
// photo. The draft is returned for review, not saved.
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	if s.scanner == nil {
		writeError(w, r, http.StatusServiceUnavailable, "receipt scanning is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptImageBytes)
	if err := r.ParseMultipartForm(maxReceiptImageBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "expected multipart form with an image field")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "missing image field")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "failed to read image")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	extraction, err := s.scanner.AnalyzeReceipt(r.Context(), image, mimeType)
	if err != nil {
		slog.ErrorContext(r.Context(), "Receipt analysis failed",
			"user_id", user,
			"image_bytes", len(image),
			"mime_type", mimeType,
			"error", err)
		writeError(w, r, http.StatusBadGateway, "failed to analyze receipt")
		return
	}

	writeJSON(w, r, http.StatusOK, extraction.Transaction())
}
