package api

import (
	"fmt"
	"net/http"

	"github.com/okian/dailyword/internal/domain/clock"
)

// WordHandler serves the daily word.
type WordHandler struct {
	deps Dependencies
}

// NewWordHandler creates a new word handler.
func NewWordHandler(deps Dependencies) *WordHandler {
	return &WordHandler{deps: deps}
}

// HandleDailyWord handles GET /daily-word?testdate=YYYY-MM-DD.
// It always answers 200; a malformed testdate is ignored.
func (h *WordHandler) HandleDailyWord(w http.ResponseWriter, r *http.Request) {
	word := h.deps.GetDailyWord(r.Context(), r.URL.Query().Get("testdate"))
	writeJSON(w, http.StatusOK, word)
}

// HandleFallback handles GET /daily-word/fallback?date=YYYY-MM-DD.
func (h *WordHandler) HandleFallback(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.deps.Clock().Today()
	}
	if !clock.ValidDate(date) {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w: %q", ErrBadRequest, ErrInvalidDate, date))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.GetFallbackWord(date))
}
