package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/campus-guide-ai/internal/reviews"
	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

const defaultReviewLimit = 20

// ReviewSummarizer reads aggregated reviews for one place.
type ReviewSummarizer interface {
	Summarize(ctx context.Context, placeID string, limit int) (reviews.Summary, error)
}

// ReviewsHandler exposes review summaries to operators.
type ReviewsHandler struct {
	reviews ReviewSummarizer
	logger  *logging.Logger
}

func NewReviewsHandler(summarizer ReviewSummarizer, logger *logging.Logger) *ReviewsHandler {
	if summarizer == nil {
		panic("handlers: review summarizer cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ReviewsHandler{reviews: summarizer, logger: logger}
}

// Summary handles GET /api/admin/reviews/{placeID}?limit=N.
func (h *ReviewsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeID")
	limit := defaultReviewLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	summary, err := h.reviews.Summarize(r.Context(), placeID, limit)
	if err != nil {
		h.logger.Error("failed to summarize reviews", "place_id", placeID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "failed to load reviews"})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
