package http

import (
	"net/http"

	"go.uber.org/zap"

	"finmarket/service"
)

type ReviewHandler struct {
	service *service.ReviewService
	logger  *zap.Logger
}

func NewReviewHandler(service *service.ReviewService, logger *zap.Logger) *ReviewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewHandler{service: service, logger: logger}
}

// List serves GET /reviews?product=&rating=&sort=.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, err := service.ParseReviewQuery(q.Get("product"), q.Get("rating"), q.Get("sort"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	reviews, err := h.service.List(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.Summaries(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}
