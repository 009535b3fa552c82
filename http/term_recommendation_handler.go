package http

import (
	"net/http"

	"go.uber.org/zap"

	"finmarket/domain"
	"finmarket/service"
)

type TermRecommendationHandler struct {
	service *service.TermRecommendationService
	logger  *zap.Logger
}

func NewTermRecommendationHandler(service *service.TermRecommendationService, logger *zap.Logger) *TermRecommendationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermRecommendationHandler{service: service, logger: logger}
}

func (h *TermRecommendationHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	var input domain.TermRecommendationInput
	if !decodeJSON(w, r, &input, false) {
		return
	}

	result, err := h.service.RecommendTerm(r.Context(), input)
	if err != nil {
		h.logger.Debug("term recommendation rejected", zap.Error(err))
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
