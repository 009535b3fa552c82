package http

import (
	"net/http"

	"go.uber.org/zap"

	"finmarket/domain"
	"finmarket/service"
)

type LoanHandler struct {
	service *service.LoanService
	logger  *zap.Logger
}

func NewLoanHandler(service *service.LoanService, logger *zap.Logger) *LoanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanHandler{service: service, logger: logger}
}

func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanInput
	if !decodeJSON(w, r, &input, false) {
		return
	}

	result, err := h.service.CalculateLoan(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LoanHandler) GraceCost(w http.ResponseWriter, r *http.Request) {
	var input domain.GraceInput
	if !decodeJSON(w, r, &input, false) {
		return
	}

	result, err := h.service.CalculateGrace(input)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
