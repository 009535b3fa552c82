package http

import (
	"net/http"

	"go.uber.org/zap"

	"finmarket/domain"
	"finmarket/service"
)

type ApplicationHandler struct {
	service *service.ApplicationService
	logger  *zap.Logger
}

func NewApplicationHandler(service *service.ApplicationService, logger *zap.Logger) *ApplicationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationHandler{service: service, logger: logger}
}

func (h *ApplicationHandler) Start(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Start(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Location", "/applications/"+draft.ID)
	writeJSON(w, http.StatusCreated, draft)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.DraftPatch
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	draft, err := h.service.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *ApplicationHandler) Advance(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Advance(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *ApplicationHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Retreat(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Submit(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ApplicationHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Discard(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
