package http

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"finmarket/domain"
)

const maxBodyBytes = 1 << 20

type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, code, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: code, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps a service error to its HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrStepIncomplete):
		return http.StatusUnprocessableEntity, "step_incomplete"
	case errors.Is(err, domain.ErrNoCalculator):
		return http.StatusUnprocessableEntity, "no_calculator"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return http.StatusConflict, "already_submitted"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
		WriteJSONError(w, status, code, "")
		return
	}
	WriteJSONError(w, status, code, err.Error())
}

// decodeJSON reads a JSON request body into dst. With optional set, an
// empty body leaves dst untouched. It writes the error response itself and
// reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	var body io.Reader = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if optional {
		// chunked requests carry no length, so look for a first byte
		buffered := bufio.NewReader(body)
		if _, err := buffered.Peek(1); errors.Is(err, io.EOF) {
			return true
		}
		body = buffered
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}
