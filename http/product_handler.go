package http

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"finmarket/domain"
	"finmarket/service"
)

type ProductHandler struct {
	catalog    *service.CatalogService
	calculator *service.CalculatorService
	reviews    *service.ReviewService
	logger     *zap.Logger
}

func NewProductHandler(
	catalog *service.CatalogService,
	calculator *service.CalculatorService,
	reviews *service.ReviewService,
	logger *zap.Logger,
) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{catalog: catalog, calculator: calculator, reviews: reviews, logger: logger}
}

// productID reads the {id} path segment. Malformed ids are reported as
// not found.
func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		WriteJSONError(w, http.StatusNotFound, "not_found", "unknown product "+r.PathValue("id"))
		return 0, false
	}
	return id, true
}

// List serves GET /products?category=&q=&max_rate=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category, err := service.ParseCategory(q.Get("category"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	filter := service.ProductFilter{
		Category: category,
		Query:    strings.TrimSpace(q.Get("q")),
	}
	if raw := q.Get("max_rate"); raw != "" {
		maxRate, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(maxRate) || maxRate < 0 {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "max_rate must be a non-negative number")
			return
		}
		filter.MaxRate = &maxRate
	}

	products, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Suggest serves GET /products/suggest?q=&limit=.
func (h *ProductHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	products, err := h.catalog.Suggest(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	detail, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Reviews serves GET /products/{id}/reviews.
func (h *ProductHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if _, err := h.catalog.Get(r.Context(), id); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	reviews, err := h.reviews.ForProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// Calculate serves POST /products/{id}/calculate. The body is optional.
func (h *ProductHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var req domain.CalculationRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	calc, err := h.calculator.ForProduct(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

// Compare serves GET /compare?ids=1,2,3.
func (h *ProductHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var ids []int
	for _, part := range strings.Split(r.URL.Query().Get("ids"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "ids must be a comma separated list of integers")
			return
		}
		ids = append(ids, id)
	}

	products, err := h.catalog.Compare(r.Context(), ids)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}
