package http

import (
	"net/http"

	"go.uber.org/zap"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Products     *ProductHandler
	Loans        *LoanHandler
	Terms        *TermRecommendationHandler
	Reviews      *ReviewHandler
	Applications *ApplicationHandler
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewRouter registers the API routes. Calculator and application
// endpoints go through the rate limiter.
func NewRouter(h Handlers, limiter *RateLimiter, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	limited := func(fn http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter, fn)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)

	mux.HandleFunc("GET /products", h.Products.List)
	mux.HandleFunc("GET /products/suggest", h.Products.Suggest)
	mux.HandleFunc("GET /products/{id}", h.Products.Get)
	mux.HandleFunc("GET /products/{id}/reviews", h.Products.Reviews)
	mux.Handle("POST /products/{id}/calculate", limited(h.Products.Calculate))
	mux.HandleFunc("GET /compare", h.Products.Compare)

	mux.Handle("POST /loan/calculate", limited(h.Loans.CalculateLoan))
	mux.Handle("POST /loan/grace-cost", limited(h.Loans.GraceCost))
	mux.Handle("POST /loan/recommend-term", limited(h.Terms.RecommendTerm))

	mux.HandleFunc("GET /reviews", h.Reviews.List)
	mux.HandleFunc("GET /reviews/summary", h.Reviews.Summary)

	mux.Handle("POST /applications", limited(h.Applications.Start))
	mux.HandleFunc("GET /applications/{id}", h.Applications.Get)
	mux.Handle("PATCH /applications/{id}", limited(h.Applications.Update))
	mux.Handle("DELETE /applications/{id}", limited(h.Applications.Discard))
	mux.Handle("POST /applications/{id}/advance", limited(h.Applications.Advance))
	mux.Handle("POST /applications/{id}/retreat", limited(h.Applications.Retreat))
	mux.Handle("POST /applications/{id}/submit", limited(h.Applications.Submit))

	return WithRequestID(WithLogging(logger, mux))
}
