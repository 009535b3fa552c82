package http

import (
	"math"
	"net"
	"net/http"
	"strconv"
)

// RateLimitMiddleware rejects clients that exhausted their bucket with 429.
// Clients are keyed by remote IP.
func RateLimitMiddleware(
	limiter *RateLimiter,
	next http.Handler,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if wait, ok := limiter.Allow(ip); !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			WriteJSONError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, retry later")
			return
		}

		next.ServeHTTP(w, r)
	})
}
