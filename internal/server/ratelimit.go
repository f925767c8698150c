package server

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// rateLimit shares one token bucket between all callers of the wrapped
// routes. rps <= 0 returns a pass-through middleware.
func rateLimit(rps float64, burst int, logger *slog.Logger) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = int(math.Max(1, math.Ceil(2*rps)))
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	retryAfter := strconv.Itoa(int(math.Max(1, math.Ceil(1/rps))))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				w.Header().Set("Retry-After", retryAfter)
				writeProblem(w, r, newProblem(http.StatusTooManyRequests, "Too Many Requests", "chart rate limit exceeded, retry after "+retryAfter+"s"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
