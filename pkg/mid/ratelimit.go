package mid

import (
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// RateLimit rejects requests beyond rps (with the given burst) with 429.
// A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) Middleware {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.Allow() {
				w.Header().Set("Retry-After", strconv.Itoa(1))
				WriteError(w, slog.Default(), http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
