package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	platformredis "guardian/internal/platform/redis"
)

const rateLimitKeyPrefix = "guardian:rl:"

// RateLimit applies a fixed-window per-client-IP limit backed by Redis. A
// nil client or non-positive limit disables it. Redis failures fail open:
// shedding commands because the limiter store blipped would hurt more than
// briefly not limiting.
func RateLimit(client *platformredis.Client, perMinute int, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil || perMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			window := time.Now().UTC().Unix() / 60
			key := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, ip, window)

			ctx := r.Context()
			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				logger.Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Expire(ctx, key, time.Minute)
			}
			if count > int64(perMinute) {
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
