// Package ratelimit caps how often one client may submit reservations.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	resp "little_lemon/internal/lib/api/response"
	"little_lemon/internal/lib/logger/sl"
	"little_lemon/internal/metrics"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisLimiter is a fixed-window limiter shared by every instance behind the same Redis.
type RedisLimiter struct {
	counter  Counter
	requests int
	window   time.Duration
}

func NewRedis(counter Counter, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		counter:  counter,
		requests: requests,
		window:   window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	const op = "ratelimit.RedisLimiter.Allow"

	count, err := l.counter.Hit(ctx, key, l.window)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return count <= int64(l.requests), nil
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewMemory(requests int, window time.Duration) *MemoryLimiter {
	if requests <= 0 {
		requests = 1
	}

	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	return lim.Allow(), nil
}

// Middleware rejects requests over the limit with 429. Limiter errors let
// the request through.
func Middleware(log *slog.Logger, limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Error("rate limit check failed", slog.String("client", key), sl.Err(err))

				next.ServeHTTP(w, r)

				return
			}

			if !allowed {
				log.Warn("rate limit exceeded", slog.String("client", key), slog.String("path", r.URL.Path))

				metrics.IncRateLimited()

				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, resp.Error("Too many requests, please try again later"))

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
