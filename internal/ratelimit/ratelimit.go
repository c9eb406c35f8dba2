// Package ratelimit throttles the public endpoints per client.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/response"
)

// Limiter decides whether one more hit for key is allowed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Memory is a sliding-window limiter kept in process memory
type Memory struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewMemory allows limit hits per key in any window-long interval
func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-m.window)

	hits := m.hits[key]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= m.limit {
		m.hits[key] = kept
		return false, nil
	}

	m.hits[key] = append(kept, now)
	return true, nil
}

// Sweep drops keys with no hits inside the window
func (m *Memory) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.window)
	for key, hits := range m.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(m.hits, key)
		}
	}
}

// Middleware rejects requests over the limit with 429. Keys are the
// client IP prefixed by name. Limiter errors let the request through.
func Middleware(name string, limiter Limiter) gin.HandlerFunc {
	log := logger.WithContext("component", "ratelimit", "limiter", name)

	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", name, c.ClientIP())

		ok, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("Rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}
		if !ok {
			log.Debug("Rate limit exceeded", "client_ip", c.ClientIP(), "path", c.Request.URL.Path)
			c.Header("Retry-After", "60")
			response.TooManyRequestsError(c, http.StatusText(http.StatusTooManyRequests))
			return
		}

		c.Next()
	}
}
