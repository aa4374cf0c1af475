package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yungbote/focusgate-backend/internal/http/response"
	"github.com/yungbote/focusgate-backend/internal/platform/apierr"
)

// LimiterStore keeps one token bucket per client key and forgets keys that
// have been idle for idleTTL.
type LimiterStore struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewLimiterStore(rps float64, burst int, idleTTL time.Duration) *LimiterStore {
	if burst < 1 {
		burst = 1
	}
	if idleTTL <= 0 {
		idleTTL = 15 * time.Minute
	}
	return &LimiterStore{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
	}
}

func (s *LimiterStore) get(key string) *rate.Limiter {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}
	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup drops keys idle longer than idleTTL.
func (s *LimiterStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (s *LimiterStore) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// RateLimit rejects requests over the per-client-IP budget with 429. A nil
// store disables limiting.
func RateLimit(store *LimiterStore) gin.HandlerFunc {
	if store == nil || store.rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		lim := store.get(c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.FormatFloat(float64(store.rps), 'f', -1, 64))
		c.Header("X-RateLimit-Burst", strconv.Itoa(store.burst))

		res := lim.Reserve()
		if !res.OK() {
			response.AbortError(c, http.StatusTooManyRequests, apierr.CodeRateLimited, fmt.Errorf("rate limit exceeded"))
			return
		}
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			response.AbortError(c, http.StatusTooManyRequests, apierr.CodeRateLimited, fmt.Errorf("rate limit exceeded"))
			return
		}
		c.Next()
	}
}
