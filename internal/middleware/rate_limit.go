package middleware

import (
	"net/http"
	"sync"
	"time"

	"dukapos/internal/apierror"

	"github.com/gin-gonic/gin"
)

type windowEntry struct {
	mu        sync.Mutex
	count     int
	windowEnd time.Time
}

// RateLimiter is a sliding-window per-IP request limiter. Each instance owns
// its own counters, so separate limits (login vs general API) do not share
// state.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	entries map[string]*windowEntry
}

// NewRateLimiter allows limit requests per window per client IP. A background
// goroutine purges idle IPs so the map does not grow without bound.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*windowEntry),
	}
	go rl.purgeLoop()
	return rl
}

// Handler rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := rl.entry(c.ClientIP())

		entry.mu.Lock()
		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(rl.window)
		}
		entry.count++
		over := entry.count > rl.limit
		retryAt := entry.windowEnd
		entry.mu.Unlock()

		if over {
			c.Header("Retry-After", retryAt.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New("Too many requests. Try again shortly."))
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) entry(ip string) *windowEntry {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	e, ok := rl.entries[ip]
	if !ok {
		e = &windowEntry{}
		rl.entries[ip] = e
	}
	return e
}

func (rl *RateLimiter) purgeLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for ip, e := range rl.entries {
			e.mu.Lock()
			if now.After(e.windowEnd) {
				delete(rl.entries, ip)
			}
			e.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}
