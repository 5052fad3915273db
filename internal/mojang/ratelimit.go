package mojang

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// DefaultRateLimit is the number of session server lookups allowed per
// DefaultRateWindow.
const (
	DefaultRateLimit  = 200
	DefaultRateWindow = time.Minute
)

// limiter is a fixed-window token bucket shared by all session lookups of a
// client.
type limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	tokens  int
	resetAt time.Time
}

func newLimiter(limit int, window time.Duration) *limiter {
	return &limiter{
		limit:   limit,
		window:  window,
		tokens:  limit,
		resetAt: time.Now().Add(window),
	}
}

// wait takes a token, blocking until the window rolls over when none are left.
func (l *limiter) wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()
		if !now.Before(l.resetAt) {
			l.tokens = l.limit
			l.resetAt = now.Add(l.window)
		}
		if l.tokens > 0 {
			l.tokens--
			l.mu.Unlock()
			return nil
		}
		delay := l.resetAt.Sub(now)
		l.mu.Unlock()

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// throttle drains the bucket after a 429. A Retry-After header in seconds
// moves the next refill; otherwise the current window is kept.
func (l *limiter) throttle(h http.Header) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tokens = 0
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			l.resetAt = time.Now().Add(time.Duration(secs) * time.Second)
		}
	}
}

func (l *limiter) remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tokens
}
