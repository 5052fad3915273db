package mojang

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Wait(t *testing.T) {
	tests := []struct {
		name         string
		limit        int
		window       time.Duration
		requests     int
		expectedWait bool
	}{
		{
			name:     "within limit",
			limit:    10,
			window:   time.Second,
			requests: 5,
		},
		{
			name:         "exceed limit",
			limit:        2,
			window:       100 * time.Millisecond,
			requests:     3,
			expectedWait: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLimiter(tt.limit, tt.window)

			start := time.Now()
			for i := 0; i < tt.requests; i++ {
				require.NoError(t, l.wait(context.Background()))
			}
			elapsed := time.Since(start)

			if tt.expectedWait {
				assert.GreaterOrEqual(t, elapsed, tt.window/2)
			} else {
				assert.Less(t, elapsed, tt.window/2)
			}
		})
	}
}

func TestLimiter_ContextCancel(t *testing.T) {
	l := newLimiter(1, time.Minute)
	require.NoError(t, l.wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, l.wait(ctx), context.Canceled)
}

func TestLimiter_Throttle(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter string
		wantReset  time.Duration
	}{
		{name: "retry after seconds", retryAfter: "30", wantReset: 30 * time.Second},
		{name: "invalid header keeps window", retryAfter: "soon", wantReset: time.Minute},
		{name: "no header keeps window", wantReset: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLimiter(5, time.Minute)

			h := http.Header{}
			if tt.retryAfter != "" {
				h.Set("Retry-After", tt.retryAfter)
			}
			l.throttle(h)

			assert.Equal(t, 0, l.remaining())
			l.mu.Lock()
			until := time.Until(l.resetAt)
			l.mu.Unlock()
			assert.InDelta(t, tt.wantReset.Seconds(), until.Seconds(), 1)
		})
	}
}
