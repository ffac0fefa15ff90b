package server

import (
	"sync"

	"golang.org/x/time/rate"
)

// turnLimiter rate-limits inbound turns per conversation identity.
type turnLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// newTurnLimiter allows r turns per second with the given burst per
// conversation. A non-positive rate disables limiting.
func newTurnLimiter(r float64, burst int) *turnLimiter {
	return &turnLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(r),
		burst:    burst,
	}
}

// Allow reports whether a turn for conversationID may proceed now.
func (l *turnLimiter) Allow(conversationID string) bool {
	if l.rate <= 0 {
		return true
	}

	l.mu.Lock()
	limiter, ok := l.limiters[conversationID]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[conversationID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
