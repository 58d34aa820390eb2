// Package ratelimit applies a token bucket per string key. Used to slow
// down password unlock attempts per account.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PerKey hands out one token bucket per key.
type PerKey struct {
	limit rate.Limit
	burst int

	mu    sync.Mutex
	byKey map[string]*rate.Limiter
}

// New creates a key-based limiter; returns nil if the arguments are
// invalid. A nil *PerKey allows everything, so wiring stays optional.
func New(rps float64, burst int) *PerKey {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return &PerKey{
		limit: rate.Limit(rps),
		burst: burst,
		byKey: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether one token can be consumed for key at now.
func (l *PerKey) Allow(key string, now time.Time) bool {
	if l == nil || key == "" {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.byKey[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.byKey[key] = lim
	}
	return lim.AllowN(now, 1)
}
