// Package ratelimiter implements a fixed-window request limiter keyed by
// caller, used to throttle credential-guessing on the login endpoint.
package ratelimiter

import (
	"sync"
	"time"
)

// Limiter limits how many operations each key may perform per interval.
// Expired windows are swept lazily so the key set does not grow with every
// client address seen over the process lifetime.
type Limiter struct {
	limit    int
	interval time.Duration

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

type window struct {
	count   int
	started time.Time
}

// NewLimiter creates a Limiter allowing limit operations per interval per key.
func NewLimiter(limit int, interval time.Duration) *Limiter {
	return &Limiter{
		limit:     limit,
		interval:  interval,
		windows:   make(map[string]*window),
		lastSweep: time.Now(),
	}
}

// Allow reports whether the key may perform another operation now.
// The window resets once interval has elapsed since its first operation.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || now.Sub(w.started) >= l.interval {
		l.windows[key] = &window{count: 1, started: now}
		return true
	}

	w.count++
	return w.count <= l.limit
}

// sweep drops every expired window, at most once per interval. Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.interval {
		return
	}
	for key, w := range l.windows {
		if now.Sub(w.started) >= l.interval {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}
