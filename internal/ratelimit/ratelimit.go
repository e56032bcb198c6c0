// Package ratelimit throttles request admission per client and route using a
// fixed window counter. The default policy is deliberately strict: the data
// behind every route is cached, so a client gains nothing by polling faster
// than the cache refreshes.
package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// Limiter admits at most limit requests per (client, route) pair in each
// fixed window. Windows are independent per pair; a burst on one route never
// consumes another route's budget.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window

	limit    int
	interval time.Duration

	stop chan struct{}
	once sync.Once
}

// New creates a limiter admitting limit requests per interval.
func New(limit int, interval time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		interval: interval,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Allow reports whether the request is admitted, counting it if so.
func (l *Limiter) Allow(client, route string) bool {
	key := client + "|" + route
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.interval {
		l.windows[key] = &window{count: 1, start: now}
		return true
	}

	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// ActiveWindows reports the number of windows currently tracked.
func (l *Limiter) ActiveWindows() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Stop terminates the cleanup loop.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			l.mu.Lock()
			for key, w := range l.windows {
				if now.Sub(w.start) >= l.interval {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}
