package cart

import (
	"sync"
	"time"
)

// Guard suppresses repeated "add to cart" events: the same client adding
// the same line again within the window is a duplicate.
type Guard struct {
	window time.Duration

	mu        sync.Mutex
	seen      map[string]time.Time
	lastSweep time.Time
}

// NewGuard returns a guard; a window of zero or less disables it.
func NewGuard(window time.Duration) *Guard {
	return &Guard{window: window, seen: make(map[string]time.Time)}
}

// Allow records the event and reports whether it should be applied.
func (g *Guard) Allow(clientID, key string, now time.Time) bool {
	if g == nil || g.window <= 0 {
		return true
	}
	id := clientID + "|" + key

	g.mu.Lock()
	defer g.mu.Unlock()

	g.sweep(now)
	if last, ok := g.seen[id]; ok && now.Sub(last) < g.window {
		return false
	}
	g.seen[id] = now
	return true
}

// sweep drops stale entries at most once per window.
func (g *Guard) sweep(now time.Time) {
	if now.Sub(g.lastSweep) < g.window {
		return
	}
	for k, t := range g.seen {
		if now.Sub(t) >= g.window {
			delete(g.seen, k)
		}
	}
	g.lastSweep = now
}

// Len is the number of tracked events.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
