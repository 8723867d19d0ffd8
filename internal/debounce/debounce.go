// Package debounce schedules per-key delayed work, canceling any pending
// run for the same key when a newer one is scheduled. It backs the
// analyzer's didChange handling, where a burst of edits to one document
// should trigger only the last-scheduled reanalysis.
package debounce

import (
	"sync"
	"time"
)

// Group holds one pending timer per key.
type Group struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
}

// NewGroup creates a Group that waits delay before running scheduled work.
func NewGroup(delay time.Duration) *Group {
	return &Group{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule cancels any pending run for key and schedules fn to run after the
// group's delay. fn runs on its own goroutine.
func (g *Group) Schedule(key string, fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t, ok := g.timers[key]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(g.delay, func() {
		g.mu.Lock()
		if g.timers[key] != timer {
			// Replaced by a newer Schedule or removed by Cancel after this
			// timer had already fired.
			g.mu.Unlock()
			return
		}
		delete(g.timers, key)
		g.mu.Unlock()
		fn()
	})
	g.timers[key] = timer
}

// Cancel stops any pending run for key without running it.
func (g *Group) Cancel(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t, ok := g.timers[key]; ok {
		t.Stop()
		delete(g.timers, key)
	}
}
