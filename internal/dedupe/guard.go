// Package dedupe prevents double-submission of identical create requests
// within a short window, e.g. a double-clicked "create project" button.
//
// The guard is process-local state. In a multi-instance deployment it gives
// best-effort, not exact, duplicate prevention; each instance only sees its
// own window.
package dedupe

import (
	"strings"
	"sync"
	"time"
)

// DefaultWindow is how long a (user, name) pair blocks a repeat attempt.
const DefaultWindow = 3 * time.Second

// DefaultSweepInterval is how often stale entries are garbage collected.
const DefaultSweepInterval = 5 * time.Second

type key struct {
	userID int64
	name   string
}

type entry struct {
	at time.Time
}

// Guard is a time-windowed duplicate-creation guard keyed by
// (user, normalized name).
type Guard struct {
	mu      sync.Mutex
	entries map[key]entry
	window  time.Duration
	sweep   time.Duration

	stop chan struct{}
	done chan struct{}

	// now is swappable for tests
	now func() time.Time
}

// New creates a guard. Zero durations fall back to the defaults.
func New(window, sweepInterval time.Duration) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	return &Guard{
		entries: make(map[key]entry),
		window:  window,
		sweep:   sweepInterval,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		now:     time.Now,
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Check records an attempt and reports whether it is a duplicate. A
// duplicate is a second attempt for the same (user, normalized name) inside
// the window; it does not refresh the entry, so the window is measured from
// the first attempt. Non-duplicates overwrite any stale entry.
func (g *Guard) Check(userID int64, name string) bool {
	k := key{userID: userID, name: normalize(name)}
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.entries[k]; ok && now.Sub(e.at) < g.window {
		return true
	}
	g.entries[k] = entry{at: now}
	return false
}

// Start launches the periodic GC sweep. The sweep only bounds memory; a
// stale entry that outlives the window just causes one false positive at
// worst, so correctness doesn't depend on it.
func (g *Guard) Start() {
	go func() {
		defer close(g.done)
		ticker := time.NewTicker(g.sweep)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.collect()
			case <-g.stop:
				return
			}
		}
	}()
}

// Stop terminates the GC goroutine and waits for it to exit.
func (g *Guard) Stop() {
	close(g.stop)
	<-g.done
}

func (g *Guard) collect() {
	now := g.now()
	g.mu.Lock()
	defer g.mu.Unlock()
	for k, e := range g.entries {
		if now.Sub(e.at) >= g.window {
			delete(g.entries, k)
		}
	}
}

// Len reports the current number of tracked entries.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
