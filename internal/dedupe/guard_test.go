package dedupe

import (
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestGuard() (*Guard, *fakeClock) {
	g := New(3*time.Second, 5*time.Second)
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	g.now = clock.now
	return g, clock
}

func TestGuard_DuplicateWithinWindow(t *testing.T) {
	g, clock := newTestGuard()

	if g.Check(1, " Foo ") {
		t.Fatal("first attempt flagged as duplicate")
	}

	// same normalized name, different raw spelling
	if !g.Check(1, "foo") {
		t.Error("second attempt within window not flagged")
	}

	clock.advance(3100 * time.Millisecond)
	if g.Check(1, "foo") {
		t.Error("attempt after window still flagged as duplicate")
	}
}

func TestGuard_WindowMeasuredFromFirstAttempt(t *testing.T) {
	g, clock := newTestGuard()

	g.Check(1, "foo")
	clock.advance(2 * time.Second)
	if !g.Check(1, "foo") {
		t.Fatal("attempt at 2s not flagged")
	}
	// the duplicate at 2s must not have refreshed the entry
	clock.advance(1500 * time.Millisecond)
	if g.Check(1, "foo") {
		t.Error("attempt at 3.5s flagged; duplicate hit refreshed the window")
	}
}

func TestGuard_KeyedPerUser(t *testing.T) {
	g, _ := newTestGuard()

	g.Check(1, "foo")
	if g.Check(2, "foo") {
		t.Error("different user blocked by another user's entry")
	}
	if g.Check(1, "bar") {
		t.Error("different name blocked")
	}
}

func TestGuard_CollectRemovesStaleEntries(t *testing.T) {
	g, clock := newTestGuard()

	g.Check(1, "a")
	g.Check(1, "b")
	clock.advance(2 * time.Second)
	g.Check(1, "c")

	clock.advance(1500 * time.Millisecond) // a,b are 3.5s old; c is 1.5s old
	g.collect()

	if got := g.Len(); got != 1 {
		t.Errorf("Len() after collect = %d, want 1", got)
	}
	if !g.Check(1, "c") {
		t.Error("fresh entry lost in collect")
	}
}

func TestGuard_StartStop(t *testing.T) {
	g := New(10*time.Millisecond, 10*time.Millisecond)
	g.Start()
	g.Check(1, "x")
	time.Sleep(50 * time.Millisecond)
	g.Stop()

	if got := g.Len(); got != 0 {
		t.Errorf("Len() after sweep = %d, want 0", got)
	}
}

func TestGuard_ConcurrentAccess(t *testing.T) {
	g, _ := newTestGuard()

	var wg sync.WaitGroup
	dupes := make([]bool, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dupes[i] = g.Check(7, "same name")
		}(i)
	}
	wg.Wait()

	passed := 0
	for _, d := range dupes {
		if !d {
			passed++
		}
	}
	if passed != 1 {
		t.Errorf("%d concurrent attempts passed, want exactly 1", passed)
	}
}
