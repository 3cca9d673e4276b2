package pmoclock

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Clock is the time source a parameter instance samples on every poll tick.
// CurrentTime returns seconds as a non-decreasing real number. Implementations
// are shared read-only state and must be safe for concurrent readers.
type Clock interface {
	CurrentTime() float64
}

// WallClock reports monotonic seconds elapsed since its creation.
type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) CurrentTime() float64 {
	return time.Since(c.start).Seconds()
}

// ManualClock is a hand-driven clock for deterministic tests. It enforces the
// non-decreasing contract: attempts to move backwards are ignored.
type ManualClock struct {
	mu  sync.RWMutex
	now float64
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) CurrentTime() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the clock forward by dt seconds. Negative deltas are ignored.
func (c *ManualClock) Advance(dt float64) {
	if dt < 0 {
		log.Debugf("manual clock: ignoring negative advance (%v)", dt)
		return
	}
	c.mu.Lock()
	c.now += dt
	c.mu.Unlock()
}

// SetTime jumps the clock to t seconds. Jumps into the past are ignored.
func (c *ManualClock) SetTime(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t < c.now {
		log.Debugf("manual clock: ignoring backward jump from %v to %v", c.now, t)
		return
	}
	c.now = t
}
