package pmoclock

import "time"

// DefaultPollPeriod is the fallback poll cadence when no refresh-aligned
// source is available, roughly one tick per 60 Hz frame.
const DefaultPollPeriod = 16 * time.Millisecond

// Ticker delivers the poll cadence to a parameter instance. The instance that
// receives a Ticker owns it and stops it when the poll loop shuts down.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// WallTicker paces ticks with a time.Ticker.
type WallTicker struct {
	t *time.Ticker
}

// NewWallTicker returns a Ticker firing every period. A non-positive period
// falls back to DefaultPollPeriod.
func NewWallTicker(period time.Duration) *WallTicker {
	if period <= 0 {
		period = DefaultPollPeriod
	}
	return &WallTicker{t: time.NewTicker(period)}
}

func (w *WallTicker) C() <-chan time.Time { return w.t.C }

func (w *WallTicker) Stop() { w.t.Stop() }

// ManualTicker fires only when Tick is called, for deterministic poll tests.
type ManualTicker struct {
	ch chan time.Time
}

func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time, 1)}
}

func (m *ManualTicker) C() <-chan time.Time { return m.ch }

// Tick queues one tick. It blocks until the poll loop has room for it, so a
// test that calls Tick twice knows the first tick was consumed.
func (m *ManualTicker) Tick() {
	m.ch <- time.Now()
}

func (m *ManualTicker) Stop() {}
