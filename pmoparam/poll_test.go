package pmoparam_test

import (
	"testing"
	"time"

	"gargoton.petite-maison-orange.fr/eric/pmoparam/pmoclock"
	"gargoton.petite-maison-orange.fr/eric/pmoparam/pmoparam"
)

func waitValue(t *testing.T, ch <-chan float64, want float64) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("notified with %v, want %v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for notification of %v", want)
	}
}

func startPolled(t *testing.T) (*pmoparam.Param, *pmoclock.ManualClock, *pmoclock.ManualTicker) {
	t.Helper()
	clock := pmoclock.NewManualClock()
	ticker := pmoclock.NewManualTicker()
	p, _ := newTestParam(t, clock, pmoparam.WithTicker(ticker))
	p.Start()
	t.Cleanup(p.Stop)
	return p, clock, ticker
}

// ----------------------- Change detection ------------------------

func TestNotifyOnceOnChange(t *testing.T) {
	p, _, ticker := startPolled(t)
	ch := make(chan float64, 8)
	p.Subscribe(func(v float64) { ch <- v })

	p.SetValue(0.5)
	ticker.Tick()
	waitValue(t, ch, 0.5)

	// unchanged tick produces nothing, so the next notification must be
	// the next change
	ticker.Tick()
	p.SetValue(0.75)
	ticker.Tick()
	waitValue(t, ch, 0.75)

	if len(ch) != 0 {
		t.Fatalf("unexpected extra notifications: %d", len(ch))
	}
}

func TestNoNotificationWithoutChange(t *testing.T) {
	p, _, ticker := startPolled(t)
	ch := make(chan float64, 8)
	p.Subscribe(func(v float64) { ch <- v })

	ticker.Tick()
	ticker.Tick()
	// force one real change to flush the loop past the idle ticks
	p.SetValue(0.9)
	ticker.Tick()
	waitValue(t, ch, 0.9)
	if len(ch) != 0 {
		t.Fatal("idle ticks must not notify")
	}
}

func TestOnlyFinalValuePerTick(t *testing.T) {
	p, _, ticker := startPolled(t)
	ch := make(chan float64, 8)
	p.Subscribe(func(v float64) { ch <- v })

	// several writes between ticks collapse into one notification
	p.SetValue(0.3)
	p.SetValue(0.6)
	p.SetValue(0.9)
	ticker.Tick()
	waitValue(t, ch, 0.9)
	if len(ch) != 0 {
		t.Fatal("intermediate values must not be reported")
	}
}

func TestRampObservedThroughPolling(t *testing.T) {
	p, clock, ticker := startPolled(t)
	ch := make(chan float64, 8)
	p.Subscribe(func(v float64) { ch <- v })

	if err := p.ExponentialRampToValueAtTime(0.9, 3); err != nil {
		t.Fatal(err)
	}
	clock.SetTime(3.5)
	ticker.Tick()
	waitValue(t, ch, 0.9)
}

// ----------------------- Subscription registry ------------------------

func TestSubscriptionOrder(t *testing.T) {
	p, _, ticker := startPolled(t)
	ch := make(chan string, 8)
	p.Subscribe(func(float64) { ch <- "a" })
	p.Subscribe(func(float64) { ch <- "b" })

	p.SetValue(0.5)
	ticker.Tick()
	if <-ch != "a" || <-ch != "b" {
		t.Fatal("subscribers not notified in subscription order")
	}
}

func TestSubscribeSameFunctionTwice(t *testing.T) {
	p, _, ticker := startPolled(t)
	ch := make(chan float64, 8)
	fn := func(v float64) { ch <- v }
	id1 := p.Subscribe(fn)
	id2 := p.Subscribe(fn)
	if id1 == id2 {
		t.Fatal("each subscription needs its own id")
	}

	p.SetValue(0.5)
	ticker.Tick()
	waitValue(t, ch, 0.5)
	waitValue(t, ch, 0.5)

	p.Unsubscribe(id1)
	p.SetValue(0.75)
	ticker.Tick()
	waitValue(t, ch, 0.75)
	if len(ch) != 0 {
		t.Fatal("removed subscription still notified")
	}
}

func TestUnsubscribeUnknownIDIsNoop(t *testing.T) {
	p, _, ticker := startPolled(t)
	ch := make(chan float64, 8)
	p.Subscribe(func(v float64) { ch <- v })
	p.Unsubscribe(pmoparam.SubscriberID{})

	p.SetValue(0.5)
	ticker.Tick()
	waitValue(t, ch, 0.5)
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	p, _, ticker := startPolled(t)
	ch := make(chan float64, 8)
	p.Subscribe(func(float64) { panic("boom") })
	p.Subscribe(func(v float64) { ch <- v })

	p.SetValue(0.5)
	ticker.Tick()
	waitValue(t, ch, 0.5)
}

// ----------------------- Watch ------------------------

func TestWatch(t *testing.T) {
	p, _, ticker := startPolled(t)
	ch, cancel := p.Watch(4)

	p.SetValue(0.5)
	ticker.Tick()
	waitValue(t, ch, 0.5)

	cancel()
	if _, ok := <-ch; ok {
		t.Fatal("cancel must close the channel")
	}
	cancel() // second cancel is safe
}

// ----------------------- Lifecycle ------------------------

func TestStartIsIdempotent(t *testing.T) {
	p, _, ticker := startPolled(t)
	p.Start()
	ch := make(chan float64, 8)
	p.Subscribe(func(v float64) { ch <- v })

	p.SetValue(0.5)
	ticker.Tick()
	waitValue(t, ch, 0.5)
	if len(ch) != 0 {
		t.Fatal("double start must not double notifications")
	}
}

func TestStopReleasesLoop(t *testing.T) {
	clock := pmoclock.NewManualClock()
	ticker := pmoclock.NewManualTicker()
	p, _ := newTestParam(t, clock, pmoparam.WithTicker(ticker))
	ch := make(chan float64, 8)
	p.Subscribe(func(v float64) { ch <- v })

	p.Start()
	p.Stop()
	p.Stop() // second stop is safe

	p.SetValue(0.5)
	ticker.Tick() // buffered, nobody listening
	select {
	case v := <-ch:
		t.Fatalf("notified after stop: %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}
