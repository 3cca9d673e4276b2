package pmoparam

import (
	"gargoton.petite-maison-orange.fr/eric/pmoparam/pmoclock"
)

// Start launches the poll loop on its own goroutine. Each tick samples the
// schedule at the current time and notifies subscribers when the sampled
// value differs from the previous tick's. Calling Start on a running or
// already stopped instance is a no-op.
func (p *Param) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running || p.stopped {
		return
	}
	if p.ticker == nil {
		p.ticker = pmoclock.NewWallTicker(pmoclock.DefaultPollPeriod)
	}
	p.running = true
	p.stopc = make(chan struct{})
	p.donec = make(chan struct{})
	go p.loop(p.stopc, p.donec)
	p.logger.Debugf("%s: poll loop started", p.def.name)
}

// Stop cancels the poll loop, stops the ticker and waits for the loop
// goroutine to exit. The instance keeps serving reads, writes and schedule
// mutations afterwards, but its poll loop is released for good: a stopped
// instance cannot be restarted. Stop is safe to call more than once.
func (p *Param) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.stopped = true
	stopc, donec, ticker := p.stopc, p.donec, p.ticker
	p.mu.Unlock()

	close(stopc)
	<-donec
	ticker.Stop()
	p.logger.Debugf("%s: poll loop stopped", p.def.name)
}

func (p *Param) loop(stopc <-chan struct{}, donec chan<- struct{}) {
	defer close(donec)
	for {
		select {
		case <-stopc:
			return
		case <-p.ticker.C():
			p.poll()
		}
	}
}

// poll is one tick of the change-detection loop: sample, diff against the
// previous tick, fan out on change. Only the final value per tick is
// reported, intermediate changes between two ticks are never observed.
func (p *Param) poll() {
	candidate := p.engine.ValueAt(p.clock.CurrentTime())

	p.mu.Lock()
	if candidate == p.lastSeen {
		p.mu.Unlock()
		return
	}
	p.lastSeen = candidate
	subs := make([]subscription, len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	for _, s := range subs {
		p.notify(s, candidate)
	}
}

// notify isolates one callback invocation so a panicking subscriber cannot
// suppress the ones after it.
func (p *Param) notify(s subscription, v float64) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorf("❌ %s: subscriber %s panicked: %v", p.def.name, s.id, r)
		}
	}()
	s.fn(v)
}
