package pmoparam

import (
	"fmt"
	"math"
	"sync"

	"gargoton.petite-maison-orange.fr/eric/pmoparam/pmoclock"
	"gargoton.petite-maison-orange.fr/eric/pmoparam/pmotimeline"
	log "github.com/sirupsen/logrus"
)

// Engine is the automation collaborator a parameter delegates all value
// scheduling to. It evaluates the scheduled curve as a pure function of time;
// the parameter never reinterprets its semantics. *pmotimeline.Timeline is
// the default implementation.
type Engine interface {
	ValueAt(t float64) float64
	SetValueAtTime(value, startTime float64) error
	LinearRampToValueAtTime(value, endTime float64) error
	ExponentialRampToValueAtTime(value, endTime float64) error
	SetTargetAtTime(target, startTime, timeConstant float64) error
	SetValueCurveAtTime(values []float64, startTime, duration float64) error
	CancelScheduledValues(cancelTime float64) error
}

// Param is a live parameter instance: one definition bound to one time
// source, with its own schedule, its own subscriber list and its own poll
// loop. Create instances with Definition.Bind.
type Param struct {
	def    *Definition
	clock  pmoclock.Clock
	engine Engine
	ticker pmoclock.Ticker
	logger log.FieldLogger

	mu       sync.Mutex
	lastSeen float64
	subs     []subscription
	running  bool
	stopped  bool
	stopc    chan struct{}
	donec    chan struct{}
}

// Option adjusts how a definition is bound to a time source.
type Option func(*Param)

// WithTicker replaces the default 16 ms wall ticker. The parameter takes
// ownership and stops the ticker when its poll loop stops.
func WithTicker(t pmoclock.Ticker) Option {
	return func(p *Param) { p.ticker = t }
}

// WithLogger routes clamp warnings and poll diagnostics to the given logger
// instead of the logrus standard logger.
func WithLogger(l log.FieldLogger) Option {
	return func(p *Param) { p.logger = l }
}

// WithEngine substitutes the automation engine. The engine must already
// evaluate to the definition's default value at bind time.
func WithEngine(e Engine) Option {
	return func(p *Param) { p.engine = e }
}

// Bind creates an instance of the definition driven by the given time source.
// The instance's schedule starts with the default value committed at the
// source's current time. The poll loop does not run until Start is called.
func (d *Definition) Bind(clock pmoclock.Clock, opts ...Option) (*Param, error) {
	if clock == nil {
		return nil, fmt.Errorf("pmoparam: %s: nil time source", d.name)
	}
	now := clock.CurrentTime()
	if math.IsNaN(now) || math.IsInf(now, 0) || now < 0 {
		return nil, fmt.Errorf("pmoparam: %s: time source reports unusable current time %v", d.name, now)
	}

	p := &Param{
		def:      d,
		clock:    clock,
		logger:   log.StandardLogger(),
		lastSeen: d.defaultValue,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.engine == nil {
		p.engine = pmotimeline.New(d.defaultValue)
	}
	if err := p.engine.SetValueAtTime(d.defaultValue, now); err != nil {
		return nil, fmt.Errorf("pmoparam: %s: committing default value: %w", d.name, err)
	}
	return p, nil
}

// Definition returns the immutable definition this instance was bound from.
func (p *Param) Definition() *Definition { return p.def }

func (p *Param) Name() string { return p.def.name }

func (p *Param) DefaultValue() float64 { return p.def.defaultValue }

func (p *Param) MinValue() float64 { return p.def.minValue }

func (p *Param) MaxValue() float64 { return p.def.maxValue }

// Value evaluates the schedule at the time source's current time. Reads have
// no side effects and need no clamping: every path into the schedule clamps
// before committing.
func (p *Param) Value() float64 {
	return p.engine.ValueAt(p.clock.CurrentTime())
}

// SetValue commits v at the current time. Out-of-range values are clamped to
// the nearest bound with one warning; NaN is rejected outright since it
// cannot be ordered against the bounds.
func (p *Param) SetValue(v float64) {
	if math.IsNaN(v) {
		p.logger.Warnf("⚠️ %s: dropping NaN write", p.def.name)
		return
	}
	clamped := p.def.Clamp(v)
	if clamped != v {
		bound := "max"
		limit := p.def.maxValue
		if v < p.def.minValue {
			bound = "min"
			limit = p.def.minValue
		}
		p.logger.Warnf("⚠️ %s: value %v outside range, clamped to %s bound %v", p.def.name, v, bound, limit)
	}
	if err := p.engine.SetValueAtTime(clamped, p.clock.CurrentTime()); err != nil {
		p.logger.Errorf("❌ %s: committing value %v: %v", p.def.name, clamped, err)
	}
}

// clampScheduled keeps the invariant that only in-range values enter the
// schedule. Scheduling methods clamp quietly, only the direct setter warns.
func (p *Param) clampScheduled(v float64) float64 {
	clamped := p.def.Clamp(v)
	if clamped != v {
		p.logger.Debugf("%s: scheduled value %v clamped to %v", p.def.name, v, clamped)
	}
	return clamped
}

// SetValueAtTime schedules a step to value at startTime. The value is clamped
// to the parameter's range; engine errors propagate unchanged.
func (p *Param) SetValueAtTime(value, startTime float64) error {
	return p.engine.SetValueAtTime(p.clampScheduled(value), startTime)
}

// LinearRampToValueAtTime schedules a linear ramp ending at endTime.
func (p *Param) LinearRampToValueAtTime(value, endTime float64) error {
	return p.engine.LinearRampToValueAtTime(p.clampScheduled(value), endTime)
}

// ExponentialRampToValueAtTime schedules an exponential ramp ending at
// endTime.
func (p *Param) ExponentialRampToValueAtTime(value, endTime float64) error {
	return p.engine.ExponentialRampToValueAtTime(p.clampScheduled(value), endTime)
}

// SetTargetAtTime schedules an exponential approach toward target.
func (p *Param) SetTargetAtTime(target, startTime, timeConstant float64) error {
	return p.engine.SetTargetAtTime(p.clampScheduled(target), startTime, timeConstant)
}

// SetValueCurveAtTime schedules a sampled curve over duration seconds. Every
// sample is clamped to the parameter's range.
func (p *Param) SetValueCurveAtTime(values []float64, startTime, duration float64) error {
	clamped := make([]float64, len(values))
	for i, v := range values {
		clamped[i] = p.clampScheduled(v)
	}
	return p.engine.SetValueCurveAtTime(clamped, startTime, duration)
}

// CancelScheduledValues removes scheduled events at or after cancelTime.
func (p *Param) CancelScheduledValues(cancelTime float64) error {
	return p.engine.CancelScheduledValues(cancelTime)
}
