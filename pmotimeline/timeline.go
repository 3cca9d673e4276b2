package pmotimeline

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

type eventKind int

const (
	evSetValue eventKind = iota
	evLinearRamp
	evExpRamp
	evSetTarget
	evValueCurve
)

// event is one scheduled automation point. For ramps, time is the end time of
// the segment; for everything else it is the start time.
type event struct {
	kind         eventKind
	time         float64
	value        float64
	timeConstant float64
	curve        []float64
	duration     float64
}

// Timeline is the automation schedule of a single parameter: an ordered list
// of scheduled operations evaluated as a pure function of time. Mutations and
// evaluation are safe for concurrent use.
type Timeline struct {
	mu      sync.RWMutex
	initial float64
	events  []event
}

// New creates a timeline whose value is initial until the first scheduled
// event takes effect.
func New(initial float64) *Timeline {
	return &Timeline{initial: initial}
}

// insert keeps events sorted by time; events at the same time keep their
// insertion order, so the latest one wins when evaluating at exactly that
// instant.
func (tl *Timeline) insert(e event) {
	i := sort.Search(len(tl.events), func(i int) bool {
		return tl.events[i].time > e.time
	})
	tl.events = append(tl.events, event{})
	copy(tl.events[i+1:], tl.events[i:])
	tl.events[i] = e
}

// lastValue returns the value the schedule ends on, used to validate
// exponential ramp targets.
func (tl *Timeline) lastValue() float64 {
	if len(tl.events) == 0 {
		return tl.initial
	}
	last := tl.events[len(tl.events)-1]
	if last.kind == evValueCurve {
		return last.curve[len(last.curve)-1]
	}
	return last.value
}

func checkTime(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("pmotimeline: time %v is not finite", t)
	}
	if t < 0 {
		return fmt.Errorf("pmotimeline: time %v is negative", t)
	}
	return nil
}

func checkValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("pmotimeline: value %v is not finite", v)
	}
	return nil
}

// SetValueAtTime schedules an immediate step to value at startTime.
func (tl *Timeline) SetValueAtTime(value, startTime float64) error {
	if err := checkValue(value); err != nil {
		return err
	}
	if err := checkTime(startTime); err != nil {
		return err
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.insert(event{kind: evSetValue, time: startTime, value: value})
	return nil
}

// LinearRampToValueAtTime schedules a linear ramp from the previous event's
// value to value, ending at endTime.
func (tl *Timeline) LinearRampToValueAtTime(value, endTime float64) error {
	if err := checkValue(value); err != nil {
		return err
	}
	if err := checkTime(endTime); err != nil {
		return err
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.insert(event{kind: evLinearRamp, time: endTime, value: value})
	return nil
}

// ExponentialRampToValueAtTime schedules an exponential ramp ending at
// endTime. The target must be non-zero and share the sign of the value the
// schedule currently ends on.
func (tl *Timeline) ExponentialRampToValueAtTime(value, endTime float64) error {
	if err := checkValue(value); err != nil {
		return err
	}
	if err := checkTime(endTime); err != nil {
		return err
	}
	if value == 0 {
		return fmt.Errorf("pmotimeline: exponential ramp target must be non-zero")
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()
	if prev := tl.lastValue(); prev*value < 0 {
		return fmt.Errorf("pmotimeline: exponential ramp from %v to %v crosses zero", prev, value)
	}
	tl.insert(event{kind: evExpRamp, time: endTime, value: value})
	return nil
}

// SetTargetAtTime schedules an exponential approach toward target starting at
// startTime, with the given time constant in seconds.
func (tl *Timeline) SetTargetAtTime(target, startTime, timeConstant float64) error {
	if err := checkValue(target); err != nil {
		return err
	}
	if err := checkTime(startTime); err != nil {
		return err
	}
	if !(timeConstant > 0) || math.IsInf(timeConstant, 0) {
		return fmt.Errorf("pmotimeline: time constant %v must be a positive finite number", timeConstant)
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.insert(event{kind: evSetTarget, time: startTime, value: target, timeConstant: timeConstant})
	return nil
}

// SetValueCurveAtTime schedules a piecewise-linear sweep through values,
// spread evenly over duration seconds from startTime. The final sample holds
// afterwards.
func (tl *Timeline) SetValueCurveAtTime(values []float64, startTime, duration float64) error {
	if len(values) < 2 {
		return fmt.Errorf("pmotimeline: value curve needs at least 2 samples, got %d", len(values))
	}
	for _, v := range values {
		if err := checkValue(v); err != nil {
			return err
		}
	}
	if err := checkTime(startTime); err != nil {
		return err
	}
	if !(duration > 0) || math.IsInf(duration, 0) {
		return fmt.Errorf("pmotimeline: curve duration %v must be a positive finite number", duration)
	}
	curve := make([]float64, len(values))
	copy(curve, values)
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.insert(event{
		kind:     evValueCurve,
		time:     startTime,
		value:    curve[len(curve)-1],
		curve:    curve,
		duration: duration,
	})
	return nil
}

// CancelScheduledValues drops every event scheduled at or after cancelTime.
func (tl *Timeline) CancelScheduledValues(cancelTime float64) error {
	if err := checkTime(cancelTime); err != nil {
		return err
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()
	i := sort.Search(len(tl.events), func(i int) bool {
		return tl.events[i].time >= cancelTime
	})
	tl.events = tl.events[:i]
	return nil
}
