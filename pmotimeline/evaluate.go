package pmotimeline

import "math"

// ValueAt evaluates the schedule at time t. It is a pure read: the same
// timeline and the same t always produce the same value.
//
// Evaluation walks the events in order while tracking an anchor (value, time)
// pair. Steps and completed ramps move the anchor; a ramp still in flight at t
// interpolates between the anchor and its endpoint; a set-target stays in
// effect until the next event's time and is folded into the anchor there.
func (tl *Timeline) ValueAt(t float64) float64 {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	v := tl.initial
	vt := 0.0

	for i := range tl.events {
		e := &tl.events[i]
		next := math.Inf(1)
		if i+1 < len(tl.events) {
			next = tl.events[i+1].time
		}

		switch e.kind {
		case evSetValue:
			if e.time > t {
				return v
			}
			v, vt = e.value, e.time

		case evLinearRamp:
			if t < e.time {
				if t <= vt {
					return v
				}
				return v + (e.value-v)*(t-vt)/(e.time-vt)
			}
			v, vt = e.value, e.time

		case evExpRamp:
			if t < e.time {
				if t <= vt {
					return v
				}
				if v == 0 || v*e.value < 0 {
					// degenerate anchor, behave as a step at the end
					return v
				}
				return v * math.Pow(e.value/v, (t-vt)/(e.time-vt))
			}
			v, vt = e.value, e.time

		case evSetTarget:
			if e.time > t {
				return v
			}
			if next <= t {
				// a later event takes over; fold the approach at its time
				v = e.value + (v-e.value)*math.Exp(-(next-e.time)/e.timeConstant)
				vt = next
				continue
			}
			return e.value + (v-e.value)*math.Exp(-(t-e.time)/e.timeConstant)

		case evValueCurve:
			if e.time > t {
				return v
			}
			end := e.time + e.duration
			if t < end {
				return curveAt(e.curve, (t-e.time)/e.duration)
			}
			v, vt = e.curve[len(e.curve)-1], end
		}
	}
	return v
}

// curveAt interpolates linearly inside a sampled curve. pos is the normalized
// position in [0, 1).
func curveAt(curve []float64, pos float64) float64 {
	x := pos * float64(len(curve)-1)
	lo := int(x)
	if lo >= len(curve)-1 {
		return curve[len(curve)-1]
	}
	frac := x - float64(lo)
	return curve[lo] + (curve[lo+1]-curve[lo])*frac
}
