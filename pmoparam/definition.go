package pmoparam

import (
	"fmt"
	"math"
	"strings"
)

// Definition is the immutable description of one kind of parameter: its name,
// default value and inclusive bounds. A Definition is created once, validated,
// and then bound to a time source any number of times to produce instances.
type Definition struct {
	name         string
	defaultValue float64
	minValue     float64
	maxValue     float64
}

// NewDefinition validates and captures the four fields of a parameter
// definition. It fails, before anything else can happen, when the name is
// empty, any number is not finite, or the ordering
// minValue <= defaultValue <= maxValue does not hold.
func NewDefinition(name string, defaultValue, minValue, maxValue float64) (*Definition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("pmoparam: parameter name must be a non-empty string")
	}
	for _, v := range []float64{defaultValue, minValue, maxValue} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("pmoparam: %s: %v is not a finite number", name, v)
		}
	}
	if minValue > defaultValue || defaultValue > maxValue {
		return nil, fmt.Errorf(
			"pmoparam: %s: need minValue <= defaultValue <= maxValue, got %v / %v / %v",
			name, minValue, defaultValue, maxValue)
	}
	return &Definition{
		name:         name,
		defaultValue: defaultValue,
		minValue:     minValue,
		maxValue:     maxValue,
	}, nil
}

// MustDefinition is NewDefinition for static declarations; it panics on
// invalid input.
func MustDefinition(name string, defaultValue, minValue, maxValue float64) *Definition {
	def, err := NewDefinition(name, defaultValue, minValue, maxValue)
	if err != nil {
		panic(err)
	}
	return def
}

func (d *Definition) Name() string { return d.name }

func (d *Definition) DefaultValue() float64 { return d.defaultValue }

func (d *Definition) MinValue() float64 { return d.minValue }

func (d *Definition) MaxValue() float64 { return d.maxValue }

// Clamp constrains v to the definition's inclusive range.
func (d *Definition) Clamp(v float64) float64 {
	if v < d.minValue {
		return d.minValue
	}
	if v > d.maxValue {
		return d.maxValue
	}
	return v
}
