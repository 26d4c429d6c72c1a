package scan

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sample is one fused scan point: a Cartesian offset from the scanner in
// millimeters plus the time it was captured. A sample is either fully valid
// or fully invalid.
type Sample struct {
	Pos        r2.Vec
	CapturedAt uint64 // ms since boot
	valid      bool
}

// Invalid returns the no-target sample.
func Invalid(t uint64) Sample {
	return Sample{
		Pos:        r2.Vec{X: math.NaN(), Y: math.NaN()},
		CapturedAt: t,
	}
}

// NewSample builds a valid sample. x and y must be finite.
func NewSample(x, y float64, t uint64) Sample {
	return Sample{
		Pos:        r2.Vec{X: x, Y: y},
		CapturedAt: t,
		valid:      true,
	}
}

// Valid reports whether the sample carries a target position.
func (s Sample) Valid() bool {
	return s.valid
}

// X returns the x offset in mm, NaN when invalid.
func (s Sample) X() float64 {
	if !s.valid {
		return math.NaN()
	}
	return s.Pos.X
}

// Y returns the y offset in mm, NaN when invalid.
func (s Sample) Y() float64 {
	if !s.valid {
		return math.NaN()
	}
	return s.Pos.Y
}

// Range is a single distance reading. The zero value is "no target".
type Range struct {
	mm int
	ok bool
}

// ValidRange wraps a measured distance in millimeters.
func ValidRange(mm int) Range {
	return Range{mm: mm, ok: true}
}

// NoTarget is the sentinel for out-of-range or faulted measurements.
func NoTarget() Range {
	return Range{}
}

// MM returns the distance and whether it is valid.
func (r Range) MM() (int, bool) {
	return r.mm, r.ok
}

// Valid reports whether the reading holds a distance.
func (r Range) Valid() bool {
	return r.ok
}

// Millimeters returns the distance, or -1 for the sentinel.
func (r Range) Millimeters() int {
	if !r.ok {
		return -1
	}
	return r.mm
}
