// Package ordered provides a total-order float64 wrapper for use as a sort
// and comparison key, so callers never have to sprinkle partial_cmp-style
// unwraps through the simulation core.
package ordered

import "math"

// Float is a float64 that is guaranteed not to be NaN. It panics at
// construction time rather than at comparison time, per the Design Note
// that domain errors from an ill-formed path are the geometry layer's
// responsibility, not something to discover deep in a sort call.
type Float float64

// New wraps v as a Float, panicking if v is NaN.
func New(v float64) Float {
	if math.IsNaN(v) {
		panic("ordered: NaN is not a valid position/velocity value")
	}
	return Float(v)
}

// Value returns the underlying float64.
func (f Float) Value() float64 { return float64(f) }

// Less reports whether f orders before g.
func (f Float) Less(g Float) bool { return f < g }

// Add returns f shifted by delta.
func (f Float) Add(delta float64) Float { return New(float64(f) + delta) }
