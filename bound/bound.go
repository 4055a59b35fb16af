// Package bound defines the real scalar type and the closed-interval
// bound that every other package in this module builds on.
//
// Precision:
//
//	R is fixed to float64 for the whole module. Nothing here chooses
//	between single and double precision at runtime; a build that needs
//	single precision would alias R to float32 and recompile.
//
// Invariants:
//
//	A Bound's Lo must never exceed Hi, and neither field may be NaN.
//	Infinities are permitted and expected (an unconstrained input
//	dimension is represented as [-Inf, +Inf]).
package bound

import (
	"errors"
	"math"
)

// R is the real scalar used throughout this module.
type R = float64

// ErrInvalidBound indicates a Bound violates its Lo <= Hi, non-NaN
// invariant. Constructors and mutators that would otherwise produce an
// invalid Bound return this sentinel instead.
var ErrInvalidBound = errors.New("bound: lo > hi or NaN")

// Bound is an inclusive interval [Lo, Hi] over R.
type Bound struct {
	Lo R
	Hi R
}

// New constructs a Bound, validating the lo <= hi, non-NaN invariant.
//
// Complexity: O(1).
func New(lo, hi R) (Bound, error) {
	b := Bound{Lo: lo, Hi: hi}
	if !b.Valid() {
		return Bound{}, ErrInvalidBound
	}
	return b, nil
}

// Point returns the degenerate Bound [v, v].
func Point(v R) Bound {
	return Bound{Lo: v, Hi: v}
}

// Unbounded returns [-Inf, +Inf].
func Unbounded() Bound {
	return Bound{Lo: math.Inf(-1), Hi: math.Inf(1)}
}

// Zero returns [0, 0].
func Zero() Bound {
	return Bound{Lo: 0, Hi: 0}
}

// Valid reports whether b satisfies Lo <= Hi with no NaN endpoint.
//
// Complexity: O(1).
func (b Bound) Valid() bool {
	if math.IsNaN(b.Lo) || math.IsNaN(b.Hi) {
		return false
	}
	return b.Lo <= b.Hi
}

// Width returns Hi - Lo.
func (b Bound) Width() R {
	return b.Hi - b.Lo
}

// Degenerate reports whether Lo == Hi.
func (b Bound) Degenerate() bool {
	return b.Lo == b.Hi
}

// Join widens dst so it also covers src: componentwise min on Lo, max on
// Hi. Join is associative and commutative.
//
// Complexity: O(1).
func Join(src, dst Bound) Bound {
	return Bound{
		Lo: min(src.Lo, dst.Lo),
		Hi: max(src.Hi, dst.Hi),
	}
}

// Add returns the Minkowski sum of a and b: [a.Lo+b.Lo, a.Hi+b.Hi]. This
// is how independent trees' output contributions combine in an ensemble
// sum, as opposed to Join, which is a union of alternatives.
func Add(a, b Bound) Bound {
	return Bound{Lo: a.Lo + b.Lo, Hi: a.Hi + b.Hi}
}

// Shifted returns b with both endpoints offset by delta.
func (b Bound) Shifted(delta R) Bound {
	return Bound{Lo: b.Lo + delta, Hi: b.Hi + delta}
}

// Scaled returns b with both endpoints divided by k. k must be non-zero;
// callers are expected to have already asserted this (§7: arithmetic
// domain errors in post-processing are programmer errors, not results).
func (b Bound) Scaled(k R) Bound {
	return Bound{Lo: b.Lo / k, Hi: b.Hi / k}
}

// NextAfter returns the next representable R strictly after x, moving
// toward +Inf. Used by the refinery to carve a pointwise-disjoint right
// sub-box out of a split threshold (spec.md §9, "next-representable-
// after-threshold").
func NextAfter(x R) R {
	return math.Nextafter(x, math.Inf(1))
}
