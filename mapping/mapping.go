// Package mapping implements the value type that flows through a
// verification pipeline: a pair of an input box and an output box
// (spec.md §3, §4.1).
//
// A Mapping is cheap and value-like. Stages that need to descend into a
// sub-region copy the mapping first (Copy); the original stays owned by
// its creator until the sub-call returns (spec.md §3, "Ownership").
//
// Errors:
//
//	ErrDimensionMismatch - two mappings (or a mapping and a class index)
//	                       disagree on nb_inputs/nb_outputs.
//	ErrNotPrecise        - an operation that requires a precise mapping
//	                       (all output widths zero) was given one that
//	                       isn't. This is a precondition violation
//	                       (spec.md §7): callers must not trigger it.
package mapping

import (
	"errors"
	"fmt"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/outcome"
)

// ErrDimensionMismatch indicates mismatched input/output dimensions
// between two mappings, or a class index outside [0, nb_outputs).
var ErrDimensionMismatch = errors.New("mapping: dimension mismatch")

// ErrNotPrecise indicates an operation required a precise mapping (every
// output Bound degenerate) and did not receive one.
var ErrNotPrecise = errors.New("mapping: mapping is not precise")

// Mapping is a fixed-dimension pair of bound vectors: Inputs is a closed
// axis-aligned box in input space, Outputs is a sound enclosure of every
// concrete output produced by every concrete input in Inputs.
type Mapping struct {
	Inputs  []bound.Bound
	Outputs []bound.Bound
}

// New allocates a Mapping with Inputs set to [-Inf,+Inf] per dimension and
// Outputs set to [0,0] per dimension (spec.md §4.1 "new").
//
// Complexity: O(nIn + nOut).
func New(nIn, nOut int) *Mapping {
	m := &Mapping{
		Inputs:  make([]bound.Bound, nIn),
		Outputs: make([]bound.Bound, nOut),
	}
	for i := range m.Inputs {
		m.Inputs[i] = bound.Unbounded()
	}
	for i := range m.Outputs {
		m.Outputs[i] = bound.Zero()
	}
	return m
}

// Copy returns a deep, independent copy of m.
//
// Complexity: O(nIn + nOut).
func Copy(m *Mapping) *Mapping {
	c := &Mapping{
		Inputs:  make([]bound.Bound, len(m.Inputs)),
		Outputs: make([]bound.Bound, len(m.Outputs)),
	}
	copy(c.Inputs, m.Inputs)
	copy(c.Outputs, m.Outputs)
	return c
}

// NIn returns the input dimension.
func (m *Mapping) NIn() int { return len(m.Inputs) }

// NOut returns the output dimension.
func (m *Mapping) NOut() int { return len(m.Outputs) }

// Join returns a new Mapping whose Inputs and Outputs cover both src's
// and dst's, componentwise (spec.md §4.1 "join"); src and dst are left
// unchanged. Both mappings must share dimensions.
//
// Complexity: O(nIn + nOut).
func Join(src, dst *Mapping) (*Mapping, error) {
	if src.NIn() != dst.NIn() || src.NOut() != dst.NOut() {
		return nil, fmt.Errorf("mapping.Join: %w", ErrDimensionMismatch)
	}
	out := &Mapping{
		Inputs:  make([]bound.Bound, dst.NIn()),
		Outputs: make([]bound.Bound, dst.NOut()),
	}
	for i := range out.Inputs {
		out.Inputs[i] = bound.Join(src.Inputs[i], dst.Inputs[i])
	}
	for i := range out.Outputs {
		out.Outputs[i] = bound.Join(src.Outputs[i], dst.Outputs[i])
	}
	return out, nil
}

// Precise reports whether every output dimension has zero width — i.e.
// m corresponds to a single concrete output vector (spec.md §4.1
// "precise").
//
// Complexity: O(nOut).
func Precise(m *Mapping) bool {
	for _, o := range m.Outputs {
		if !o.Degenerate() {
			return false
		}
	}
	return true
}

// Scalars returns the lower bound of every output dimension. The caller
// must have already established that m is precise (e.g. via Precise);
// Scalars panics otherwise, per spec.md §7's "precise mapping expected
// but not received" precondition.
func Scalars(m *Mapping) []bound.R {
	if !Precise(m) {
		panic(ErrNotPrecise)
	}
	out := make([]bound.R, m.NOut())
	for i, o := range m.Outputs {
		out[i] = o.Lo
	}
	return out
}

// ArgmaxCheck implements spec.md §4.1's "argmax_check": PASS iff class k
// dominates every other class's output interval, FAIL iff some other
// class strictly dominates k, UNSURE otherwise.
//
// Complexity: O(nOut).
func ArgmaxCheck(m *Mapping, k int) (outcome.Outcome, error) {
	if k < 0 || k >= m.NOut() {
		return outcome.UNSURE, fmt.Errorf("mapping.ArgmaxCheck: class %d: %w", k, ErrDimensionMismatch)
	}
	dominates := true
	for j, oj := range m.Outputs {
		if j == k {
			continue
		}
		if m.Outputs[k].Hi < oj.Lo {
			return outcome.FAIL, nil
		}
		if m.Outputs[k].Lo < oj.Hi {
			dominates = false
		}
	}
	if dominates {
		return outcome.PASS, nil
	}
	return outcome.UNSURE, nil
}

// ArgminCheck is the dual of ArgmaxCheck: PASS iff class k's interval is
// dominated from below by every other class, FAIL iff some other class
// is strictly smaller, UNSURE otherwise (spec.md §4.1 "argmin_check").
//
// Complexity: O(nOut).
func ArgminCheck(m *Mapping, k int) (outcome.Outcome, error) {
	if k < 0 || k >= m.NOut() {
		return outcome.UNSURE, fmt.Errorf("mapping.ArgminCheck: class %d: %w", k, ErrDimensionMismatch)
	}
	dominates := true
	for j, oj := range m.Outputs {
		if j == k {
			continue
		}
		if m.Outputs[k].Lo > oj.Hi {
			return outcome.FAIL, nil
		}
		if m.Outputs[k].Hi > oj.Lo {
			dominates = false
		}
	}
	if dominates {
		return outcome.PASS, nil
	}
	return outcome.UNSURE, nil
}

// Inconclusive is the sentinel dimension value Argmax/Argmin return when
// no single dimension dominates.
const Inconclusive = -1

// Argmax returns the unique output dimension whose Hi strictly exceeds
// every other dimension's Lo, or Inconclusive if no such dimension exists
// or more than one does (spec.md §4.1 "argmax").
//
// Complexity: O(nOut^2); nOut is small (class count) in every caller of
// this module.
func Argmax(m *Mapping) int {
	found := Inconclusive
	for k, ok := range m.Outputs {
		qualifies := true
		for j, oj := range m.Outputs {
			if j != k && ok.Hi <= oj.Lo {
				qualifies = false
				break
			}
		}
		if qualifies {
			if found != Inconclusive {
				return Inconclusive
			}
			found = k
		}
	}
	return found
}

// Argmin is the dual of Argmax (spec.md §4.1): the unique output
// dimension whose Lo is strictly below every other dimension's Hi, or
// Inconclusive if no such dimension exists or more than one does.
func Argmin(m *Mapping) int {
	found := Inconclusive
	for k, ok := range m.Outputs {
		qualifies := true
		for j, oj := range m.Outputs {
			if j != k && ok.Lo >= oj.Hi {
				qualifies = false
				break
			}
		}
		if qualifies {
			if found != Inconclusive {
				return Inconclusive
			}
			found = k
		}
	}
	return found
}
