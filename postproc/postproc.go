// Package postproc implements the ensemble's output transform, applied
// as the last stage before the user predicate (spec.md §4.5).
package postproc

import (
	"fmt"
	"math"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
	"github.com/lattisworks/vote/pipeline"
)

// Kind selects which transform a Stage applies.
type Kind int

const (
	// None is the identity transform.
	None Kind = iota
	// Divisor divides every output dimension by the divisor passed to
	// Apply or Stage, the ensemble's tree count (random forest averaging).
	Divisor
	// Softmax applies the numerically-stabilized interval softmax.
	Softmax
	// Sigmoid applies the interval sigmoid.
	Sigmoid
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Divisor:
		return "divisor"
	case Softmax:
		return "softmax"
	case Sigmoid:
		return "sigmoid"
	default:
		return "invalid"
	}
}

// Apply transforms m.Outputs in place according to kind. divisor is only
// consulted when kind is Divisor (the tree count of the ensemble).
//
// Softmax asserts its stabilized sum is non-zero (spec.md §4.5, §7:
// "arithmetic domain errors... would indicate an ill-formed model") —
// this panics rather than returning an error, since it can only happen
// for a model whose outputs are already nonsensical.
//
// Complexity: O(nOut).
func Apply(kind Kind, divisor int, m *mapping.Mapping) {
	switch kind {
	case None:
		// identity
	case Divisor:
		applyDivisor(divisor, m)
	case Softmax:
		applySoftmax(m)
	case Sigmoid:
		applySigmoid(m)
	default:
		panic(fmt.Sprintf("postproc.Apply: unknown kind %d", kind))
	}
}

func applyDivisor(divisor int, m *mapping.Mapping) {
	if divisor == 0 {
		panic("postproc.Apply: divisor post-processing with zero tree count")
	}
	k := bound.R(divisor)
	for i, o := range m.Outputs {
		m.Outputs[i] = o.Scaled(k)
	}
}

// applySoftmax implements the offset-negate-and-swap stabilized softmax
// spec.md §9 identifies as the correct sound form, matching the later of
// the two revisions in original_source/lib/vote_postproc.c:
//
//	mx    = max_i outputs[i].hi
//	S.lo  = sum_i exp(outputs[i].lo - mx)
//	S.hi  = sum_i exp(outputs[i].hi - mx)
//	off.lo = -(log(S.hi) + mx)
//	off.hi = -(log(S.lo) + mx)
//	outputs[i].lo = exp(off.lo + outputs[i].lo)
//	outputs[i].hi = min(1, exp(off.hi + outputs[i].hi))
//
// The upper bound is capped at 1, which no softmax component exceeds, so
// every transformed interval lies in [0, 1].
func applySoftmax(m *mapping.Mapping) {
	mx := math.Inf(-1)
	for _, o := range m.Outputs {
		mx = math.Max(mx, o.Hi)
	}

	var sLo, sHi bound.R
	for _, o := range m.Outputs {
		sLo += math.Exp(o.Lo - mx)
		sHi += math.Exp(o.Hi - mx)
	}
	if sLo == 0 || sHi == 0 {
		panic("postproc.Apply: softmax sum is zero")
	}

	offLo := -(math.Log(sHi) + mx)
	offHi := -(math.Log(sLo) + mx)

	for i, o := range m.Outputs {
		m.Outputs[i] = bound.Bound{
			Lo: math.Exp(offLo + o.Lo),
			Hi: math.Min(1, math.Exp(offHi+o.Hi)),
		}
	}
}

// applySigmoid applies sigma(x) = exp(x) / (1 + exp(x)) to every
// dimension. Sigmoid is monotonic, so it preserves interval order.
func applySigmoid(m *mapping.Mapping) {
	for i, o := range m.Outputs {
		m.Outputs[i] = bound.Bound{Lo: sigmoid(o.Lo), Hi: sigmoid(o.Hi)}
	}
}

func sigmoid(x bound.R) bound.R {
	e := math.Exp(x)
	return e / (1 + e)
}

// Stage builds a pipeline.Stage that applies kind/divisor to the
// incoming mapping and forwards the transformed mapping downstream,
// propagating its Outcome unchanged (spec.md §4.5: "After transforming,
// the stage forwards to the terminal user predicate and propagates its
// outcome unchanged"). The caller connects the terminal user-predicate
// stage downstream via pipeline.Connect.
func Stage(kind Kind, divisor int) *pipeline.Stage {
	return pipeline.New(func(self *pipeline.Stage) pipeline.OnInput {
		return func(m *mapping.Mapping) outcome.Outcome {
			Apply(kind, divisor, m)
			return pipeline.Output(self, m)
		}
	})
}
