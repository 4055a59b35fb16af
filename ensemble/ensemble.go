// Package ensemble implements the top-level verification driver
// (spec.md §4.6): it owns a set of trees and a post-processing kind, and
// wires refinery/abstractor/postproc stages into the two verification
// strategies spec.md describes — exact (Forall) and abstract-refine
// (AbsRef) — plus the Eval and Approximate conveniences built on top of
// them.
//
// Errors:
//
//	ErrNoTrees          - an Ensemble was constructed with zero trees.
//	ErrDimensionMismatch - the trees disagree on input/output dimension.
package ensemble

import (
	"errors"
	"fmt"
	"math"

	"github.com/lattisworks/vote/abstractor"
	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
	"github.com/lattisworks/vote/pipeline"
	"github.com/lattisworks/vote/postproc"
	"github.com/lattisworks/vote/refinery"
	"github.com/lattisworks/vote/tree"
)

// ErrNoTrees indicates an Ensemble was constructed with an empty tree
// slice. An ensemble with no trees has no well-defined output.
var ErrNoTrees = errors.New("ensemble: no trees")

// ErrDimensionMismatch indicates the trees passed to New disagree on
// input or output dimension.
var ErrDimensionMismatch = errors.New("ensemble: tree dimension mismatch")

// Ensemble is an ordered set of trees sharing one input/output
// dimension, plus the post-processing kind applied to their summed
// output (spec.md §3 "Ensemble").
type Ensemble struct {
	Trees       []*tree.Tree
	PostProcess postproc.Kind

	nIn, nOut int
}

// New validates trees and wraps them as an Ensemble with the given
// post-process kind.
//
// Complexity: O(len(trees)).
func New(trees []*tree.Tree, kind postproc.Kind) (*Ensemble, error) {
	if len(trees) == 0 {
		return nil, ErrNoTrees
	}
	nIn, nOut := trees[0].NIn(), trees[0].NOut()
	for i, t := range trees[1:] {
		if t.NIn() != nIn || t.NOut() != nOut {
			return nil, fmt.Errorf("ensemble.New: tree %d: %w", i+1, ErrDimensionMismatch)
		}
	}
	return &Ensemble{Trees: trees, PostProcess: kind, nIn: nIn, nOut: nOut}, nil
}

// NIn returns the ensemble's input dimension.
func (e *Ensemble) NIn() int { return e.nIn }

// NOut returns the ensemble's output dimension.
func (e *Ensemble) NOut() int { return e.nOut }

// NNodes returns the total node count across every tree.
func (e *Ensemble) NNodes() int {
	n := 0
	for _, t := range e.Trees {
		n += t.NNodes()
	}
	return n
}

// Predicate is the user-supplied terminal callback every driver
// eventually invokes with a fully post-processed mapping (spec.md §4.6:
// "the caller's predicate decides PASS, FAIL, or UNSURE").
type Predicate = pipeline.OnInput

func terminal(p Predicate) *pipeline.Stage {
	return pipeline.New(func(self *pipeline.Stage) pipeline.OnInput {
		return pipeline.OnInput(p)
	})
}

// Forall implements spec.md §4.6's exact driver: it chains a refinery
// per tree, in order, into the post-process stage and predicate, so
// every concrete leaf-combination across all trees is enumerated and
// checked. Forall reports true iff predicate held (PASS) for every
// enumerated mapping; any non-PASS anywhere short-circuits the whole
// walk.
//
// Complexity: O(product of each tree's reachable leaf count) worst
// case — this is the "exact but exponential" strategy spec.md warns
// against for large ensembles; see AbsRef for the practical default.
func Forall(e *Ensemble, inputs []bound.Bound, predicate Predicate) bool {
	head := postproc.Stage(e.PostProcess, len(e.Trees))
	if err := pipeline.Connect(head, terminal(predicate)); err != nil {
		panic(err)
	}

	for i := len(e.Trees) - 1; i >= 0; i-- {
		sink := head
		head = refinery.Pipeline(e.Trees[i])
		if err := pipeline.Connect(head, sink); err != nil {
			panic(err)
		}
	}

	m := mapping.New(e.NIn(), e.NOut())
	copy(m.Inputs, inputs)
	return pipeline.Input(head, m) == outcome.PASS
}

// AbsRef implements spec.md §4.6's abstract-refine driver: for each
// tree in order, an abstractor.Pipeline over that tree and every tree
// after it is chained ahead of that tree's own refinery, and every
// refinery chains into the next tree's abstractor. The last refinery
// chains into the shared post-process stage and predicate. Each
// abstractor widens the running output by its suffix's sound envelope
// and probes the predicate directly; only an UNSURE probe falls through
// to that tree's exact refinery.
//
// AbsRef and Forall agree on every input (spec.md testable property #4,
// "Equivalence"): AbsRef never reports true where Forall would report
// false, and visits no more leaves than Forall in the worst case, often
// far fewer.
//
// Complexity: O(sum of each tree's reachable leaf count) in the common
// case where most trees resolve via their abstractor probe alone.
func AbsRef(e *Ensemble, inputs []bound.Bound, predicate Predicate) bool {
	pp := postproc.Stage(e.PostProcess, len(e.Trees))
	if err := pipeline.Connect(pp, terminal(predicate)); err != nil {
		panic(err)
	}

	var head, tail *pipeline.Stage
	for i := range e.Trees {
		abs := abstractor.Pipeline(e.Trees[i:], pp)
		ref := refinery.Pipeline(e.Trees[i])
		if err := pipeline.Connect(abs, ref); err != nil {
			panic(err)
		}
		if tail != nil {
			if err := pipeline.Connect(tail, abs); err != nil {
				panic(err)
			}
		}
		if head == nil {
			head = abs
		}
		tail = ref
	}
	if err := pipeline.Connect(tail, pp); err != nil {
		panic(err)
	}

	m := mapping.New(e.NIn(), e.NOut())
	copy(m.Inputs, inputs)
	return pipeline.Input(head, m) == outcome.PASS
}

// Eval returns the ensemble's exact, post-processed output for a single
// concrete input vector (spec.md §4.6 "eval"), implemented as Forall
// over a degenerate box so every tree resolves to exactly one leaf and
// the post-processed result is precise (spec.md testable property #5).
//
// Complexity: same as Forall over a box with zero width in every
// dimension — one leaf per tree, so O(len(e.Trees)).
func Eval(e *Ensemble, inputs []bound.R) []bound.R {
	box := make([]bound.Bound, e.NIn())
	for i, x := range inputs {
		box[i] = bound.Point(x)
	}

	outputs := make([]bound.R, e.NOut())
	for i := range outputs {
		outputs[i] = math.NaN()
	}

	Forall(e, box, func(m *mapping.Mapping) outcome.Outcome {
		copy(outputs, mapping.Scalars(m))
		return outcome.PASS
	})

	return outputs
}

// Approximate returns the ensemble's sound output envelope over inputs
// using a single abstractor pass with no refinement at all (spec.md
// §4.6 "approximate"): cheaper and coarser than either driver, useful
// when the caller only wants a quick bound rather than a verified
// answer.
//
// Complexity: O(total node count across every tree).
func Approximate(e *Ensemble, inputs []bound.Bound) *mapping.Mapping {
	m := mapping.New(e.NIn(), e.NOut())
	copy(m.Inputs, inputs)

	pp := postproc.Stage(e.PostProcess, len(e.Trees))
	collect := pipeline.New(func(self *pipeline.Stage) pipeline.OnInput {
		return func(src *mapping.Mapping) outcome.Outcome {
			copy(m.Outputs, src.Outputs)
			return outcome.PASS
		}
	})
	if err := pipeline.Connect(pp, collect); err != nil {
		panic(err)
	}

	a := abstractor.Pipeline(e.Trees, pp)
	if err := pipeline.Connect(a, pp); err != nil {
		panic(err)
	}

	pipeline.Input(a, m)
	return m
}

// Counter counts how many times a Predicate is invoked. It is used by
// the cardinality operation (spec.md §6, "[SUPPLEMENT] cardinality") to
// report how many mappings a driver enumerated, without the predicate
// itself needing to know it is being counted.
type Counter struct {
	N int
}

// Wrap returns p wrapped so every call increments c.N before delegating
// to p.
func (c *Counter) Wrap(p Predicate) Predicate {
	return func(m *mapping.Mapping) outcome.Outcome {
		c.N++
		return p(m)
	}
}
