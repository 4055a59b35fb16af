// Package abstractor implements the sound per-tree and multi-tree join
// (spec.md §4.4): a closed-form over-approximation of a tree's (or a
// suffix of an ensemble's) output envelope over an input box, computed
// without enumerating leaves.
//
// Two distinct combination rules are in play here, and mixing them up
// silently produces an unsound envelope:
//
//   - Within one tree, a box may reach several leaves; only one of them
//     is the tree's actual output for any concrete input. The envelope
//     over those alternatives is a union, so reachable leaf values are
//     combined with bound.Join.
//   - Across trees, an ensemble's output is the sum of every tree's
//     actual contribution. The envelope over that sum is a Minkowski
//     sum of the per-tree envelopes, so JoinTrees combines them with
//     bound.Add, not Join.
//
// Errors: none. Abstractor never rejects a box; every tree it walks was
// already validated by tree.New (spec.md §7).
package abstractor

import (
	"math"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
	"github.com/lattisworks/vote/pipeline"
	"github.com/lattisworks/vote/tree"
)

// JoinTree returns t's sound output envelope over inputs: the union,
// dimension by dimension, of every leaf value t could produce for some
// concrete point inside inputs.
//
// Complexity: O(nNodes * nOut) worst case (a box straddling every
// threshold reaches every leaf); typically far fewer nodes are visited.
func JoinTree(t *tree.Tree, inputs []bound.Bound) []bound.Bound {
	out := make([]bound.Bound, t.NOut())
	for i := range out {
		out[i] = bound.Bound{Lo: math.Inf(1), Hi: math.Inf(-1)}
	}
	joinDescend(t, 0, inputs, out)
	return out
}

// joinDescend walks node id of t, widening out to cover every leaf value
// reachable under inputs. Both children may be descended into at an
// internal node (spec.md §4.4: "a box may straddle the split"); at least
// one always is, since inputs is itself a valid, non-empty box.
func joinDescend(t *tree.Tree, id int, inputs []bound.Bound, out []bound.Bound) {
	if t.IsLeaf(id) {
		v := t.LeafValue(id)
		for i, x := range v {
			out[i] = bound.Bound{Lo: math.Min(out[i].Lo, x), Hi: math.Max(out[i].Hi, x)}
		}
		return
	}

	dim := t.Feature[id]
	threshold := t.Threshold[id]
	if inputs[dim].Lo <= threshold {
		joinDescend(t, t.Left[id], inputs, out)
	}
	if inputs[dim].Hi > threshold {
		joinDescend(t, t.Right[id], inputs, out)
	}
}

// JoinTrees returns the sound envelope of the sum of trees' outputs over
// inputs: the Minkowski sum of each tree's own JoinTree envelope
// (spec.md §4.4, "multi-tree join"). nOut is the ensemble's output
// dimension, needed even when trees is empty.
//
// Complexity: O(sum of each tree's JoinTree cost).
func JoinTrees(trees []*tree.Tree, inputs []bound.Bound, nOut int) []bound.Bound {
	out := make([]bound.Bound, nOut)
	for i := range out {
		out[i] = bound.Zero()
	}
	for _, t := range trees {
		te := JoinTree(t, inputs)
		for i := range out {
			out[i] = bound.Add(out[i], te[i])
		}
	}
	return out
}

// Pipeline builds the absref probe stage for trees (spec.md §4.6
// "abstract-refine"): given an incoming mapping whose Outputs already
// hold the exact sum contributed by the trees processed so far, it adds
// the sound envelope of trees' remaining contribution, probes that
// widened mapping through probe (the ensemble's post-process stage,
// itself connected to the user predicate), and:
//
//   - if probe's outcome is conclusive (PASS or FAIL), returns it
//     directly, skipping per-leaf refinement for every tree in trees;
//   - if probe's outcome is UNSURE, forwards the original, unwidened
//     mapping to whatever is Connected downstream — the paired
//     refinery for trees[0], which will itself recurse into an
//     abstractor over trees[1:] once it reaches a leaf.
//
// probe is held directly, not via Connect: it is the target of the
// speculative widen-and-check, not the next stage in the chain this
// Stage forwards unwidened mappings to.
func Pipeline(trees []*tree.Tree, probe *pipeline.Stage) *pipeline.Stage {
	return pipeline.New(func(self *pipeline.Stage) pipeline.OnInput {
		return func(m *mapping.Mapping) outcome.Outcome {
			envelope := JoinTrees(trees, m.Inputs, m.NOut())

			widened := &mapping.Mapping{
				Inputs:  m.Inputs,
				Outputs: make([]bound.Bound, m.NOut()),
			}
			for i, o := range m.Outputs {
				widened.Outputs[i] = bound.Add(o, envelope[i])
			}

			o := pipeline.Input(probe, widened)
			if o.Conclusive() {
				return o
			}
			return pipeline.Output(self, m)
		}
	})
}
