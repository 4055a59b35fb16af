package abstractor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattisworks/vote/abstractor"
	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
	"github.com/lattisworks/vote/pipeline"
	"github.com/lattisworks/vote/tree"
)

// stump is the same one-input, x<=0.5 split tree used across the
// refinery tests: leaves [0.0] and [1.0].
func stump(t *testing.T) *tree.Tree {
	t.Helper()
	tr, err := tree.New(
		1, 1,
		[]int{1, tree.Leaf, tree.Leaf},
		[]int{2, tree.Leaf, tree.Leaf},
		[]int{0, -1, -1},
		[]bound.R{0.5, 0, 0},
		[][]bound.R{{0}, {0}, {1}},
		false,
	)
	require.NoError(t, err)
	return tr
}

// twoOut is a tree with a two-dimensional output, used to exercise
// multi-dimension joins: leaves [1,10] and [2,20].
func twoOut(t *testing.T) *tree.Tree {
	t.Helper()
	tr, err := tree.New(
		1, 2,
		[]int{1, tree.Leaf, tree.Leaf},
		[]int{2, tree.Leaf, tree.Leaf},
		[]int{0, -1, -1},
		[]bound.R{0.5, 0, 0},
		[][]bound.R{{0, 0}, {1, 10}, {2, 20}},
		false,
	)
	require.NoError(t, err)
	return tr
}

// TestJoinTreeStraddlingBoxCoversBothLeaves is spec.md testable property
// #2 (soundness), specialized to a box that straddles the split: the
// envelope must cover both leaves' values, not just one.
func TestJoinTreeStraddlingBoxCoversBothLeaves(t *testing.T) {
	tr := stump(t)
	env := abstractor.JoinTree(tr, []bound.Bound{{Lo: 0, Hi: 1}})
	require.Len(t, env, 1)
	require.Equal(t, bound.R(0), env[0].Lo)
	require.Equal(t, bound.R(1), env[0].Hi)
}

// TestJoinTreePreciseBoxIsExact is spec.md testable property #2 applied
// to a single concrete point: the envelope over a degenerate box must
// equal that leaf's exact value (zero-width).
func TestJoinTreePreciseBoxIsExact(t *testing.T) {
	tr := stump(t)

	left := abstractor.JoinTree(tr, []bound.Bound{bound.Point(0.3)})
	require.Equal(t, bound.Point(0), left[0])

	right := abstractor.JoinTree(tr, []bound.Bound{bound.Point(0.7)})
	require.Equal(t, bound.Point(1), right[0])
}

// TestJoinTreeMultiDimension exercises a leaf value with more than one
// output dimension, confirming each dimension is joined independently.
func TestJoinTreeMultiDimension(t *testing.T) {
	tr := twoOut(t)
	env := abstractor.JoinTree(tr, []bound.Bound{{Lo: 0, Hi: 1}})
	require.Equal(t, bound.Bound{Lo: 1, Hi: 2}, env[0])
	require.Equal(t, bound.Bound{Lo: 10, Hi: 20}, env[1])
}

// TestJoinTreesSumsAcrossTrees is spec.md §4.4's multi-tree join: the
// envelope of two trees' combined contribution is the Minkowski sum of
// their individual envelopes, not their union.
func TestJoinTreesSumsAcrossTrees(t *testing.T) {
	a := stump(t) // leaves {0}, {1} over x<=0.5
	b := stump(t) // same shape, same leaves

	env := abstractor.JoinTrees([]*tree.Tree{a, b}, []bound.Bound{{Lo: 0, Hi: 1}}, 1)
	require.Len(t, env, 1)
	// Each tree independently spans [0,1]; summed, the envelope must
	// span [0,2], not [0,1].
	require.Equal(t, bound.R(0), env[0].Lo)
	require.Equal(t, bound.R(2), env[0].Hi)
}

// TestJoinTreesEmptySliceIsZero covers the suffix-abstractor's final
// call (no trees remain to contribute), which must widen nothing.
func TestJoinTreesEmptySliceIsZero(t *testing.T) {
	env := abstractor.JoinTrees(nil, []bound.Bound{{Lo: 0, Hi: 1}}, 2)
	require.Equal(t, []bound.Bound{bound.Zero(), bound.Zero()}, env)
}

// stubProbe returns a pipeline.Stage that always yields want, recording
// the mapping it was called with.
func stubProbe(want outcome.Outcome, captured **mapping.Mapping) *pipeline.Stage {
	return pipeline.New(func(self *pipeline.Stage) pipeline.OnInput {
		return func(m *mapping.Mapping) outcome.Outcome {
			*captured = m
			return want
		}
	})
}

// TestPipelineShortCircuitsOnConclusiveProbe is spec.md §4.4 step 3: a
// conclusive probe outcome (PASS or FAIL) is returned directly, without
// ever reaching the Connected downstream refinery.
func TestPipelineShortCircuitsOnConclusiveProbe(t *testing.T) {
	for _, want := range []outcome.Outcome{outcome.PASS, outcome.FAIL} {
		var probed *mapping.Mapping
		probe := stubProbe(want, &probed)

		downstreamVisits := 0
		downstream := pipeline.New(func(self *pipeline.Stage) pipeline.OnInput {
			return func(m *mapping.Mapping) outcome.Outcome {
				downstreamVisits++
				return outcome.PASS
			}
		})

		tr := stump(t)
		stage := abstractor.Pipeline([]*tree.Tree{tr}, probe)
		require.NoError(t, pipeline.Connect(stage, downstream))

		m := mapping.New(1, 1)
		m.Inputs[0] = bound.Bound{Lo: 0, Hi: 1}
		got := pipeline.Input(stage, m)

		require.Equal(t, want, got)
		require.Equal(t, 0, downstreamVisits)
		require.NotNil(t, probed)
		// The probe must see the widened envelope, not the caller's
		// original (still-zero) output bound.
		require.Equal(t, bound.R(0), probed.Outputs[0].Lo)
		require.Equal(t, bound.R(1), probed.Outputs[0].Hi)
	}
}

// TestPipelineForwardsOriginalMappingOnUnsure is spec.md §4.4 step 3's
// other branch: an UNSURE probe outcome forwards the original,
// unwidened mapping downstream, and the stage returns whatever the
// downstream stage returns.
func TestPipelineForwardsOriginalMappingOnUnsure(t *testing.T) {
	var probed *mapping.Mapping
	probe := stubProbe(outcome.UNSURE, &probed)

	var forwarded *mapping.Mapping
	downstream := pipeline.New(func(self *pipeline.Stage) pipeline.OnInput {
		return func(m *mapping.Mapping) outcome.Outcome {
			forwarded = m
			return outcome.FAIL
		}
	})

	tr := stump(t)
	stage := abstractor.Pipeline([]*tree.Tree{tr}, probe)
	require.NoError(t, pipeline.Connect(stage, downstream))

	m := mapping.New(1, 1)
	m.Inputs[0] = bound.Bound{Lo: 0, Hi: 1}
	got := pipeline.Input(stage, m)

	require.Equal(t, outcome.FAIL, got)
	require.Same(t, m, forwarded)
	// The original mapping's Outputs must be untouched by the probe's
	// widening.
	require.Equal(t, bound.Zero(), m.Outputs[0])
}
