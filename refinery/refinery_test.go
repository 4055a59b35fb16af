package refinery_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
	"github.com/lattisworks/vote/pipeline"
	"github.com/lattisworks/vote/refinery"
	"github.com/lattisworks/vote/tree"
)

// stump is spec.md S1/S4: one input, split x <= 0.5, leaves [0.0], [1.0].
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

func collectTerminal(dst *[]*mapping.Mapping) *pipeline.Stage {
	return pipeline.New(func(self *pipeline.Stage) pipeline.OnInput {
		return func(m *mapping.Mapping) outcome.Outcome {
			*dst = append(*dst, mapping.Copy(m))
			return outcome.PASS
		}
	})
}

// TestEmitsOnePreciseMappingPerLeaf is spec.md S4: a single-leaf (or, as
// exercised here, a two-leaf) tree over [a,b] emits exactly the expected
// number of precise mappings whose outputs equal the leaf values.
func TestEmitsOnePreciseMappingPerLeaf(t *testing.T) {
	tr := stump(t)
	var emitted []*mapping.Mapping
	term := collectTerminal(&emitted)
	head := refinery.Pipeline(tr)
	require.NoError(t, pipeline.Connect(head, term))

	m := mapping.New(1, 1)
	m.Inputs[0] = bound.Bound{Lo: -1, Hi: 1}
	got := pipeline.Input(head, m)

	require.Equal(t, outcome.PASS, got)
	require.Len(t, emitted, 2)

	for _, e := range emitted {
		require.True(t, mapping.Precise(e))
	}
	require.ElementsMatch(t, []bound.R{0, 1}, []bound.R{emitted[0].Outputs[0].Lo, emitted[1].Outputs[0].Lo})
}

// TestPartitionIsDisjointAndComplete is spec.md testable property #1:
// emitted input boxes are pairwise disjoint and their union covers the
// original box.
func TestPartitionIsDisjointAndComplete(t *testing.T) {
	tr := stump(t)
	var emitted []*mapping.Mapping
	term := collectTerminal(&emitted)
	head := refinery.Pipeline(tr)
	require.NoError(t, pipeline.Connect(head, term))

	m := mapping.New(1, 1)
	m.Inputs[0] = bound.Bound{Lo: 0, Hi: 1}
	pipeline.Input(head, m)

	require.Len(t, emitted, 2)
	boxes := []bound.Bound{emitted[0].Inputs[0], emitted[1].Inputs[0]}
	if boxes[0].Lo > boxes[1].Lo {
		boxes[0], boxes[1] = boxes[1], boxes[0]
	}

	require.Equal(t, bound.R(0), boxes[0].Lo)
	require.Equal(t, bound.R(1), boxes[1].Hi)

	// Disjoint: the two emitted boxes must not overlap (the next-after
	// adjustment on the right branch makes this strict).
	require.Less(t, boxes[0].Hi, boxes[1].Lo)
}

// TestEvalPrecisionS1 mirrors spec.md S1's eval checks: a point strictly
// inside the left leaf's region evaluates to 0.0, and a point in the
// right region evaluates to 1.0.
func TestEvalPrecisionS1(t *testing.T) {
	tr := stump(t)

	eval := func(x bound.R) bound.R {
		var got *mapping.Mapping
		term := pipeline.New(func(self *pipeline.Stage) pipeline.OnInput {
			return func(m *mapping.Mapping) outcome.Outcome {
				got = m
				return outcome.PASS
			}
		})
		head := refinery.Pipeline(tr)
		require.NoError(t, pipeline.Connect(head, term))
		m := mapping.New(1, 1)
		m.Inputs[0] = bound.Point(x)
		pipeline.Input(head, m)
		require.True(t, mapping.Precise(got))
		return got.Outputs[0].Lo
	}

	require.Equal(t, bound.R(0), eval(0.3))
	require.Equal(t, bound.R(1), eval(0.7))
}

// TestShortCircuitStopsEnumeration is spec.md testable property #7: once
// the downstream predicate returns FAIL, no further leaves are visited.
func TestShortCircuitStopsEnumeration(t *testing.T) {
	tr := stump(t)
	visits := 0
	term := pipeline.New(func(self *pipeline.Stage) pipeline.OnInput {
		return func(m *mapping.Mapping) outcome.Outcome {
			visits++
			return outcome.FAIL
		}
	})
	head := refinery.Pipeline(tr)
	require.NoError(t, pipeline.Connect(head, term))

	m := mapping.New(1, 1)
	m.Inputs[0] = bound.Bound{Lo: 0, Hi: 1}
	got := pipeline.Input(head, m)

	require.Equal(t, outcome.FAIL, got)
	require.Equal(t, 1, visits)
}

