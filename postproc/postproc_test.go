package postproc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
	"github.com/lattisworks/vote/pipeline"
	"github.com/lattisworks/vote/postproc"
)

func terminal(t *testing.T, capture **mapping.Mapping) *pipeline.Stage {
	t.Helper()
	return pipeline.New(func(self *pipeline.Stage) pipeline.OnInput {
		return func(m *mapping.Mapping) outcome.Outcome {
			*capture = m
			return outcome.PASS
		}
	})
}

func TestApplyNone(t *testing.T) {
	m := &mapping.Mapping{Outputs: []bound.Bound{{Lo: 1, Hi: 2}}}
	postproc.Apply(postproc.None, 0, m)
	require.Equal(t, bound.Bound{Lo: 1, Hi: 2}, m.Outputs[0])
}

func TestApplyDivisor(t *testing.T) {
	m := &mapping.Mapping{Outputs: []bound.Bound{{Lo: 2, Hi: 4}}}
	postproc.Apply(postproc.Divisor, 2, m)
	require.Equal(t, bound.Bound{Lo: 1, Hi: 2}, m.Outputs[0])
}

func TestApplyDivisorPanicsOnZero(t *testing.T) {
	m := &mapping.Mapping{Outputs: []bound.Bound{{Lo: 2, Hi: 4}}}
	require.Panics(t, func() { postproc.Apply(postproc.Divisor, 0, m) })
}

// TestApplySoftmaxSoundness is spec.md S3: for any input box,
// approximate(box).outputs[i] in [0,1] and sum(lo) <= 1 <= sum(hi).
func TestApplySoftmaxSoundness(t *testing.T) {
	m := &mapping.Mapping{Outputs: []bound.Bound{{Lo: -1, Hi: 1}, {Lo: 0, Hi: 2}}}
	postproc.Apply(postproc.Softmax, 0, m)

	var sumLo, sumHi bound.R
	for _, o := range m.Outputs {
		require.GreaterOrEqual(t, o.Lo, 0.0)
		require.LessOrEqual(t, o.Hi, 1.0)
		sumLo += o.Lo
		sumHi += o.Hi
	}
	require.LessOrEqual(t, sumLo, 1.0+1e-9)
	require.GreaterOrEqual(t, sumHi, 1.0-1e-9)
}

func TestApplySoftmaxPrecisePoint(t *testing.T) {
	// A precise mapping (lo==hi per dim) must softmax to the standard,
	// precise softmax value: both bounds collapse onto the same number.
	m := &mapping.Mapping{Outputs: []bound.Bound{{Lo: 1, Hi: 1}, {Lo: 2, Hi: 2}, {Lo: 3, Hi: 3}}}
	postproc.Apply(postproc.Softmax, 0, m)

	want := []bound.R{
		math.Exp(1) / (math.Exp(1) + math.Exp(2) + math.Exp(3)),
		math.Exp(2) / (math.Exp(1) + math.Exp(2) + math.Exp(3)),
		math.Exp(3) / (math.Exp(1) + math.Exp(2) + math.Exp(3)),
	}
	for i, o := range m.Outputs {
		require.InDelta(t, want[i], o.Lo, 1e-9)
		require.InDelta(t, want[i], o.Hi, 1e-9)
	}
}

func TestApplySigmoidMonotonic(t *testing.T) {
	m := &mapping.Mapping{Outputs: []bound.Bound{{Lo: -1, Hi: 1}}}
	postproc.Apply(postproc.Sigmoid, 0, m)
	require.Less(t, m.Outputs[0].Lo, m.Outputs[0].Hi)
	require.GreaterOrEqual(t, m.Outputs[0].Lo, 0.0)
	require.LessOrEqual(t, m.Outputs[0].Hi, 1.0)
}

func TestStageForwardsAndPropagatesOutcome(t *testing.T) {
	var captured *mapping.Mapping
	term := terminal(t, &captured)
	stage := postproc.Stage(postproc.Divisor, 2)
	require.NoError(t, pipeline.Connect(stage, term))

	m := &mapping.Mapping{Outputs: []bound.Bound{{Lo: 4, Hi: 6}}}
	got := pipeline.Input(stage, m)
	require.Equal(t, outcome.PASS, got)
	require.Equal(t, bound.Bound{Lo: 2, Hi: 3}, captured.Outputs[0])
}
