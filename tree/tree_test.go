package tree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/tree"
)

// stump builds the spec.md S1 tree: one input, split x <= 0.5, leaves
// [0.0] and [1.0].
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

func TestNewStump(t *testing.T) {
	tr := stump(t)
	require.Equal(t, 3, tr.NNodes())
	require.False(t, tr.IsLeaf(0))
	require.True(t, tr.IsLeaf(1))
	require.True(t, tr.IsLeaf(2))
	require.Equal(t, []bound.R{0}, tr.LeafValue(1))
	require.Equal(t, []bound.R{1}, tr.LeafValue(2))
}

func TestNewRejectsMismatchedChildren(t *testing.T) {
	_, err := tree.New(
		1, 1,
		[]int{1},
		[]int{tree.Leaf},
		[]int{0},
		[]bound.R{0.5},
		[][]bound.R{{0}},
		false,
	)
	require.ErrorIs(t, err, tree.ErrMalformed)
}

func TestNewRejectsCycle(t *testing.T) {
	_, err := tree.New(
		1, 1,
		[]int{1, 0},
		[]int{1, 0},
		[]int{0, 0},
		[]bound.R{0.5, 0.5},
		[][]bound.R{{0}, {0}},
		false,
	)
	require.ErrorIs(t, err, tree.ErrMalformed)
}

func TestNewRejectsFeatureOutOfRange(t *testing.T) {
	_, err := tree.New(
		1, 1,
		[]int{1, tree.Leaf, tree.Leaf},
		[]int{2, tree.Leaf, tree.Leaf},
		[]int{5, -1, -1},
		[]bound.R{0.5, 0, 0},
		[][]bound.R{{0}, {0}, {1}},
		false,
	)
	require.ErrorIs(t, err, tree.ErrMalformed)
}

func TestLeafValueNormalizes(t *testing.T) {
	tr, err := tree.New(
		1, 2,
		[]int{tree.Leaf},
		[]int{tree.Leaf},
		[]int{-1},
		[]bound.R{0},
		[][]bound.R{{1, 3}},
		true,
	)
	require.NoError(t, err)
	require.Equal(t, []bound.R{0.25, 0.75}, tr.LeafValue(0))
}

func TestLeafValuePanicsOnNonLeaf(t *testing.T) {
	tr := stump(t)
	require.Panics(t, func() { tr.LeafValue(0) })
}

func TestLeafValuePanicsOnZeroSumNormalize(t *testing.T) {
	tr, err := tree.New(
		1, 2,
		[]int{tree.Leaf},
		[]int{tree.Leaf},
		[]int{-1},
		[]bound.R{0},
		[][]bound.R{{1, -1}},
		true,
	)
	require.NoError(t, err)
	require.Panics(t, func() { tr.LeafValue(0) })
}
