package render_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/ensemble"
	"github.com/lattisworks/vote/postproc"
	"github.com/lattisworks/vote/render"
	"github.com/lattisworks/vote/tree"
)

// splitOnX0 is spec.md S2's tree shape: two inputs (only x[0] used),
// two outputs, split x[0]<=0, leaves [1,0] and [0,1].
func splitOnX0(t *testing.T) *tree.Tree {
	t.Helper()
	tr, err := tree.New(
		2, 2,
		[]int{1, tree.Leaf, tree.Leaf},
		[]int{2, tree.Leaf, tree.Leaf},
		[]int{0, -1, -1},
		[]bound.R{0, 0, 0},
		[][]bound.R{{0, 0}, {1, 0}, {0, 1}},
		false,
	)
	require.NoError(t, err)
	return tr
}

func stumpEnsemble(t *testing.T) *ensemble.Ensemble {
	t.Helper()
	e, err := ensemble.New([]*tree.Tree{splitOnX0(t)}, postproc.None)
	require.NoError(t, err)
	return e
}

func TestCollectReturnsOneCellPerLeaf(t *testing.T) {
	e := stumpEnsemble(t)
	cells := render.Collect(e, []bound.Bound{
		{Lo: -1, Hi: 1},
		{Lo: -1, Hi: 1},
	})
	require.Len(t, cells, 2)
}

func TestPartitionProducesWellFormedSVG(t *testing.T) {
	e := stumpEnsemble(t)
	cells := render.Collect(e, []bound.Bound{
		{Lo: -1, Hi: 1},
		{Lo: -1, Hi: 1},
	})

	out, err := render.Partition(cells, render.DefaultOptions())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(bytes.TrimSpace(out), []byte("<?xml")))
	require.Contains(t, string(out), "<svg")
	require.Contains(t, string(out), "<rect")
	require.Contains(t, string(out), "</svg>")
}

func TestPartitionRejectsEmptyCells(t *testing.T) {
	_, err := render.Partition(nil, render.DefaultOptions())
	require.Error(t, err)
}

func TestPartitionRejectsOutOfRangeDimension(t *testing.T) {
	e := stumpEnsemble(t)
	cells := render.Collect(e, []bound.Bound{
		{Lo: -1, Hi: 1},
		{Lo: -1, Hi: 1},
	})

	opts := render.DefaultOptions()
	opts.XDim = 5
	_, err := render.Partition(cells, opts)
	require.Error(t, err)
}

func TestPartitionHandlesUnboundedCells(t *testing.T) {
	e := stumpEnsemble(t)
	cells := render.Collect(e, []bound.Bound{
		bound.Unbounded(),
		bound.Unbounded(),
	})

	out, err := render.Partition(cells, render.DefaultOptions())
	require.NoError(t, err)
	require.Contains(t, string(out), "<rect")
}

func TestPartitionWithTitleAndGrid(t *testing.T) {
	e := stumpEnsemble(t)
	cells := render.Collect(e, []bound.Bound{
		{Lo: -1, Hi: 1},
		{Lo: -1, Hi: 1},
	})

	opts := render.DefaultOptions()
	opts.Title = "partition"
	opts.ShowGrid = true
	out, err := render.Partition(cells, opts)
	require.NoError(t, err)
	require.Contains(t, string(out), "partition")
}
