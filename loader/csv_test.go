package loader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/loader"
)

func TestReadCSVSkipsCommentsAndSplitsLabel(t *testing.T) {
	data := "# feature1,feature2,label\n1.0,2.0,0\n3.5,-4.5,1\n"
	ds, err := loader.ReadCSV(strings.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, [][]bound.R{{1.0, 2.0}, {3.5, -4.5}}, ds.Features)
	require.Equal(t, []bound.R{0, 1}, ds.Labels)
}

func TestReadCSVRejectsNonNumeric(t *testing.T) {
	_, err := loader.ReadCSV(strings.NewReader("1.0,not-a-number,0\n"))
	require.Error(t, err)
}

func TestReadCSVQuotedCells(t *testing.T) {
	ds, err := loader.ReadCSV(strings.NewReader(`"1.0","2.0","3"` + "\n"))
	require.NoError(t, err)
	require.Equal(t, [][]bound.R{{1.0, 2.0}}, ds.Features)
	require.Equal(t, []bound.R{3}, ds.Labels)
}
