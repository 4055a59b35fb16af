package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lattisworks/vote/bound"
)

// Dataset is a decoded CSV dataset: Features holds every row's leading
// columns, Labels holds each row's final column (spec.md §6, "final
// column is the label for classification datasets").
type Dataset struct {
	Features [][]bound.R
	Labels   []bound.R
}

// ReadCSV decodes a comma-delimited dataset (spec.md §6): '#'-prefixed
// lines are comments and are skipped, every remaining row is parsed as
// numeric cells, and no header row is required or assumed.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("loader.ReadCSV: %w", err)
	}

	ds := &Dataset{
		Features: make([][]bound.R, 0, len(rows)),
		Labels:   make([]bound.R, 0, len(rows)),
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		values := make([]bound.R, len(row))
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("loader.ReadCSV: row %d column %d: %w", i, j, err)
			}
			values[j] = v
		}
		ds.Features = append(ds.Features, values[:len(values)-1])
		ds.Labels = append(ds.Labels, values[len(values)-1])
	}

	return ds, nil
}
