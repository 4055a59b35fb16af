// Package loader implements the external model/dataset formats spec.md
// §6 specifies as "standard plumbing" outside the verification core:
// the native JSON ensemble format, the legacy XGBoost binary tree dump,
// and the CSV dataset reader.
//
// Errors: every Decode/Read function returns a wrapped error on a
// malformed input rather than panicking — these are boundary functions
// consuming untrusted files (spec.md §7, "malformed model: fatal at
// load, caller receives a null/absent handle").
package loader

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/ensemble"
	"github.com/lattisworks/vote/postproc"
	"github.com/lattisworks/vote/tree"
)

// treeDoc is the on-the-wire shape of one tree in the native JSON
// format (spec.md §6).
type treeDoc struct {
	NbInputs  int         `json:"nb_inputs"`
	NbOutputs int         `json:"nb_outputs"`
	Normalize bool        `json:"normalize,omitempty"`
	Left      []int       `json:"left"`
	Right     []int       `json:"right"`
	Feature   []int       `json:"feature"`
	Threshold []bound.R   `json:"threshold"`
	Value     [][]bound.R `json:"value"`
}

// ensembleDoc is the on-the-wire shape of the native JSON ensemble
// format's root object (spec.md §6).
type ensembleDoc struct {
	PostProcess string    `json:"post_process"`
	Trees       []treeDoc `json:"trees"`
}

// postProcessFromString maps the JSON format's post_process string to a
// postproc.Kind, per spec.md §6.
func postProcessFromString(s string) (postproc.Kind, error) {
	switch s {
	case "none":
		return postproc.None, nil
	case "divisor":
		return postproc.Divisor, nil
	case "softmax":
		return postproc.Softmax, nil
	case "sigmoid":
		return postproc.Sigmoid, nil
	default:
		return postproc.None, fmt.Errorf("loader: unknown post_process %q", s)
	}
}

func postProcessToString(k postproc.Kind) string {
	switch k {
	case postproc.Divisor:
		return "divisor"
	case postproc.Softmax:
		return "softmax"
	case postproc.Sigmoid:
		return "sigmoid"
	default:
		return "none"
	}
}

// DecodeJSON reads the native JSON ensemble format from r (spec.md §6).
func DecodeJSON(r io.Reader) (*ensemble.Ensemble, error) {
	var doc ensembleDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("loader.DecodeJSON: %w", err)
	}

	kind, err := postProcessFromString(doc.PostProcess)
	if err != nil {
		return nil, fmt.Errorf("loader.DecodeJSON: %w", err)
	}

	trees := make([]*tree.Tree, len(doc.Trees))
	for i, td := range doc.Trees {
		t, err := tree.New(td.NbInputs, td.NbOutputs, td.Left, td.Right, td.Feature, td.Threshold, td.Value, td.Normalize)
		if err != nil {
			return nil, fmt.Errorf("loader.DecodeJSON: tree %d: %w", i, err)
		}
		trees[i] = t
	}

	e, err := ensemble.New(trees, kind)
	if err != nil {
		return nil, fmt.Errorf("loader.DecodeJSON: %w", err)
	}
	return e, nil
}

// EncodeJSON writes e to w in the native JSON ensemble format. It is
// used by the xgbconv tool to re-encode a decoded XGBoost dump as the
// native format (spec.md §6, §[SUPPLEMENT] G.1).
func EncodeJSON(w io.Writer, e *ensemble.Ensemble) error {
	doc := ensembleDoc{
		PostProcess: postProcessToString(e.PostProcess),
		Trees:       make([]treeDoc, len(e.Trees)),
	}
	for i, t := range e.Trees {
		values := make([][]bound.R, t.NNodes())
		for j := range values {
			if t.IsLeaf(j) {
				values[j] = t.Value[j]
			} else {
				values[j] = make([]bound.R, t.NOut())
			}
		}
		doc.Trees[i] = treeDoc{
			NbInputs:  t.NIn(),
			NbOutputs: t.NOut(),
			Normalize: t.Normalize,
			Left:      t.Left,
			Right:     t.Right,
			Feature:   t.Feature,
			Threshold: t.Threshold,
			Value:     values,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("loader.EncodeJSON: %w", err)
	}
	return nil
}
