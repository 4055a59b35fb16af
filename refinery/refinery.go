// Package refinery implements the exact per-tree partition expander
// (spec.md §4.3): given an input box, it enumerates every reachable leaf
// and emits one precise-per-tree mapping downstream for each.
//
// Errors: none. A malformed tree is rejected at tree.New time, before a
// refinery.Pipeline is ever built over it (spec.md §7).
package refinery

import (
	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
	"github.com/lattisworks/vote/pipeline"
	"github.com/lattisworks/vote/tree"
)

// Pipeline builds a pipeline.Stage that walks t for each incoming
// mapping, emitting one mapping per reachable leaf into the stage
// Connected downstream, and returns PASS iff every emission's downstream
// Outcome was PASS (spec.md §4.3: "the overall refinery outcome is the
// conjunction of downstream outcomes using short-circuit semantics").
//
// Complexity: O(leaves reached * (nIn + nOut)) per call, bounded above
// by O(nNodes * (nIn + nOut)).
func Pipeline(t *tree.Tree) *pipeline.Stage {
	return pipeline.New(func(self *pipeline.Stage) pipeline.OnInput {
		return func(m *mapping.Mapping) outcome.Outcome {
			if descend(t, self, 0, m) {
				return outcome.PASS
			}
			return outcome.FAIL
		}
	})
}

// descend walks node id of t for mapping m, emitting a mapping per
// reached leaf into self's downstream stage. It returns true iff every
// emission's downstream Outcome was PASS; any non-PASS (FAIL or UNSURE)
// halts enumeration immediately and returns false, matching spec.md
// §4.3 step 3 and §9's note that UNSURE is folded into "continue or
// fail" once it crosses the refinery boundary.
func descend(t *tree.Tree, self *pipeline.Stage, id int, m *mapping.Mapping) bool {
	if t.IsLeaf(id) {
		value := t.LeafValue(id)
		for i, v := range value {
			m.Outputs[i] = m.Outputs[i].Shifted(v)
		}
		return pipeline.Output(self, m) == outcome.PASS
	}

	dim := t.Feature[id]
	threshold := t.Threshold[id]
	leftWidth := threshold - m.Inputs[dim].Lo
	rightWidth := m.Inputs[dim].Hi - threshold

	// Descend into the narrower child first: an earlier failure there
	// short-circuits the wider sibling (spec.md §4.3 step 2, "heuristic
	// for earlier failure / better cache locality").
	if leftWidth < rightWidth {
		return descendLeftFirst(t, self, id, m)
	}
	return descendRightFirst(t, self, id, m)
}

// descendLeftFirst explores [lo, threshold] before (threshold, hi].
func descendLeftFirst(t *tree.Tree, self *pipeline.Stage, id int, m *mapping.Mapping) bool {
	dim := t.Feature[id]
	threshold := t.Threshold[id]
	leftID, rightID := t.Left[id], t.Right[id]

	if m.Inputs[dim].Lo <= threshold {
		msplit := mapping.Copy(m)
		if msplit.Inputs[dim].Hi > threshold {
			msplit.Inputs[dim].Hi = threshold
		}
		if !descend(t, self, leftID, msplit) {
			return false
		}
	}

	if m.Inputs[dim].Hi > threshold {
		if m.Inputs[dim].Lo <= threshold {
			m.Inputs[dim].Lo = bound.NextAfter(threshold)
		}
		return descend(t, self, rightID, m)
	}
	return true
}

// descendRightFirst explores (threshold, hi] before [lo, threshold].
func descendRightFirst(t *tree.Tree, self *pipeline.Stage, id int, m *mapping.Mapping) bool {
	dim := t.Feature[id]
	threshold := t.Threshold[id]
	leftID, rightID := t.Left[id], t.Right[id]

	if m.Inputs[dim].Hi > threshold {
		msplit := mapping.Copy(m)
		if msplit.Inputs[dim].Lo <= threshold {
			msplit.Inputs[dim].Lo = bound.NextAfter(threshold)
		}
		if !descend(t, self, rightID, msplit) {
			return false
		}
	}

	if m.Inputs[dim].Lo <= threshold {
		if m.Inputs[dim].Hi > threshold {
			m.Inputs[dim].Hi = threshold
		}
		return descend(t, self, leftID, m)
	}
	return true
}
