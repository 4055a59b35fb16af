// Package tree implements the immutable, struct-of-arrays decision tree
// that the refinery and abstractor walk (spec.md §3 "Tree", §4.2).
//
// A Tree is read-only after construction: New validates every invariant
// once, up front, so the rest of the module can index into its slices
// without re-checking them on every traversal step.
package tree

import (
	"errors"
	"fmt"

	"github.com/lattisworks/vote/bound"
)

// Leaf is the sentinel child index marking a node as a leaf (spec.md §3:
// "< 0 denotes a leaf").
const Leaf = -1

// ErrMalformed wraps every invariant violation New detects. Callers
// branch with errors.Is(err, ErrMalformed); the wrapped message carries
// the specific reason (spec.md §7: "malformed model... fatal at load").
var ErrMalformed = errors.New("tree: malformed tree")

// Tree is an immutable binary decision tree in struct-of-arrays form.
// Node 0 is always the root. Split semantics: the left child covers
// x[Feature[i]] <= Threshold[i]; the right child covers
// x[Feature[i]] > Threshold[i].
type Tree struct {
	Left      []int
	Right     []int
	Feature   []int
	Threshold []bound.R
	Value     [][]bound.R
	Normalize bool

	nIn  int
	nOut int
}

// New constructs a Tree and validates every invariant in spec.md §3:
// node 0 is the root, the tree is acyclic, every node is either fully
// internal (both children >= 0) or a fully a leaf (both children < 0),
// and every leaf's value vector has exactly nOut entries.
//
// Complexity: O(nNodes) for validation plus the acyclicity walk, which
// visits each node exactly once.
func New(nIn, nOut int, left, right, feature []int, threshold []bound.R, value [][]bound.R, normalize bool) (*Tree, error) {
	n := len(left)
	if n == 0 {
		return nil, fmt.Errorf("tree.New: empty tree: %w", ErrMalformed)
	}
	if len(right) != n || len(feature) != n || len(threshold) != n || len(value) != n {
		return nil, fmt.Errorf("tree.New: array length mismatch: %w", ErrMalformed)
	}
	if nIn <= 0 || nOut <= 0 {
		return nil, fmt.Errorf("tree.New: nIn/nOut must be positive: %w", ErrMalformed)
	}

	for i := 0; i < n; i++ {
		isLeaf := left[i] < 0 || right[i] < 0
		if isLeaf {
			if left[i] >= 0 || right[i] >= 0 {
				return nil, fmt.Errorf("tree.New: node %d has exactly one negative child: %w", i, ErrMalformed)
			}
			if len(value[i]) != nOut {
				return nil, fmt.Errorf("tree.New: node %d leaf value has %d entries, want %d: %w", i, len(value[i]), nOut, ErrMalformed)
			}
		} else {
			if left[i] >= n || right[i] >= n {
				return nil, fmt.Errorf("tree.New: node %d child index out of range: %w", i, ErrMalformed)
			}
			if feature[i] < 0 || feature[i] >= nIn {
				return nil, fmt.Errorf("tree.New: node %d feature %d out of range: %w", i, feature[i], ErrMalformed)
			}
		}
	}

	t := &Tree{
		Left:      left,
		Right:     right,
		Feature:   feature,
		Threshold: threshold,
		Value:     value,
		Normalize: normalize,
		nIn:       nIn,
		nOut:      nOut,
	}

	if err := t.checkAcyclic(); err != nil {
		return nil, err
	}

	return t, nil
}

// checkAcyclic walks from the root with an explicit stack, rejecting any
// tree where a node is reachable via two distinct paths (which would
// make the recursive descent in refinery/abstractor non-terminating).
func (t *Tree) checkAcyclic() error {
	visited := make([]bool, t.NNodes())
	stack := []int{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id < 0 || id >= t.NNodes() {
			return fmt.Errorf("tree.New: node index %d out of range: %w", id, ErrMalformed)
		}
		if visited[id] {
			return fmt.Errorf("tree.New: node %d reachable via multiple paths: %w", id, ErrMalformed)
		}
		visited[id] = true
		if !t.IsLeaf(id) {
			stack = append(stack, t.Left[id], t.Right[id])
		}
	}
	return nil
}

// NIn returns the input dimension this tree was built against.
func (t *Tree) NIn() int { return t.nIn }

// NOut returns the output dimension this tree was built against.
func (t *Tree) NOut() int { return t.nOut }

// NNodes returns the number of nodes in the tree.
func (t *Tree) NNodes() int { return len(t.Left) }

// IsLeaf reports whether node id is a leaf.
//
// Complexity: O(1).
func (t *Tree) IsLeaf(id int) bool {
	return t.Left[id] < 0 || t.Right[id] < 0
}

// LeafValue returns node id's output vector, L1-normalized first if the
// tree's Normalize flag is set (spec.md §3, §9 "Normalization flag").
// LeafValue panics if id is not a leaf or, when Normalize is set, if the
// raw vector sums to zero — both are precondition violations per
// spec.md §7 ("arithmetic domain errors... would indicate an ill-formed
// model").
//
// Complexity: O(nOut).
func (t *Tree) LeafValue(id int) []bound.R {
	if !t.IsLeaf(id) {
		panic(fmt.Sprintf("tree.LeafValue: node %d is not a leaf", id))
	}
	v := make([]bound.R, len(t.Value[id]))
	copy(v, t.Value[id])
	if !t.Normalize {
		return v
	}
	var sum bound.R
	for _, x := range v {
		sum += x
	}
	if sum == 0 {
		panic("tree.LeafValue: normalize requested but leaf vector sums to zero")
	}
	for i := range v {
		v[i] /= sum
	}
	return v
}
