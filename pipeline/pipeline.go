// Package pipeline implements the staged, callback-style chain that
// every verification call runs through (spec.md §3 "Pipeline stage",
// §9 design note).
//
// The source expresses this as nested callback contexts, each stage
// capturing its downstream peer by function pointer. spec.md §9 sanctions
// either a tagged-variant stage or composable closures for the target
// language; this implementation uses closures, since Go's first-class
// functions make the callback chain direct without a manual vtable.
//
// Errors:
//
//	ErrAlreadyConnected - Connect called twice on the same Stage.
//	ErrNotConnected     - Output called on a Stage with no next Stage.
package pipeline

import (
	"errors"

	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
)

// ErrAlreadyConnected indicates Connect was called on a Stage that
// already has a downstream peer.
var ErrAlreadyConnected = errors.New("pipeline: stage already connected")

// ErrNotConnected indicates Output was called on a Stage with no
// downstream peer linked via Connect.
var ErrNotConnected = errors.New("pipeline: stage not connected")

// OnInput is the shape every stage implements: consume one mapping,
// optionally emit zero or more mappings into the downstream stage, and
// return an aggregate Outcome derived from what the downstream stage(s)
// returned.
type OnInput func(m *mapping.Mapping) outcome.Outcome

// Stage is one link in a verification chain. It is constructed by the
// ensemble driver, linked once via Connect, invoked recursively during
// verification, and discarded as a chain once the call returns
// (spec.md §3, "Lifecycle").
type Stage struct {
	onInput OnInput
	next    *Stage
}

// New wraps onInput as a Stage. onInput may call Output on the Stage
// returned here (the Stage closes over itself once constructed) to
// forward to whatever gets Connected downstream.
func New(build func(self *Stage) OnInput) *Stage {
	s := &Stage{}
	s.onInput = build(s)
	return s
}

// Connect links sink as src's downstream peer. Connect must be called at
// most once per Stage; calling it twice returns ErrAlreadyConnected,
// mirroring the teacher's "assert(!src->next)" guard translated into a
// returned error instead of a panic, since pipeline wiring happens at
// ensemble-construction time where a caller can reasonably recover from
// a wiring mistake.
func Connect(src, sink *Stage) error {
	if src.next != nil {
		return ErrAlreadyConnected
	}
	src.next = sink
	return nil
}

// Input stimulates p with m and returns its Outcome.
func Input(p *Stage, m *mapping.Mapping) outcome.Outcome {
	return p.onInput(m)
}

// Output stimulates p's downstream peer with m and returns its Outcome.
// Output panics with ErrNotConnected if p has no downstream peer — an
// unconnected chain is a construction bug, not a runtime condition a
// caller can recover from mid-verification.
func Output(p *Stage, m *mapping.Mapping) outcome.Outcome {
	if p.next == nil {
		panic(ErrNotConnected)
	}
	return Input(p.next, m)
}
