package reprise

import "time"

// Engine is the capability every scheduling algorithm provides. The
// orchestrator dispatches on the state's variant tag, so engines can be
// swapped or compared without branching on concrete types.
//
// Review must be pure over its arguments: no clock reads, no I/O, no shared
// mutable state. Identical (state, response, today) inputs produce identical
// outputs.
type Engine interface {
	// Algorithm identifies the variant this engine governs.
	Algorithm() Algorithm

	// Review applies one response to the state and returns the new state.
	// The input state is never mutated; on error no update has happened.
	Review(state ItemState, resp Response, today time.Time) (ItemState, error)
}

// Compile-time interface checks.
var (
	_ Engine = SM2Engine{}
	_ Engine = (*LeitnerEngine)(nil)
)
