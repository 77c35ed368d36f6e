// Package binder turns store results into render states for a view.
//
// A binder is the glue between one subscription (a kind plus filter) and
// the page rendering it: Loading while a fetch is outstanding, Ready or
// Error once it resolves, back to Loading on refresh. It is UI-free; the
// TUI consumes the state when building its view.
package binder

import "fmt"

// Phase is the render phase of a bound view.
type Phase int

const (
	Loading Phase = iota
	Empty
	Error
	Ready
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	case Error:
		return "error"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// RenderState is what a page renders right now. Value keeps the last good
// data across a refresh so Ready→Loading does not blank the screen.
type RenderState struct {
	Phase Phase
	Err   error
	Value any
}

// Binder is the restartable render-state sequence for one subscription.
type Binder struct {
	state RenderState
}

// New returns a binder in Loading, the state of a freshly mounted page.
func New() *Binder {
	return &Binder{state: RenderState{Phase: Loading}}
}

// State returns the current render state.
func (b *Binder) State() RenderState {
	return b.state
}

// Resolve applies a fetch result. count is the number of items behind
// value; zero items resolve to Empty. A failure moves any state to Error,
// keeping the last good value for context.
func (b *Binder) Resolve(value any, count int, err error) RenderState {
	switch {
	case err != nil:
		b.state = RenderState{Phase: Error, Err: err, Value: b.state.Value}
	case count == 0:
		b.state = RenderState{Phase: Empty, Value: value}
	default:
		b.state = RenderState{Phase: Ready, Value: value}
	}
	return b.state
}

// Refresh restarts the sequence: back to Loading, last value retained.
func (b *Binder) Refresh() RenderState {
	b.state = RenderState{Phase: Loading, Value: b.state.Value}
	return b.state
}

// Reset discards everything, as after a navigation-parameter change where
// the previous data no longer applies.
func (b *Binder) Reset() RenderState {
	b.state = RenderState{Phase: Loading}
	return b.state
}
