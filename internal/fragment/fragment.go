// Package fragment holds editable text fragments that edit scripts run against.
package fragment

import (
	"sync"

	"github.com/serroba/editops/internal/editop"
)

// State is the text of a fragment together with the number of operations
// applied to reach it.
type State struct {
	Text    string `json:"text"`
	Applied int    `json:"applied"`
}

// Fragment is a piece of text that operations are applied to in sequence.
// It is safe for concurrent use.
type Fragment struct {
	ID string

	mu      sync.RWMutex
	text    string
	applied int
}

// New creates a fragment with the given initial text.
func New(id, text string) *Fragment {
	return &Fragment{
		ID:   id,
		text: text,
	}
}

// Apply executes op against the current text. On error the text is unchanged.
func (f *Fragment) Apply(op editop.Operation) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out, err := op.Execute(f.text)
	if err != nil {
		return State{}, err
	}

	f.text = out
	f.applied++

	return f.state(), nil
}

// ApplyAll executes ops in order. Either every operation is applied or, on
// the first failure, none is; the error is an *editop.ScriptError.
func (f *Fragment) ApplyAll(ops []editop.Operation) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out, err := editop.ApplyAll(f.text, ops)
	if err != nil {
		return State{}, err
	}

	f.text = out
	f.applied += len(ops)

	return f.state(), nil
}

// Replace swaps the whole text for text and returns the script that was
// applied to get there, as computed by editop.Diff with opts.
func (f *Fragment) Replace(text string, opts ...editop.DiffOption) ([]editop.Operation, State) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ops := editop.Diff(f.text, text, opts...)
	f.text = text
	f.applied += len(ops)

	return ops, f.state()
}

// Text returns the current text.
func (f *Fragment) Text() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.text
}

// Len returns the length of the text in UTF-16 code units, the unit
// operation positions count in.
func (f *Fragment) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return editop.Len(f.text)
}

// Applied returns how many operations have been applied so far.
func (f *Fragment) Applied() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.applied
}

// Snapshot returns the current state.
func (f *Fragment) Snapshot() State {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.state()
}

func (f *Fragment) state() State {
	return State{Text: f.text, Applied: f.applied}
}
