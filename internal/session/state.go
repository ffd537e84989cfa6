// Package session holds per-browser application state.
//
// State is a value. Views never mutate it; they return a Transition describing the change
// they want, and the store applies that transition atomically.
package session

import (
	"csvexplorer/domain/dataset"
)

// State is everything the explorer remembers between interactions.
// A nil Dataset means nothing has been uploaded yet (or it was reset).
type State struct {
	Dataset *dataset.Dataset
}

// HasDataset reports whether a dataset is loaded
func (s State) HasDataset() bool {
	return s.Dataset != nil
}

// TransitionKind names the change a transition makes
type TransitionKind string

const (
	TransitionUnchanged TransitionKind = "unchanged"
	TransitionReplace   TransitionKind = "replace"
	TransitionClear     TransitionKind = "clear"
)

// Transition is a proposed change to State
type Transition struct {
	Kind    TransitionKind
	Dataset *dataset.Dataset // set for TransitionReplace
}

// Unchanged keeps the current state
func Unchanged() Transition {
	return Transition{Kind: TransitionUnchanged}
}

// Replace swaps in a freshly loaded dataset. A nil dataset is treated as Unchanged so a
// failed load can never erase the previous one.
func Replace(ds *dataset.Dataset) Transition {
	if ds == nil {
		return Unchanged()
	}
	return Transition{Kind: TransitionReplace, Dataset: ds}
}

// Clear drops the loaded dataset
func Clear() Transition {
	return Transition{Kind: TransitionClear}
}

// Apply returns the state that results from applying t to s
func (t Transition) Apply(s State) State {
	switch t.Kind {
	case TransitionReplace:
		return State{Dataset: t.Dataset}
	case TransitionClear:
		return State{}
	default:
		return s
	}
}
