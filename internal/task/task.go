// Package task defines the task record and the pure state transitions over a task list.
package task

import "strings"

// Task represents a single to-do item.
type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// List is an ordered task list. Newest tasks are appended at the end.
// Tasks are addressed by their 0-based position.
type List []Task

// Clone returns an independent copy of the list.
// A nil list clones to an empty, non-nil list.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Valid reports whether index addresses an element of the list.
func (l List) Valid(index int) bool {
	return index >= 0 && index < len(l)
}

// Action is a state transition request.
type Action interface {
	apply(List) (List, bool)
}

// Add appends a new open task. Blank text is ignored.
type Add struct {
	Text string
}

// Toggle flips the completion flag of the task at Index.
type Toggle struct {
	Index int
}

// Remove deletes the task at Index.
type Remove struct {
	Index int
}

// Reduce applies action to state and returns the resulting list and whether
// anything changed. state is never modified; the result is always a fresh slice.
func Reduce(state List, action Action) (List, bool) {
	if action == nil {
		return state.Clone(), false
	}
	return action.apply(state)
}

func (a Add) apply(state List) (List, bool) {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return state.Clone(), false
	}
	next := make(List, len(state), len(state)+1)
	copy(next, state)
	return append(next, Task{Text: text}), true
}

func (a Toggle) apply(state List) (List, bool) {
	next := state.Clone()
	if !next.Valid(a.Index) {
		return next, false
	}
	next[a.Index].Completed = !next[a.Index].Completed
	return next, true
}

func (a Remove) apply(state List) (List, bool) {
	if !state.Valid(a.Index) {
		return state.Clone(), false
	}
	next := make(List, 0, len(state)-1)
	next = append(next, state[:a.Index]...)
	next = append(next, state[a.Index+1:]...)
	return next, true
}
