// Package form holds the editable state of admin forms between submits.
package form

import (
	"sync"
	"sync/atomic"
)

// State holds current values, per-field error flags and the submitting flag
// of one form instance. V must be a value type without shared references.
type State[V any] struct {
	mu         sync.RWMutex
	defaults   V
	values     V
	errors     map[string]bool
	submitting bool
	observers  []func(submitting bool)

	inFlight atomic.Bool
}

// NewState creates a state holding defaults
func NewState[V any](defaults V) *State[V] {
	return &State[V]{
		defaults: defaults,
		values:   defaults,
		errors:   map[string]bool{},
	}
}

// Values returns a copy of the current values
func (s *State[V]) Values() V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values
}

// Set applies an edit to the current values
func (s *State[V]) Set(edit func(v *V)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	edit(&s.values)
}

// Seed replaces the current values with a copy of v
func (s *State[V]) Seed(v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = v
}

// Reset restores the initial defaults and clears field errors
func (s *State[V]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = s.defaults
	s.errors = map[string]bool{}
}

// Errors returns a copy of the field error flags
func (s *State[V]) Errors() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// SetErrors replaces the field error flags
func (s *State[V]) SetErrors(errs map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = make(map[string]bool, len(errs))
	for k, v := range errs {
		if v {
			s.errors[k] = true
		}
	}
}

// Submitting reports the visible submitting flag
func (s *State[V]) Submitting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitting
}

// SetSubmitting updates the visible flag and notifies observers on change
func (s *State[V]) SetSubmitting(v bool) {
	s.mu.Lock()
	if s.submitting == v {
		s.mu.Unlock()
		return
	}
	s.submitting = v
	observers := append([]func(bool){}, s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(v)
	}
}

// OnSubmittingChange registers fn to run on every submitting flag transition
func (s *State[V]) OnSubmittingChange(fn func(submitting bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// TryBegin takes the in-flight token. It fails while a submission is outstanding.
func (s *State[V]) TryBegin() bool {
	return s.inFlight.CompareAndSwap(false, true)
}

// End releases the in-flight token
func (s *State[V]) End() {
	s.inFlight.Store(false)
}

// InFlight reports whether the token is held
func (s *State[V]) InFlight() bool {
	return s.inFlight.Load()
}
