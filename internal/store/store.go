// Package store implements the shared application state container: a
// string-keyed state bag plus a registry of named mutations that are the
// sole sanctioned way to change it.
package store

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownMutation indicates a commit named a mutation that was never
// registered with the store.
var ErrUnknownMutation = errors.New("unknown mutation")

// State is the application state bag. Snapshots handed out by the store
// share value references with it; callers must treat them as immutable.
type State map[string]any

// Mutation applies a single named change to the state. Mutations perform no
// validation of their payload; that is the caller's contract.
type Mutation func(s State, payload any)

// Store owns the application state and funnels every write through a
// named mutation. Reads are unrestricted.
type Store struct {
	mu        sync.RWMutex
	state     State
	mutations map[string]Mutation
	subs      map[int]func(State)
	nextSub   int
}

// New builds a store from an initial state and a mutation registry. Both
// maps are copied so later changes to the arguments do not leak in.
func New(initial State, mutations map[string]Mutation) *Store {
	s := &Store{
		state:     Merge(initial),
		mutations: MergeMutations(mutations),
		subs:      map[int]func(State){},
	}
	return s
}

// Merge overlays the given states in argument order into a fresh State.
// The last write wins per key; there is no conflict detection.
func Merge(overlays ...State) State {
	out := State{}
	for _, o := range overlays {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// MergeMutations overlays mutation registries in argument order, last
// write wins per name.
func MergeMutations(overlays ...map[string]Mutation) map[string]Mutation {
	out := map[string]Mutation{}
	for _, o := range overlays {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// Commit applies the named mutation to the state and notifies subscribers
// with a snapshot. Commits are serialized; each mutation observes the state
// left by the previous one.
func (s *Store) Commit(name string, payload any) error {
	s.mu.Lock()
	mut, ok := s.mutations[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownMutation, name)
	}
	mut(s.state, payload)
	snap := Merge(s.state)
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state[key]
	return v, ok
}

// Snapshot returns a shallow copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Merge(s.state)
}

// Subscribe registers fn to run after every commit. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
