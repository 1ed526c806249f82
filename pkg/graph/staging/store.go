// Package staging holds records of a two-pass transform between the pass
// that collects them and the pass that resolves cross-references.
//
// A Store moves through Empty, Staging, Sealed, Resolving and Done. Records
// can only be added before the store is sealed and only read after it.
package staging

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// State is the lifecycle position of a Store.
type State int

const (
	Empty State = iota
	Staging
	Sealed
	Resolving
	Done
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Staging:
		return "staging"
	case Sealed:
		return "sealed"
	case Resolving:
		return "resolving"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrNotSealed is returned by reads before the store is sealed.
	ErrNotSealed = errors.New("staging: store is not sealed")
	// ErrClosed is returned by any operation after Close.
	ErrClosed = errors.New("staging: store is closed")
)

// StoreSealedError is returned by Put once the store has left the staging
// phase.
type StoreSealedError struct {
	State State
}

func (e *StoreSealedError) Error() string {
	return fmt.Sprintf("staging: put on %s store", e.State)
}

// Putter is the view of a store handed to the staging pass.
type Putter[R any] interface {
	Put(id string, rec R) error
}

// Reader is the view of a store handed to the resolve pass.
type Reader[R any] interface {
	Get(id string) (R, bool, error)
	Each(fn func(id string, rec R) error) error
	Len() (int, error)
}

type backend[R any] interface {
	put(id string, rec R, merge func(old, rec R) R) error
	get(id string) (R, bool, error)
	each(fn func(id string, rec R) error) error
	len() (int, error)
	seal() error
	close() error
}

// Option configures a Store.
type Option[R any] func(*Store[R])

// WithMerge makes Put combine a record with the one already stored under
// the same id instead of replacing it.
func WithMerge[R any](merge func(old, rec R) R) Option[R] {
	return func(s *Store[R]) {
		s.merge = merge
	}
}

// Store is a keyed record store that enforces the stage-then-resolve order.
// Without WithMerge, a repeated Put replaces the earlier record but keeps
// its position in iteration order.
type Store[R any] struct {
	mutex   sync.Mutex
	state   State
	merge   func(old, rec R) R
	backend backend[R]
}

func newStore[R any](b backend[R], state State, opts []Option[R]) *Store[R] {
	s := &Store[R]{state: state, backend: b}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Store[R]) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Put stores rec under id.
func (s *Store[R]) Put(id string, rec R) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != Empty && s.state != Staging {
		return &StoreSealedError{State: s.state}
	}
	if err := s.backend.put(id, rec, s.merge); err != nil {
		return errors.Wrapf(err, "stage record %q", id)
	}
	s.state = Staging
	return nil
}

// Seal ends the staging phase. Sealing a sealed store does nothing.
func (s *Store[R]) Seal() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch s.state {
	case Sealed, Resolving:
		return nil
	case Done:
		return ErrClosed
	}
	if err := s.backend.seal(); err != nil {
		return errors.Wrap(err, "seal staging store")
	}
	s.state = Sealed
	return nil
}

// BeginResolve marks the start of the resolve pass.
func (s *Store[R]) BeginResolve() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch s.state {
	case Sealed:
		s.state = Resolving
		return nil
	case Resolving:
		return nil
	case Done:
		return ErrClosed
	}
	return ErrNotSealed
}

func (s *Store[R]) readable() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch s.state {
	case Sealed, Resolving:
		return nil
	case Done:
		return ErrClosed
	}
	return ErrNotSealed
}

// Get returns the record stored under id.
func (s *Store[R]) Get(id string) (R, bool, error) {
	if err := s.readable(); err != nil {
		var zero R
		return zero, false, err
	}
	return s.backend.get(id)
}

// Each calls fn for every record in first-insertion order, stopping at the
// first error fn returns.
func (s *Store[R]) Each(fn func(id string, rec R) error) error {
	if err := s.readable(); err != nil {
		return err
	}
	return s.backend.each(fn)
}

// Len returns the number of distinct ids.
func (s *Store[R]) Len() (int, error) {
	if err := s.readable(); err != nil {
		return 0, err
	}
	return s.backend.len()
}

// Close releases the store. Temporary backing files are removed; closing
// twice is allowed.
func (s *Store[R]) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state == Done {
		return nil
	}
	s.state = Done
	return s.backend.close()
}
