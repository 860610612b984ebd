// Package memory implements an in-memory storage slot for development and testing.
package memory

import (
	"context"
	"slices"
	"sync"

	"glicosmart/internal/domain"
)

// Slot keeps the serialised Store Root in memory. Contents are lost when the
// process exits.
type Slot struct {
	mu        sync.Mutex
	data      []byte
	writes    int
	failWrite error
}

// New creates an empty slot. Optional initial contents are copied.
func New(initial ...byte) *Slot {
	s := &Slot{}
	if len(initial) > 0 {
		s.data = slices.Clone(initial)
	}
	return s
}

var _ domain.Slot = (*Slot)(nil)

// Read returns a copy of the stored bytes, or nil when empty.
func (s *Slot) Read(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data), nil
}

// Write replaces the stored bytes.
func (s *Slot) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	s.data = slices.Clone(data)
	s.writes++
	return nil
}

// Clear empties the slot.
func (s *Slot) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	s.data = nil
	return nil
}

// Writes reports how many writes succeeded.
func (s *Slot) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// FailWrites makes every following Write and Clear return err. A nil err
// restores normal behaviour.
func (s *Slot) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrite = err
}
