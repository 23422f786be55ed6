// Package slices holds client-side state containers: one per resource, each
// keeping the last fetched list plus a load status. Mutations go through the
// API first and are then applied to the local list without refetching.
package slices

import (
	"context"
	"sync"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Slice is a concurrency-safe list of T keyed by id. Readers always get
// copies of the backing list.
type Slice[T any] struct {
	mu     sync.RWMutex
	items  []T
	status Status
	err    error
	id     func(T) int64
}

func newSlice[T any](id func(T) int64) *Slice[T] {
	return &Slice[T]{items: []T{}, status: StatusIdle, id: id}
}

func (s *Slice[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Slice[T]) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err is the last error from a fetch or mutation, nil after a successful fetch.
func (s *Slice[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Find returns the local copy with the given id.
func (s *Slice[T]) Find(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if s.id(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// fetch replaces the whole list with what load returns. On failure the
// previous list is kept.
func (s *Slice[T]) fetch(ctx context.Context, load func(context.Context) ([]T, error)) error {
	s.mu.Lock()
	s.status = StatusLoading
	s.mu.Unlock()

	items, err := load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status, s.err = StatusFailed, err
		return err
	}
	if items == nil {
		items = []T{}
	}
	s.items, s.status, s.err = items, StatusSucceeded, nil
	return nil
}

func (s *Slice[T]) fail(err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	return err
}

func (s *Slice[T]) add(it T) {
	s.mu.Lock()
	s.items = append(s.items, it)
	s.mu.Unlock()
}

func (s *Slice[T]) replace(it T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.id(s.items[i]) == s.id(it) {
			s.items[i] = it
			return
		}
	}
}

func (s *Slice[T]) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.items[:0:0]
	for _, it := range s.items {
		if s.id(it) != id {
			out = append(out, it)
		}
	}
	s.items = out
}
