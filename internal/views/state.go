// Package views holds the presentation-side list state: snapshots of
// store reads plus the in-memory mutations the UI applies after each
// write. State here is a cache of the store, never the truth.
package views

import (
	"sync"
	"time"
)

// ListState tracks one list of entities. Writes bump a version
// counter; a refresh started before a write carries the old version
// and its result is silently dropped, so a slow list response can
// never clobber a newer local mutation.
type ListState[T any] struct {
	mu       sync.Mutex
	key      func(T) string
	items    []T
	version  uint64
	loadedAt time.Time
}

// NewListState creates list state keyed by the given id function.
func NewListState[T any](key func(T) string) *ListState[T] {
	return &ListState[T]{key: key}
}

// Version returns the current mutation counter. Callers snapshot it
// before starting a refresh and hand it back to Replace.
func (s *ListState[T]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Replace installs a fresh snapshot if no mutation happened since
// startedVersion was read. Returns false when the snapshot was stale
// and dropped.
func (s *ListState[T]) Replace(items []T, startedVersion uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != startedVersion {
		return false
	}
	s.items = append([]T(nil), items...)
	s.loadedAt = time.Now()
	return true
}

// Prepend puts a newly created entity at the head of the list.
func (s *ListState[T]) Prepend(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]T{item}, s.items...)
	s.version++
}

// UpdateByID swaps the entity with the same id in place. Returns false
// if the entity is not in the current snapshot.
func (s *ListState[T]) UpdateByID(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.key(item)
	for i := range s.items {
		if s.key(s.items[i]) == id {
			s.items[i] = item
			s.version++
			return true
		}
	}
	return false
}

// RemoveByID drops the entity with the given id. Returns false if the
// entity is not in the current snapshot.
func (s *ListState[T]) RemoveByID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.key(s.items[i]) == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			s.version++
			return true
		}
	}
	return false
}

// Items returns a copy of the current snapshot.
func (s *ListState[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

// Invalidate marks the snapshot as unusable; the next Fresh check
// forces a refresh.
func (s *ListState[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadedAt = time.Time{}
	s.version++
}

// Fresh reports whether the snapshot was loaded within ttl.
func (s *ListState[T]) Fresh(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadedAt.IsZero() {
		return false
	}
	return time.Since(s.loadedAt) < ttl
}

// Scoped keeps an independent ListState per scope key, so the
// all-areas list and each per-area list refresh and mutate without
// touching each other.
type Scoped[T any] struct {
	mu     sync.Mutex
	key    func(T) string
	states map[string]*ListState[T]
}

// NewScoped creates scoped list state keyed by the given id function.
func NewScoped[T any](key func(T) string) *Scoped[T] {
	return &Scoped[T]{
		key:    key,
		states: make(map[string]*ListState[T]),
	}
}

// Scope returns the list state for one scope, creating it on first
// use.
func (s *Scoped[T]) Scope(name string) *ListState[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[name]
	if !ok {
		st = NewListState(s.key)
		s.states[name] = st
	}
	return st
}

// InvalidateAll invalidates every scope, typically after a write that
// may affect lists beyond the one currently shown.
func (s *Scoped[T]) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.states {
		st.Invalidate()
	}
}

// Prepend records a confirmed create: the default scope gets the new
// entity at its head, every other scope is invalidated because the
// row's membership there is not known here.
func (s *Scoped[T]) Prepend(item T) {
	s.Scope("").Prepend(item)
	s.invalidateOthers("")
}

// UpdateByID records a confirmed edit: the default scope swaps the
// entity in place, every other scope is invalidated since the edit may
// have moved the row in or out of it.
func (s *Scoped[T]) UpdateByID(item T) {
	s.Scope("").UpdateByID(item)
	s.invalidateOthers("")
}

// RemoveByID drops the entity from every scope. A confirmed delete
// must never be served again, whichever snapshot a list reads from.
func (s *Scoped[T]) RemoveByID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.states {
		st.RemoveByID(id)
	}
}

func (s *Scoped[T]) invalidateOthers(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for n, st := range s.states {
		if n != name {
			st.Invalidate()
		}
	}
}
