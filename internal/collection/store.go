// Package collection holds the client-side copies of backend collections.
package collection

import (
	"sync"
	"sync/atomic"
)

// Snapshot is an immutable view of a collection at one version.
type Snapshot[T any] struct {
	Items   []T
	Loaded  bool
	Err     error
	Version uint64
}

// Empty reports whether a loaded collection has no items.
func (s *Snapshot[T]) Empty() bool {
	return s.Loaded && s.Err == nil && len(s.Items) == 0
}

// Failed reports whether the last load failed.
func (s *Snapshot[T]) Failed() bool {
	return s.Err != nil
}

// Store is a single collection. Readers get a consistent snapshot; writers
// swap whole snapshots.
type Store[T any] struct {
	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[Snapshot[T]]
}

// Snapshot returns the current snapshot. It never returns nil.
func (s *Store[T]) Snapshot() *Snapshot[T] {
	if p := s.snap.Load(); p != nil {
		return p
	}
	return &Snapshot[T]{}
}

// Loaded reports whether a fetch was attempted, successful or not.
func (s *Store[T]) Loaded() bool {
	snap := s.Snapshot()
	return snap.Loaded || snap.Err != nil
}

// Replace installs a freshly fetched collection.
func (s *Store[T]) Replace(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)
	s.swap(func(old *Snapshot[T]) *Snapshot[T] {
		return &Snapshot[T]{Items: cp, Loaded: true, Version: old.Version + 1}
	})
}

// Prepend puts a newly created item at the head of the collection.
func (s *Store[T]) Prepend(item T) {
	s.swap(func(old *Snapshot[T]) *Snapshot[T] {
		items := make([]T, 0, len(old.Items)+1)
		items = append(items, item)
		items = append(items, old.Items...)
		return &Snapshot[T]{Items: items, Loaded: true, Version: old.Version + 1}
	})
}

// Fail records a load failure. The collection is left with no items so a
// stale list is never shown as current.
func (s *Store[T]) Fail(err error) {
	s.swap(func(old *Snapshot[T]) *Snapshot[T] {
		return &Snapshot[T]{Err: err, Version: old.Version + 1}
	})
}

func (s *Store[T]) swap(next func(old *Snapshot[T]) *Snapshot[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Store(next(s.Snapshot()))
}
