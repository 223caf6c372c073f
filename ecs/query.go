package ecs

import "iter"

// Query wraps a View with a per-frame snapshot of its matches.
// The Scheduler calls Execute before the owning system runs, so a system sees
// every entity that existed when it started, including spawns made directly on
// the storage by earlier systems in the same frame.
type Query[T any] struct {
	view  *View[T]
	ids   []EntityId
	items []T
	ready bool
}

// NewQuery creates a Query over storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the Query to a storage. Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.ids = q.ids[:0]
	q.items = q.items[:0]
	q.ready = false
}

// Execute rebuilds the snapshot.
func (q *Query[T]) Execute() {
	q.ids = q.ids[:0]
	q.items = q.items[:0]
	for id, item := range q.view.All() {
		q.ids = append(q.ids, id)
		q.items = append(q.items, item)
	}
	q.ready = true
}

func (q *Query[T]) mustBeReady() {
	if !q.ready {
		panic("Query iterated before Execute()")
	}
}

// Iter yields the snapshot's view structs. Panics if Execute has never been called.
func (q *Query[T]) Iter() iter.Seq[T] {
	q.mustBeReady()
	return func(yield func(T) bool) {
		for _, item := range q.items {
			if !yield(item) {
				return
			}
		}
	}
}

// All yields (EntityId, T) pairs from the snapshot.
func (q *Query[T]) All() iter.Seq2[EntityId, T] {
	q.mustBeReady()
	return func(yield func(EntityId, T) bool) {
		for i := range q.items {
			if !yield(q.ids[i], q.items[i]) {
				return
			}
		}
	}
}

// Len returns the number of entities in the snapshot.
func (q *Query[T]) Len() int {
	q.mustBeReady()
	return len(q.items)
}

// First returns the first entity of the snapshot.
func (q *Query[T]) First() (T, bool) {
	q.mustBeReady()
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0], true
}
