// Package cache keeps a client's local copy of one table.
//
// A List holds two versions of the rows: the confirmed snapshot, which only
// changes when the server reports a change, and the view, which also carries
// optimistic edits. A failed request never undoes a single edit; the view is
// replaced with the confirmed snapshot instead.
package cache

import (
	"sync"
)

// Patch is a set of row changes
type Patch[T any] struct {
	Inserts []T
	Updates []T
	Deletes []string
}

// IsEmpty reports whether the patch changes nothing
func (p Patch[T]) IsEmpty() bool {
	return len(p.Inserts) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

// List is a concurrency-safe cached table keyed by row id
type List[T any] struct {
	mu        sync.RWMutex
	key       func(T) string
	confirmed []T
	view      []T
}

// NewList creates an empty list; key returns a row's id
func NewList[T any](key func(T) string) *List[T] {
	return &List[T]{key: key}
}

// Key returns the id of row
func (l *List[T]) Key(row T) string {
	return l.key(row)
}

// Load replaces both versions with a fresh server snapshot
func (l *List[T]) Load(rows []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirmed = clone(rows)
	l.view = clone(rows)
}

// Items returns a copy of the view
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clone(l.view)
}

// Confirmed returns a copy of the confirmed snapshot
func (l *List[T]) Confirmed() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clone(l.confirmed)
}

// Get looks a row up in the view
func (l *List[T]) Get(id string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.index(l.view, id); i >= 0 {
		return l.view[i], true
	}
	var zero T
	return zero, false
}

// Len returns the number of rows in the view
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.view)
}

// ApplyOptimistic applies p to the view only
func (l *List[T]) ApplyOptimistic(p Patch[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view = l.apply(l.view, p)
}

// ApplyRemote applies a server-reported change to both versions.
// Updates and deletes of unknown ids are ignored; inserting a known id replaces it.
func (l *List[T]) ApplyRemote(p Patch[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirmed = l.apply(l.confirmed, p)
	l.view = l.apply(l.view, p)
}

// Confirm accepts the view as the new confirmed snapshot
func (l *List[T]) Confirm() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirmed = clone(l.view)
}

// Revert discards every optimistic edit
func (l *List[T]) Revert() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view = clone(l.confirmed)
}

func (l *List[T]) apply(rows []T, p Patch[T]) []T {
	rows = clone(rows)
	for _, r := range p.Inserts {
		if i := l.index(rows, l.key(r)); i >= 0 {
			rows[i] = r
			continue
		}
		rows = append(rows, r)
	}
	for _, r := range p.Updates {
		if i := l.index(rows, l.key(r)); i >= 0 {
			rows[i] = r
		}
	}
	for _, id := range p.Deletes {
		if i := l.index(rows, id); i >= 0 {
			rows = append(rows[:i], rows[i+1:]...)
		}
	}
	return rows
}

func (l *List[T]) index(rows []T, id string) int {
	for i := range rows {
		if l.key(rows[i]) == id {
			return i
		}
	}
	return -1
}

func clone[T any](rows []T) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	return out
}
