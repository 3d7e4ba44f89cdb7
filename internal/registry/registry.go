// Package registry provides the identity-keyed collections backing the part
// and package catalogs. Keys are the upper-cased form of each entity's
// identifier, so identifiers that differ only in case refer to the same
// entry. Iteration order is insertion order, and renames keep an entity in
// its original position.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Registry errors
var (
	ErrNotFound    = errors.New("entity not found")
	ErrDuplicateID = errors.New("identifier already in use")
	ErrNilEntity   = errors.New("entity cannot be nil")
)

// Entity is implemented by anything a Registry can hold. Identifier
// mutations must go through Registry.Rename so the key never drifts from
// the entity's current identifier.
type Entity interface {
	comparable
	GetID() string
	SetID(id string)
}

// Registry maps case-normalized identifiers to entities while preserving
// insertion order.
type Registry[E Entity] struct {
	entries map[string]E
	order   []string
}

// New creates a new empty registry.
func New[E Entity]() *Registry[E] {
	return &Registry[E]{
		entries: make(map[string]E),
	}
}

func key(id string) string {
	return strings.ToUpper(id)
}

// Put inserts the entity under its upper-cased identifier, replacing any
// entry whose identifier differs only in case. A replaced entry keeps its
// original position in iteration order.
func (r *Registry[E]) Put(e E) error {
	var nothing E
	if e == nothing {
		return ErrNilEntity
	}
	k := key(e.GetID())
	if _, exists := r.entries[k]; !exists {
		r.order = append(r.order, k)
	}
	r.entries[k] = e
	return nil
}

// Get looks up an entity by identifier, case-insensitively.
func (r *Registry[E]) Get(id string) (E, bool) {
	e, ok := r.entries[key(id)]
	return e, ok
}

// Rename re-keys the entity stored under oldID to newID and updates the
// entity's own identifier. The entity keeps its position in iteration
// order. Returns ErrNotFound if oldID is absent, or ErrDuplicateID if
// newID already names a different entry.
func (r *Registry[E]) Rename(oldID, newID string) error {
	oldKey, newKey := key(oldID), key(newID)
	e, ok := r.entries[oldKey]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, oldID)
	}
	if newKey != oldKey {
		if _, taken := r.entries[newKey]; taken {
			return fmt.Errorf("%w: %s", ErrDuplicateID, newID)
		}
		delete(r.entries, oldKey)
		r.entries[newKey] = e
		for i, k := range r.order {
			if k == oldKey {
				r.order[i] = newKey
				break
			}
		}
	}
	e.SetID(newID)
	return nil
}

// Values returns all entities in insertion order.
func (r *Registry[E]) Values() []E {
	out := make([]E, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.entries[k])
	}
	return out
}

// Len returns the number of entities held.
func (r *Registry[E]) Len() int {
	return len(r.entries)
}
