// Package resolve implements the identity-resolution protocol that guarantees
// at most one entity instance per natural key within one processing scope.
// Entity types stay generic: each declares its own natural-key derivation and
// store lookup/insert behavior through a Spec, and the resolver never
// hard-codes any single entity's key shape.
package resolve

import (
	"context"
	"fmt"
)

type cacheKey struct {
	entity string
	key    string
}

// Scope is the unit of work over which resolved identities are cached,
// conventionally one record's transaction. Scopes are not safe for concurrent
// use and must not be shared across workers.
type Scope struct {
	cache map[cacheKey]any
}

// NewScope creates an empty resolution scope.
func NewScope() *Scope {
	return &Scope{cache: make(map[cacheKey]any)}
}

// Reset discards all cached identities, e.g. after a rollback invalidated
// entities staged in this scope.
func (s *Scope) Reset() {
	s.cache = make(map[cacheKey]any)
}

// Len reports the number of cached identities.
func (s *Scope) Len() int {
	return len(s.cache)
}

// Spec declares how one entity type participates in identity resolution.
// Key derives the natural key from the construction arguments; Find queries
// the persistent store by that key, returning nil when no row matches;
// Insert stages a new entity built from the arguments.
type Spec[A any, E any] struct {
	Entity string
	Key    func(args A) string
	Find   func(ctx context.Context, args A) (*E, error)
	Insert func(ctx context.Context, args A) (*E, error)
}

// OrCreate returns the single entity instance for the natural key derived
// from args. The scope cache is consulted first, then the store; only when
// both miss is a new entity constructed and staged. Repeated calls with the
// same key are idempotent and touch neither store nor constructor again.
func OrCreate[A any, E any](ctx context.Context, scope *Scope, spec Spec[A, E], args A) (*E, error) {
	key := cacheKey{entity: spec.Entity, key: spec.Key(args)}
	if cached, ok := scope.cache[key]; ok {
		return cached.(*E), nil
	}

	entity, err := spec.Find(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s by natural key: %w", spec.Entity, err)
	}
	if entity == nil {
		entity, err = spec.Insert(ctx, args)
		if err != nil {
			return nil, fmt.Errorf("failed to stage new %s: %w", spec.Entity, err)
		}
	}

	scope.cache[key] = entity
	return entity, nil
}
