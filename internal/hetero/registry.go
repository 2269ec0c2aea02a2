package hetero

import (
	"github.com/rohankatakam/hetgraph/internal/errors"
)

// IndexRegistry maps external identifiers of one entity type to dense,
// zero-based indices assigned in first-seen order.
//
// Registration is fail-fast: a repeated id is a data fault, not a
// re-observation, so Register returns a DuplicateIdentifier error and leaves
// the registry unchanged.
type IndexRegistry[K comparable] struct {
	name    string
	indices map[K]int
	ids     []K
}

// NewIndexRegistry creates an empty registry. name is used in error messages.
func NewIndexRegistry[K comparable](name string) *IndexRegistry[K] {
	return &IndexRegistry[K]{
		name:    name,
		indices: make(map[K]int),
	}
}

// Register assigns the next dense index to id
func (r *IndexRegistry[K]) Register(id K) (int, error) {
	if _, exists := r.indices[id]; exists {
		return 0, errors.DuplicateIdentifierError(r.name, id)
	}
	index := len(r.ids)
	r.indices[id] = index
	r.ids = append(r.ids, id)
	return index, nil
}

// Lookup returns the dense index for id
func (r *IndexRegistry[K]) Lookup(id K) (int, error) {
	index, ok := r.indices[id]
	if !ok {
		return 0, errors.UnknownIdentifierError(r.name, id)
	}
	return index, nil
}

// Contains reports whether id has been registered
func (r *IndexRegistry[K]) Contains(id K) bool {
	_, ok := r.indices[id]
	return ok
}

// Size returns the number of registered ids
func (r *IndexRegistry[K]) Size() int {
	return len(r.ids)
}

// IDs returns the registered ids in index order
func (r *IndexRegistry[K]) IDs() []K {
	out := make([]K, len(r.ids))
	copy(out, r.ids)
	return out
}

// Mapping returns a copy of the id to index map
func (r *IndexRegistry[K]) Mapping() map[K]int {
	out := make(map[K]int, len(r.indices))
	for id, index := range r.indices {
		out[id] = index
	}
	return out
}
