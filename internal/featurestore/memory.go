package featurestore

import (
	"context"
	stderrors "errors"

	"github.com/patrickmn/go-cache"
)

// ErrKeyNotFound is returned by Backing.Get for an absent key
var ErrKeyNotFound = stderrors.New("feature key not found")

// MemoryBacking keeps values in process memory without expiry.
// Values are held as given, no serialization.
type MemoryBacking struct {
	items *cache.Cache
}

// NewMemoryBacking creates an empty in-memory backing
func NewMemoryBacking() *MemoryBacking {
	return &MemoryBacking{items: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryBacking) Has(_ context.Context, key string) (bool, error) {
	_, found := m.items.Get(key)
	return found, nil
}

func (m *MemoryBacking) Get(_ context.Context, key string) (any, error) {
	v, found := m.items.Get(key)
	if !found {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

func (m *MemoryBacking) Put(_ context.Context, key string, value any) error {
	m.items.Set(key, value, cache.NoExpiration)
	return nil
}

// Len returns the number of stored keys
func (m *MemoryBacking) Len() int {
	return m.items.ItemCount()
}

func (m *MemoryBacking) Close() error {
	m.items.Flush()
	return nil
}
