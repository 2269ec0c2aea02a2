package featurestore

import (
	"context"
	"log/slog"
)

// Backing is the key-value store a Store reads and writes. Implementations
// own persistence and concurrency.
type Backing interface {
	Has(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (any, error)
	Put(ctx context.Context, key string, value any) error
	Close() error
}

// KeyFunc maps a caller key to a backing key. It must be pure.
type KeyFunc[K comparable] func(K) string

// Store is a feature cache that always answers with a numeric array,
// falling back to a caller-supplied default on a miss.
type Store[K comparable] struct {
	backing Backing
	key     KeyFunc[K]
	logger  *slog.Logger
}

// New creates a string-keyed store with identity key normalization
func New(backing Backing) *Store[string] {
	return NewWithKeyFunc(backing, func(k string) string { return k })
}

// NewWithKeyFunc creates a store whose keys are normalized by fn
func NewWithKeyFunc[K comparable](backing Backing, fn KeyFunc[K]) *Store[K] {
	return &Store[K]{
		backing: backing,
		key:     fn,
		logger:  slog.Default().With("component", "feature_store"),
	}
}

// Put stores value under key, overwriting any existing entry.
// The value is stored as given; coercion happens on read.
func (s *Store[K]) Put(ctx context.Context, key K, value any) error {
	k := s.key(key)
	if err := s.backing.Put(ctx, k, value); err != nil {
		return err
	}
	s.logger.Debug("feature stored", "key", k)
	return nil
}

// Get returns the stored value for key as an array, or def as an array when
// the key is absent. A miss never writes def to the backing store.
func (s *Store[K]) Get(ctx context.Context, key K, def any) (*Array, error) {
	k := s.key(key)
	found, err := s.backing.Has(ctx, k)
	if err != nil {
		return nil, err
	}
	if !found {
		s.logger.Debug("feature miss, using default", "key", k)
		return Coerce(def)
	}
	value, err := s.backing.Get(ctx, k)
	if err != nil {
		return nil, err
	}
	return Coerce(value)
}

// Has reports whether key is present
func (s *Store[K]) Has(ctx context.Context, key K) (bool, error) {
	return s.backing.Has(ctx, s.key(key))
}

// Close releases the backing store
func (s *Store[K]) Close() error {
	return s.backing.Close()
}
