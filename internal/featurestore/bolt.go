package featurestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rohankatakam/hetgraph/internal/errors"
	bolt "go.etcd.io/bbolt"
)

const featureBucket = "features"

// BoltBacking persists features in an embedded bbolt file
type BoltBacking struct {
	db *bolt.DB
}

// NewBoltBacking opens (or creates) the bbolt file at path
func NewBoltBacking(path string) (*BoltBacking, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create feature store directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "open bolt feature store %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(featureBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.DatabaseErrorf(err, "create bucket %s", featureBucket)
	}
	return &BoltBacking{db: db}, nil
}

func (b *BoltBacking) Has(_ context.Context, key string) (bool, error) {
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket([]byte(featureBucket)).Get([]byte(key)) != nil
		return nil
	})
	return found, err
}

func (b *BoltBacking) Get(_ context.Context, key string) (any, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(featureBucket)).Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decodeValue(key, data)
}

func (b *BoltBacking) Put(_ context.Context, key string, value any) error {
	data, err := encodeValue(key, value)
	if err != nil {
		return err
	}
	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(featureBucket)).Put([]byte(key), data)
	})
	if err != nil {
		return errors.DatabaseErrorf(err, "put feature %s", key)
	}
	return nil
}

func (b *BoltBacking) Close() error {
	return b.db.Close()
}
