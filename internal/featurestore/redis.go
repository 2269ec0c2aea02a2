package featurestore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/rohankatakam/hetgraph/internal/errors"
)

// RedisBacking stores features as JSON strings in Redis under a key prefix.
// Entries never expire.
type RedisBacking struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisBacking connects to Redis and verifies connectivity
func NewRedisBacking(ctx context.Context, addr, password string, db int, prefix string) (*RedisBacking, error) {
	if addr == "" {
		return nil, errors.ConfigErrorf("redis address missing")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// fail fast on startup
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.DatabaseErrorf(err, "connect to redis at %s", addr)
	}

	logger := slog.Default().With("component", "redis")
	logger.Info("redis feature store connected", "addr", addr, "db", db)

	return &RedisBacking{client: client, prefix: prefix, logger: logger}, nil
}

func (r *RedisBacking) key(k string) string {
	return r.prefix + k
}

func (r *RedisBacking) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, errors.DatabaseErrorf(err, "redis exists %s", key)
	}
	return n > 0, nil
}

func (r *RedisBacking) Get(ctx context.Context, key string) (any, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "redis get %s", key)
	}
	return decodeValue(key, val)
}

func (r *RedisBacking) Put(ctx context.Context, key string, value any) error {
	data, err := encodeValue(key, value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, 0).Err(); err != nil {
		return errors.DatabaseErrorf(err, "redis set %s", key)
	}
	return nil
}

func (r *RedisBacking) Close() error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	r.logger.Info("redis feature store closed")
	return nil
}
