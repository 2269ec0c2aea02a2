package featurestore

import (
	"context"

	"github.com/rohankatakam/hetgraph/internal/config"
	"github.com/rohankatakam/hetgraph/internal/errors"
)

// Open creates the backing named by cfg.Backend. An empty backend is memory.
func Open(ctx context.Context, cfg config.StoreConfig) (Backing, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryBacking(), nil
	case "bolt":
		return asBacking(NewBoltBacking(cfg.Path))
	case "sqlite":
		return asBacking(NewSQLiteBacking(cfg.Path))
	case "postgres":
		return asBacking(NewPostgresBacking(cfg.PostgresDSN))
	case "redis":
		return asBacking(NewRedisBacking(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.KeyPrefix))
	default:
		return nil, errors.ConfigErrorf("unknown feature store backend %q", cfg.Backend)
	}
}

// asBacking drops the typed nil a failed constructor returns
func asBacking[B Backing](b B, err error) (Backing, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}
