package featurestore

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/rohankatakam/hetgraph/internal/config"
	"github.com/rohankatakam/hetgraph/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  config.StoreConfig
		want any
	}{
		{name: "default is memory", cfg: config.StoreConfig{}, want: &MemoryBacking{}},
		{name: "memory", cfg: config.StoreConfig{Backend: "memory"}, want: &MemoryBacking{}},
		{name: "bolt", cfg: config.StoreConfig{Backend: "bolt", Path: filepath.Join(dir, "f.db")}, want: &BoltBacking{}},
		{name: "sqlite", cfg: config.StoreConfig{Backend: "sqlite", Path: filepath.Join(dir, "f.sqlite")}, want: &SQLBacking{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Open(context.Background(), tt.cfg)
			require.NoError(t, err)
			defer b.Close()
			assert.IsType(t, tt.want, b)
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Backend: "etcd"})
	assert.True(t, stderrors.Is(err, errors.ErrConfig))

	_, err = Open(context.Background(), config.StoreConfig{Backend: "postgres"})
	assert.True(t, stderrors.Is(err, errors.ErrConfig))

	_, err = Open(context.Background(), config.StoreConfig{Backend: "redis"})
	assert.True(t, stderrors.Is(err, errors.ErrConfig))
}
