package featurestore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rohankatakam/hetgraph/internal/errors"
)

const featureSchema = `
CREATE TABLE IF NOT EXISTS feature_cache (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLBacking stores features in a feature_cache table. Works with the
// sqlite3 and postgres drivers.
type SQLBacking struct {
	db *sqlx.DB
}

// NewSQLiteBacking opens a local SQLite file
func NewSQLiteBacking(path string) (*SQLBacking, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "connect to sqlite")
	}
	// one connection keeps :memory: databases shared
	db.SetMaxOpenConns(1)
	return newSQLBacking(db)
}

// NewPostgresBacking connects to PostgreSQL with the given DSN
func NewPostgresBacking(dsn string) (*SQLBacking, error) {
	if dsn == "" {
		return nil, errors.ConfigErrorf("postgres DSN missing")
	}
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "connect to postgres")
	}
	return newSQLBacking(db)
}

func newSQLBacking(db *sqlx.DB) (*SQLBacking, error) {
	if _, err := db.Exec(featureSchema); err != nil {
		db.Close()
		return nil, errors.DatabaseErrorf(err, "init feature_cache schema")
	}
	return &SQLBacking{db: db}, nil
}

func (s *SQLBacking) Has(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM feature_cache WHERE key = ?`), key)
	if err != nil {
		return false, errors.DatabaseErrorf(err, "lookup feature %s", key)
	}
	return n > 0, nil
}

func (s *SQLBacking) Get(ctx context.Context, key string) (any, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw, s.db.Rebind(`SELECT value FROM feature_cache WHERE key = ?`), key)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "read feature %s", key)
	}
	return decodeValue(key, []byte(raw))
}

func (s *SQLBacking) Put(ctx context.Context, key string, value any) error {
	data, err := encodeValue(key, value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO feature_cache (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`), key, string(data))
	if err != nil {
		return errors.DatabaseErrorf(err, "write feature %s", key)
	}
	return nil
}

func (s *SQLBacking) Close() error {
	return s.db.Close()
}
