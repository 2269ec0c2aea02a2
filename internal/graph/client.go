package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rohankatakam/hetgraph/internal/hetero"
	"golang.org/x/time/rate"
)

// Client wraps the Neo4j driver with read-transaction helpers
type Client struct {
	driver   neo4j.DriverWithContext
	logger   *slog.Logger
	database string
	limiter  *rate.Limiter
	timeout  time.Duration
}

// ClientOptions tunes fetch behavior
type ClientOptions struct {
	Database     string
	FetchTimeout time.Duration // per-transaction timeout, 0 keeps the operation default
	QueryRate    float64       // queries per second, 0 = unlimited
}

// NewClient connects to Neo4j and verifies connectivity
// Security: credentials come from config or environment, never hardcoded
func NewClient(ctx context.Context, uri, user, password string, opts ClientOptions) (*Client, error) {
	if uri == "" || user == "" || password == "" {
		return nil, fmt.Errorf("neo4j credentials missing: uri=%s, user=%s", uri, user)
	}
	if opts.Database == "" {
		opts.Database = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(uri,
		neo4j.BasicAuth(user, password, ""),
		func(config *neo4j.Config) {
			config.MaxConnectionPoolSize = 10
			config.ConnectionAcquisitionTimeout = 60 * time.Second
			config.MaxConnectionLifetime = 3600 * time.Second
			config.SocketConnectTimeout = 5 * time.Second
			config.SocketKeepalive = true
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	// Verify connectivity (fail fast on startup)
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j at %s: %w", uri, err)
	}

	limit := rate.Inf
	if opts.QueryRate > 0 {
		limit = rate.Limit(opts.QueryRate)
	}

	logger := slog.Default().With("component", "neo4j")
	logger.Info("neo4j client connected",
		"uri", uri,
		"user", user,
		"database", opts.Database)

	return &Client{
		driver:   driver,
		logger:   logger,
		database: opts.Database,
		limiter:  rate.NewLimiter(limit, 1),
		timeout:  opts.FetchTimeout,
	}, nil
}

// Close closes the Neo4j driver connection
func (c *Client) Close(ctx context.Context) error {
	if err := c.driver.Close(ctx); err != nil {
		return fmt.Errorf("failed to close neo4j driver: %w", err)
	}
	c.logger.Info("neo4j client closed")
	return nil
}

// HealthCheck verifies Neo4j connectivity
func (c *Client) HealthCheck(ctx context.Context) error {
	txConfig := GetConfigForOperation("health_check")
	ctx, cancel := context.WithTimeout(ctx, txConfig.Timeout)
	defer cancel()
	if err := c.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j health check failed: %w", err)
	}
	return nil
}

// Database returns the configured database name
func (c *Client) Database() string {
	return c.database
}

// txConfig resolves the operation's tx config, applying the client timeout
// and tagging the assembly run id into Neo4j's query log metadata
func (c *Client) txConfig(ctx context.Context, operation string) TransactionConfig {
	txConfig := GetConfigForOperation(operation)
	if c.timeout > 0 {
		txConfig = txConfig.WithTimeout(c.timeout)
	}
	if runID, ok := hetero.RunIDFromContext(ctx); ok {
		txConfig = txConfig.WithCustomMetadata("run_id", runID)
	}
	return txConfig
}

// ReadAll runs query in a managed read transaction and materializes every
// record before the transaction closes
func (c *Client) ReadAll(ctx context.Context, operation, query string, params map[string]any) ([]*neo4j.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter: %w", operation, err)
	}

	txConfig := c.txConfig(ctx, operation)

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	start := time.Now()
	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	}, txConfig.AsNeo4jConfig()...)
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", operation, err)
	}

	records := out.([]*neo4j.Record)
	c.logger.Debug("query executed",
		"operation", operation,
		"record_count", len(records),
		"duration", time.Since(start))
	return records, nil
}
