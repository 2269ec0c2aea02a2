package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// TransactionConfig defines timeout and metadata for transactions.
// Metadata is logged by Neo4j in query.log, which helps attribute slow fetches.
type TransactionConfig struct {
	Timeout  time.Duration
	Metadata map[string]any
}

// DefaultTransactionConfigs returns recommended configs per operation type
func DefaultTransactionConfigs() map[string]TransactionConfig {
	return map[string]TransactionConfig{
		// Node batches are capped, so these should be quick
		"node_fetch": {
			Timeout: 60 * time.Second,
			Metadata: map[string]any{
				"operation": "node_fetch",
				"phase":     "nodes",
				"type":      "read",
			},
		},

		// Edge batches may be unbounded
		"edge_fetch": {
			Timeout: 3 * time.Minute,
			Metadata: map[string]any{
				"operation": "edge_fetch",
				"phase":     "edges",
				"type":      "read",
			},
		},

		"health_check": {
			Timeout: 5 * time.Second,
			Metadata: map[string]any{
				"operation": "health_check",
				"type":      "read",
			},
		},
	}
}

// AsNeo4jConfig converts to Neo4j transaction config functions
// Use with ExecuteRead/ExecuteWrite
func (tc TransactionConfig) AsNeo4jConfig() []func(*neo4j.TransactionConfig) {
	configs := []func(*neo4j.TransactionConfig){}

	if tc.Timeout > 0 {
		configs = append(configs, neo4j.WithTxTimeout(tc.Timeout))
	}

	if len(tc.Metadata) > 0 {
		configs = append(configs, neo4j.WithTxMetadata(tc.Metadata))
	}

	return configs
}

// GetConfigForOperation retrieves the appropriate transaction config
// Returns default config if operation not found
func GetConfigForOperation(operation string) TransactionConfig {
	configs := DefaultTransactionConfigs()
	if config, ok := configs[operation]; ok {
		return config
	}

	return TransactionConfig{
		Timeout: 60 * time.Second,
		Metadata: map[string]any{
			"operation": operation,
			"type":      "unknown",
		},
	}
}

// WithCustomMetadata creates a config with one extra metadata entry
func (tc TransactionConfig) WithCustomMetadata(key string, value any) TransactionConfig {
	newConfig := TransactionConfig{
		Timeout:  tc.Timeout,
		Metadata: make(map[string]any, len(tc.Metadata)+1),
	}
	for k, v := range tc.Metadata {
		newConfig.Metadata[k] = v
	}
	newConfig.Metadata[key] = value
	return newConfig
}

// WithTimeout creates a config with a custom timeout
func (tc TransactionConfig) WithTimeout(timeout time.Duration) TransactionConfig {
	return TransactionConfig{
		Timeout:  timeout,
		Metadata: tc.Metadata,
	}
}
