package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rohankatakam/hetgraph/internal/errors"
	"github.com/rohankatakam/hetgraph/internal/logging"
)

// ValidationContext specifies what configuration is required
type ValidationContext string

const (
	// ValidationContextAssemble - assemble requires Neo4j unless a fixture is used
	ValidationContextAssemble ValidationContext = "assemble"
	// ValidationContextFeatures - feature commands require a store backend
	ValidationContextFeatures ValidationContext = "features"
	// ValidationContextAll - validate all configuration
	ValidationContextAll ValidationContext = "all"
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err))
	}

	if len(vr.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn))
		}
	}

	return sb.String()
}

// Err converts a failed result into a config error, nil otherwise
func (vr *ValidationResult) Err() error {
	if !vr.HasErrors() {
		return nil
	}
	return errors.ConfigErrorf("%s", strings.TrimSpace(vr.Error()))
}

// Validate validates configuration for the given context
func (c *Config) Validate(ctx ValidationContext) *ValidationResult {
	result := &ValidationResult{Valid: true}

	switch ctx {
	case ValidationContextAssemble:
		c.validateNeo4j(result)
		c.validateAssembly(result)
	case ValidationContextFeatures:
		c.validateStore(result)
	case ValidationContextAll:
		c.validateNeo4j(result)
		c.validateAssembly(result)
		c.validateStore(result)
		c.validateLog(result)
	}

	return result
}

func (c *Config) validateNeo4j(result *ValidationResult) {
	if c.Neo4j.URI == "" {
		result.AddError("neo4j.uri is required (set NEO4J_URI)")
	} else if u, err := url.Parse(c.Neo4j.URI); err != nil || !isNeo4jScheme(u.Scheme) {
		result.AddError("neo4j.uri %q must use neo4j://, neo4j+s://, bolt:// or bolt+s://", c.Neo4j.URI)
	}
	if c.Neo4j.User == "" {
		result.AddError("neo4j.user is required (set NEO4J_USER)")
	}
	if c.Neo4j.Password == "" {
		result.AddError("neo4j.password is required (set NEO4J_PASSWORD)")
	}
	if c.Neo4j.FetchTimeout < 0 {
		result.AddError("neo4j.fetch_timeout must not be negative")
	}
	if c.Neo4j.QueryRate < 0 {
		result.AddError("neo4j.query_rate must not be negative")
	}
}

func isNeo4jScheme(scheme string) bool {
	switch scheme {
	case "neo4j", "neo4j+s", "neo4j+ssc", "bolt", "bolt+s", "bolt+ssc":
		return true
	}
	return false
}

func (c *Config) validateAssembly(result *ValidationResult) {
	if c.Assembly.DefaultLimit <= 0 {
		result.AddError("assembly.default_limit must be positive, got %d", c.Assembly.DefaultLimit)
	}
	for entity, n := range c.Assembly.Limits {
		if n <= 0 {
			result.AddError("assembly.limits.%s must be positive, got %d", entity, n)
		}
	}
	for entity, attrs := range c.Assembly.Attributes {
		seen := make(map[string]bool, len(attrs))
		for _, a := range attrs {
			if a == "id" {
				result.AddError("assembly.attributes.%s must not list the id attribute", entity)
			}
			if seen[a] {
				result.AddError("assembly.attributes.%s lists %s twice", entity, a)
			}
			seen[a] = true
		}
	}
	if c.Assembly.EdgeLimit < 0 {
		result.AddError("assembly.edge_limit must not be negative")
	}
	if c.Assembly.FetchConcurrency < 1 {
		result.AddError("assembly.fetch_concurrency must be at least 1, got %d", c.Assembly.FetchConcurrency)
	} else if c.Assembly.FetchConcurrency > 1 && c.Neo4j.QueryRate == 0 {
		result.AddWarning("assembly.fetch_concurrency > 1 without neo4j.query_rate issues all batches at once")
	}
}

func (c *Config) validateStore(result *ValidationResult) {
	switch c.Store.Backend {
	case "", "memory":
		result.AddWarning("memory feature store does not persist between runs")
	case "bolt", "sqlite":
		if c.Store.Path == "" {
			result.AddError("store.path is required for the %s backend", c.Store.Backend)
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			result.AddError("store.redis_addr is required for the redis backend")
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			result.AddError("store.postgres_dsn is required for the postgres backend (set POSTGRES_DSN)")
		}
	default:
		result.AddError("unknown store.backend %q (memory, bolt, redis, sqlite, postgres)", c.Store.Backend)
	}
}

func (c *Config) validateLog(result *ValidationResult) {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		result.AddError("unknown log.level %q (debug, info, warn, error)", c.Log.Level)
	}
}
