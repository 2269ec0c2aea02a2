package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings
type Config struct {
	// Graph data source
	Neo4j Neo4jConfig `mapstructure:"neo4j" yaml:"neo4j"`

	// Feature cache backing store
	Store StoreConfig `mapstructure:"store" yaml:"store"`

	// Assembly plan overrides
	Assembly AssemblyConfig `mapstructure:"assembly" yaml:"assembly"`

	// Logging
	Log LogConfig `mapstructure:"log" yaml:"log"`
}

type Neo4jConfig struct {
	URI          string        `mapstructure:"uri" yaml:"uri"`
	User         string        `mapstructure:"user" yaml:"user"`
	Password     string        `mapstructure:"password" yaml:"password"`
	Database     string        `mapstructure:"database" yaml:"database"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
	QueryRate    float64       `mapstructure:"query_rate" yaml:"query_rate"` // queries per second, 0 = unlimited
}

type StoreConfig struct {
	Backend       string `mapstructure:"backend" yaml:"backend"` // "memory", "bolt", "redis", "sqlite", "postgres"
	Path          string `mapstructure:"path" yaml:"path"`
	PostgresDSN   string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
	RedisAddr     string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" yaml:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix" yaml:"key_prefix"`
}

type AssemblyConfig struct {
	DefaultLimit int                 `mapstructure:"default_limit" yaml:"default_limit"`
	Limits       map[string]int      `mapstructure:"limits" yaml:"limits"`         // per entity type
	Attributes   map[string][]string `mapstructure:"attributes" yaml:"attributes"` // per entity type feature columns
	EdgeLimit    int                 `mapstructure:"edge_limit" yaml:"edge_limit"` // 0 = unbounded

	FetchConcurrency int `mapstructure:"fetch_concurrency" yaml:"fetch_concurrency"` // batches in flight per phase
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
	JSON  bool   `mapstructure:"json" yaml:"json"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Neo4j: Neo4jConfig{
			URI:          "neo4j://localhost",
			User:         "neo4j",
			Database:     "neo4j",
			FetchTimeout: 60 * time.Second,
		},
		Store: StoreConfig{
			Backend:   "bolt",
			Path:      filepath.Join(homeDir, ".hetgraph", "features.db"),
			RedisAddr: "localhost:6379",
			KeyPrefix: "hetgraph:feature:",
		},
		Assembly: AssemblyConfig{
			DefaultLimit:     25,
			Limits:           map[string]int{},
			Attributes:       map[string][]string{},
			FetchConcurrency: 1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from file, environment and .env files
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	// Leaf defaults so every key is known to AutomaticEnv during Unmarshal
	cfg := Default()
	v.SetDefault("neo4j.uri", cfg.Neo4j.URI)
	v.SetDefault("neo4j.user", cfg.Neo4j.User)
	v.SetDefault("neo4j.password", cfg.Neo4j.Password)
	v.SetDefault("neo4j.database", cfg.Neo4j.Database)
	v.SetDefault("neo4j.fetch_timeout", cfg.Neo4j.FetchTimeout)
	v.SetDefault("neo4j.query_rate", cfg.Neo4j.QueryRate)
	v.SetDefault("store.backend", cfg.Store.Backend)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("store.postgres_dsn", cfg.Store.PostgresDSN)
	v.SetDefault("store.redis_addr", cfg.Store.RedisAddr)
	v.SetDefault("store.redis_password", cfg.Store.RedisPassword)
	v.SetDefault("store.redis_db", cfg.Store.RedisDB)
	v.SetDefault("store.key_prefix", cfg.Store.KeyPrefix)
	v.SetDefault("assembly.default_limit", cfg.Assembly.DefaultLimit)
	v.SetDefault("assembly.edge_limit", cfg.Assembly.EdgeLimit)
	v.SetDefault("assembly.fetch_concurrency", cfg.Assembly.FetchConcurrency)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.json", cfg.Log.JSON)
	v.SetDefault("log.file", cfg.Log.File)

	// HETGRAPH_NEO4J_URI -> neo4j.uri
	v.SetEnvPrefix("HETGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".hetgraph")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".hetgraph"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".hetgraph", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides maps the conventional unprefixed variables onto the config
func applyEnvOverrides(cfg *Config) {
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		cfg.Neo4j.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		cfg.Neo4j.User = user
	}
	if password := os.Getenv("NEO4J_PASSWORD"); password != "" {
		cfg.Neo4j.Password = password
	}
	if db := os.Getenv("NEO4J_DATABASE"); db != "" {
		cfg.Neo4j.Database = db
	}

	if backend := os.Getenv("FEATURE_STORE_BACKEND"); backend != "" {
		cfg.Store.Backend = backend
	}
	if path := os.Getenv("FEATURE_STORE_PATH"); path != "" {
		cfg.Store.Path = expandPath(path)
	}
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Store.PostgresDSN = dsn
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Store.RedisAddr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Store.RedisPassword = password
	}

	if limit := os.Getenv("ASSEMBLY_DEFAULT_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			cfg.Assembly.DefaultLimit = n
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	cfg.Store.Path = expandPath(cfg.Store.Path)
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// LimitFor returns the row cap for an entity type
func (c *Config) LimitFor(entityType string) int {
	if n, ok := c.Assembly.Limits[entityType]; ok && n > 0 {
		return n
	}
	return c.Assembly.DefaultLimit
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
