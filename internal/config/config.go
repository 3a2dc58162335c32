// Package config loads the gateway configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = "neugrove.toml"

// EnvConfigPath names the variable that overrides DefaultPath.
const EnvConfigPath = "NEUGROVE_CONFIG"

// Config is the complete gateway configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Auth       AuthConfig       `toml:"auth"`
	Database   DatabaseConfig   `toml:"database"`
	Storage    StorageConfig    `toml:"storage"`
	Queue      QueueConfig      `toml:"queue"`
	Lock       LockConfig       `toml:"lock"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Ingest     IngestConfig     `toml:"ingest"`
	Worker     WorkerConfig     `toml:"worker"`
	Secrets    SecretsConfig    `toml:"secrets"`
	Connectors ConnectorsConfig `toml:"connectors"`
	MCP        MCPConfig        `toml:"mcp"`
}

// ServerConfig configures the HTTP gateway.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	DebugRoutes     bool     `toml:"debug_routes"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// AuthConfig configures bearer token validation.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

// DatabaseConfig selects the relational and vector store.
type DatabaseConfig struct {
	// Driver is memory, sqlite or postgres.
	Driver string `toml:"driver"`
	// DSN is the postgres connection string.
	DSN string `toml:"dsn"`
	// DataDir holds the sqlite database file.
	DataDir string `toml:"data_dir"`
}

// StorageConfig selects the object store for uploads.
type StorageConfig struct {
	// Backend is local or s3.
	Backend   string `toml:"backend"`
	Root      string `toml:"root"`
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	PathStyle bool   `toml:"path_style"`
}

// QueueConfig selects the job queue.
type QueueConfig struct {
	// Backend is memory, redis or sqs.
	Backend           string `toml:"backend"`
	Capacity          int    `toml:"capacity"`
	RedisURL          string `toml:"redis_url"`
	Key               string `toml:"key"`
	QueueURL          string `toml:"queue_url"`
	Region            string `toml:"region"`
	VisibilityTimeout int32  `toml:"visibility_timeout"`
}

// LockConfig selects the ingest lock.
type LockConfig struct {
	// Backend is memory or redis. redis reuses queue.redis_url unless RedisURL is set.
	Backend  string   `toml:"backend"`
	RedisURL string   `toml:"redis_url"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

// EmbeddingConfig configures the OpenAI compatible embedding endpoint.
type EmbeddingConfig struct {
	BaseURL    string   `toml:"base_url"`
	APIKey     string   `toml:"api_key"`
	Model      string   `toml:"model"`
	Dimensions int      `toml:"dimensions"`
	BatchSize  int      `toml:"batch_size"`
	Timeout    Duration `toml:"timeout"`
}

// IngestConfig bounds ingest inputs.
type IngestConfig struct {
	MaxUploadBytes int64    `toml:"max_upload_bytes"`
	MaxURLBytes    int64    `toml:"max_url_bytes"`
	URLTimeout     Duration `toml:"url_timeout"`
}

// WorkerConfig configures queue consumers.
type WorkerConfig struct {
	Concurrency int `toml:"concurrency"`
}

// SecretsConfig selects the secret store for connector credentials.
type SecretsConfig struct {
	// Backend is env, vault or aws.
	Backend string   `toml:"backend"`
	Prefix  string   `toml:"prefix"`
	TTL     Duration `toml:"ttl"`
	// Options are passed to the backend factory (vault_url, token, mount, region, env_prefix).
	Options map[string]string `toml:"options"`
}

// ConnectorsConfig overrides connector API roots.
type ConnectorsConfig struct {
	GitHubURL string `toml:"github_url"`
	SlackURL  string `toml:"slack_url"`
	DriveURL  string `toml:"drive_url"`
}

// MCPConfig configures the MCP server.
type MCPConfig struct {
	Addr string `toml:"addr"`
}

// Defaults returns a configuration that runs locally without services:
// sqlite, local uploads, in-process queue and lock, env secrets.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(60 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Database: DatabaseConfig{Driver: "sqlite", DataDir: "data"},
		Storage:  StorageConfig{Backend: "local", Root: "data/uploads"},
		Queue:    QueueConfig{Backend: "memory", Capacity: 1024, Key: "neugrove:jobs", VisibilityTimeout: 600},
		Lock:     LockConfig{Backend: "memory", Prefix: "neugrove:lock:", TTL: Duration(10 * time.Minute)},
		Embedding: EmbeddingConfig{
			BaseURL:   "https://api.openai.com/v1",
			Model:     "text-embedding-3-small",
			BatchSize: 64,
			Timeout:   Duration(60 * time.Second),
		},
		Ingest: IngestConfig{
			MaxUploadBytes: 50 << 20,
			MaxURLBytes:    20 << 20,
			URLTimeout:     Duration(30 * time.Second),
		},
		Worker:  WorkerConfig{Concurrency: 2},
		Secrets: SecretsConfig{Backend: "env", Prefix: "neugrove/projects", TTL: Duration(5 * time.Minute)},
		MCP:     MCPConfig{Addr: ":8001"},
	}
}

// Validate reports every invalid or missing setting.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Auth.JWTSecret != "", "auth.jwt_secret is required")

	check(oneOf(c.Database.Driver, "memory", "sqlite", "postgres"), "database.driver %q is not memory, sqlite or postgres", c.Database.Driver)
	check(c.Database.Driver != "postgres" || c.Database.DSN != "", "database.dsn is required for postgres")

	check(oneOf(c.Storage.Backend, "local", "s3"), "storage.backend %q is not local or s3", c.Storage.Backend)
	check(c.Storage.Backend != "s3" || c.Storage.Bucket != "", "storage.bucket is required for s3")
	check(c.Storage.Backend != "local" || c.Storage.Root != "", "storage.root is required for local storage")

	check(oneOf(c.Queue.Backend, "memory", "redis", "sqs"), "queue.backend %q is not memory, redis or sqs", c.Queue.Backend)
	check(c.Queue.Backend != "redis" || c.Queue.RedisURL != "", "queue.redis_url is required for redis")
	check(c.Queue.Backend != "sqs" || c.Queue.QueueURL != "", "queue.queue_url is required for sqs")

	check(oneOf(c.Lock.Backend, "memory", "redis"), "lock.backend %q is not memory or redis", c.Lock.Backend)
	check(c.Lock.Backend != "redis" || c.LockRedisURL() != "", "lock.redis_url or queue.redis_url is required for redis locks")

	check(oneOf(c.Secrets.Backend, "env", "vault", "aws"), "secrets.backend %q is not env, vault or aws", c.Secrets.Backend)
	check(c.Worker.Concurrency > 0, "worker.concurrency must be positive")
	check(c.Embedding.BatchSize > 0, "embedding.batch_size must be positive")

	return errors.Join(errs...)
}

// LockRedisURL returns the redis URL used for locks.
func (c *Config) LockRedisURL() string {
	if c.Lock.RedisURL != "" {
		return c.Lock.RedisURL
	}
	return c.Queue.RedisURL
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}
