package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CORSOrigins is a comma-separated allow list; "*" admits any origin,
	// including for the WebSocket handshake.
	CORSOrigins string `env:"CORS_ORIGINS, default=*"`

	// MutationWorkers is the number of per-user serializer shards.
	MutationWorkers int `env:"MUTATION_WORKERS, default=8"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Uploads UploadConfig
}

type MongoConfig struct {
	URI      string `env:"DB_URI,  default=mongodb://localhost:27017"`
	Database string `env:"DB_NAME, default=xchange"`
}

// RedisConfig is optional. An empty Addr keeps presence in-process.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type UploadConfig struct {
	Dir   string `env:"UPLOAD_DIR,    default=uploads"`
	MaxMB int    `env:"MAX_UPLOAD_MB, default=10"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.MutationWorkers <= 0 {
		return nil, fmt.Errorf("config: MUTATION_WORKERS must be positive, got %d", cfg.MutationWorkers)
	}
	if cfg.Uploads.MaxMB <= 0 {
		return nil, fmt.Errorf("config: MAX_UPLOAD_MB must be positive, got %d", cfg.Uploads.MaxMB)
	}
	return &cfg, nil
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// AllowedOrigins splits CORSOrigins into a trimmed list.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BodyLimit renders MaxMB in the format Echo's BodyLimit middleware expects.
func (c *Config) BodyLimit() string {
	return fmt.Sprintf("%dM", c.Uploads.MaxMB)
}
