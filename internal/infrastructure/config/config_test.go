package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "xchange", cfg.Mongo.Database)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "uploads", cfg.Uploads.Dir)
	assert.Equal(t, 10, cfg.Uploads.MaxMB)
	assert.Equal(t, 8, cfg.MutationWorkers)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	assert.Equal(t, "10M", cfg.BodyLimit())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":         "9000",
		"ENV":          "Production",
		"DB_URI":       "mongodb://db:27017",
		"DB_NAME":      "test",
		"REDIS_ADDR":   "redis:6379",
		"REDIS_DB":     "2",
		"CORS_ORIGINS": "https://a.example, https://b.example ,",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "test", cfg.Mongo.Database)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestLoad_RejectsNonPositiveWorkers(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"MUTATION_WORKERS": "0",
	}))
	require.Error(t, err)
}

func TestLoad_RejectsBadInteger(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"MAX_UPLOAD_MB": "lots",
	}))
	require.Error(t, err)
}
