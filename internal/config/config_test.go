package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("GRAPH_BACKEND", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ParsesListsAndDurations(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("PUBLIC_BASE_URL", "https://devlog.test/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "https://devlog.test", cfg.PublicBaseURL)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:            "development",
			StorageBackend: BackendPostgres,
			GraphBackend:   BackendPostgres,
			JWTSecret:      "secret",
			JWTTTL:         time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "neo4j graph", mutate: func(c *Config) { c.GraphBackend = BackendNeo4j }},
		{name: "unknown storage", mutate: func(c *Config) { c.StorageBackend = "mongo" }, wantErr: true},
		{name: "unknown graph", mutate: func(c *Config) { c.GraphBackend = "dgraph" }, wantErr: true},
		{name: "memory with neo4j", mutate: func(c *Config) {
			c.StorageBackend = BackendMemory
			c.GraphBackend = BackendNeo4j
		}, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: true},
		{name: "default secret in production", mutate: func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "dev-secret-change-me"
		}, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.JWTTTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
