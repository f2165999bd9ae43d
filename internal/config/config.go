package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendNeo4j    = "neo4j"
)

type Config struct {
	Env        string
	ServerPort string

	StorageBackend string
	GraphBackend   string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	RedisURL        string
	ProfileCacheTTL time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins   []string
	UploadDir     string
	PublicBaseURL string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		ServerPort:      getEnv("SERVER_PORT", "5000"),
		StorageBackend:  getEnv("STORAGE_BACKEND", BackendPostgres),
		GraphBackend:    getEnv("GRAPH_BACKEND", BackendPostgres),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "devlog"),
		DBPassword:      getEnv("DB_PASSWORD", "devlog_dev_password"),
		DBName:          getEnv("DB_NAME", "devlog"),
		Neo4jURI:        getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:       getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:   getEnv("NEO4J_PASSWORD", "password"),
		RedisURL:        getEnv("REDIS_URL", ""),
		ProfileCacheTTL: getEnvDuration("PROFILE_CACHE_TTL", 5*time.Minute),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:          getEnvDuration("JWT_TTL", 30*24*time.Hour),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:5000"), "/"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks combinations that would otherwise fail late at startup.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.GraphBackend {
	case BackendPostgres, BackendNeo4j:
	default:
		return fmt.Errorf("unknown GRAPH_BACKEND %q", c.GraphBackend)
	}

	if c.StorageBackend == BackendMemory && c.GraphBackend != BackendPostgres {
		return fmt.Errorf("GRAPH_BACKEND=%s requires STORAGE_BACKEND=postgres", c.GraphBackend)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() && c.JWTSecret == "dev-secret-change-me" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	return nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}

	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
