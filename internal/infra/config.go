package infra

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Session store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Remote betting API
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:5000/api"`
	APIToken   string        `env:"API_TOKEN"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	// Circuit breaker on remote endpoints; a threshold of 0 disables it
	BreakerThreshold int           `env:"API_BREAKER_THRESHOLD" envDefault:"5"`
	BreakerReset     time.Duration `env:"API_BREAKER_RESET" envDefault:"30s"`

	// Gateway
	GatewayPort        int    `env:"GATEWAY_PORT" envDefault:"3200"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	MarketsFile        string `env:"MARKETS_FILE" envDefault:"markets.yaml"`

	// Date rollover check
	RolloverInterval time.Duration `env:"ROLLOVER_INTERVAL" envDefault:"30s"`

	// Session store
	SessionStore string `env:"SESSION_STORE" envDefault:"memory"`
	SessionScope string `env:"SESSION_SCOPE" envDefault:"default"`
	RedisURL     string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// Database (postgres session store)
	DatabaseURL   string `env:"DATABASE_URL"`
	PGHost        string `env:"PGHOST" envDefault:"localhost"`
	PGPort        int    `env:"PGPORT" envDefault:"5432"`
	PGUser        string `env:"PGUSER" envDefault:"matka"`
	PGPassword    string `env:"PGPASSWORD" envDefault:"matka"`
	PGDatabase    string `env:"PGDATABASE" envDefault:"matka"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	// Kafka
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaTopic   string `env:"KAFKA_TOPIC_PREFIX" envDefault:"matka.bettor"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at first use.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	switch c.SessionStore {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("SESSION_STORE must be one of memory, redis, postgres; got %q", c.SessionStore)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.RolloverInterval <= 0 {
		return fmt.Errorf("ROLLOVER_INTERVAL must be positive")
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
