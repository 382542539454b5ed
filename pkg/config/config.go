package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console"`

	StorageDriver  string        `env:"STORAGE_DRIVER" envDefault:"memory"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	RedisURL       string        `env:"REDIS_URL"`
	ReportCacheTTL time.Duration `env:"REPORT_CACHE_TTL" envDefault:"15m"`

	// Security configuration
	AllowedOrigins  string  `env:"ALLOWED_ORIGINS"`
	EnableRateLimit bool    `env:"ENABLE_RATE_LIMIT" envDefault:"true"`
	RateLimitRPS    float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst  int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
	MaxRequestSize  int64   `env:"MAX_REQUEST_SIZE" envDefault:"1048576"`

	ReanalysisInterval time.Duration `env:"REANALYSIS_INTERVAL" envDefault:"0s"`
	ReanalysisWorkers  int           `env:"REANALYSIS_WORKERS" envDefault:"4"`

	// Listing page fetches for identification
	EnableListingFetch  bool          `env:"ENABLE_LISTING_FETCH" envDefault:"false"`
	ListingFetchRPS     float64       `env:"LISTING_FETCH_RPS" envDefault:"1"`
	ListingFetchTimeout time.Duration `env:"LISTING_FETCH_TIMEOUT" envDefault:"10s"`
}

// New creates a new configuration instance from environment variables. A
// .env file in the working directory is loaded first when present.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.ReanalysisWorkers < 1 {
		return fmt.Errorf("REANALYSIS_WORKERS must be at least 1")
	}
	if c.EnableListingFetch && c.ListingFetchRPS <= 0 {
		return fmt.Errorf("LISTING_FETCH_RPS must be positive when listing fetch is enabled")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsePostgres returns true if vehicles and reports are stored in PostgreSQL
func (c *Config) UsePostgres() bool {
	return c.StorageDriver == StoragePostgres
}

// GetAllowedOrigins returns a slice of allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	if c.AllowedOrigins == "" {
		return []string{}
	}
	origins := strings.Split(c.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
