package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
)

// Supported values for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL        string        `env:"DATABASE_URL"`
	DBDriver           string        `env:"DB_DRIVER, default=postgres"`
	DBMaxOpenConns     int           `env:"DB_MAX_OPEN_CONNS, default=25"`
	DBMaxIdleConns     int           `env:"DB_MAX_IDLE_CONNS, default=5"`
	DBConnMaxLifetime  time.Duration `env:"DB_CONN_MAX_LIFETIME, default=5m"`
	Port               string        `env:"PORT, default=8080"`
	GoEnv              string        `env:"GO_ENV, default=development"`
	LogLevel           string        `env:"LOG_LEVEL, default=info"`
	LogPretty          bool          `env:"LOG_PRETTY, default=false"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS, default=*"`
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// In production variables are set directly, so missing files are fine
			log.Debug().Msg("No .env file found, using system environment variables")
		}
	} else {
		log.Debug().Str("file", envFile).Msg("Loaded configuration file")
	}

	return Process(context.Background(), envconfig.OsLookuper())
}

// Process decodes configuration from lookuper and validates it.
func Process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", c.DBDriver)
		}
	case DriverSQLite:
		if c.DatabaseURL == "" {
			c.DatabaseURL = "printshop.db"
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (expected postgres, mysql or sqlite)", c.DBDriver)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
