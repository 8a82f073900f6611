package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11" // struct-tag driven environment parsing
	"github.com/joho/godotenv"    // optional .env file for local runs
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable; nested structs group the settings owned by a
// single subsystem (database, auth, redis, broker, logging).
type Config struct {
	Env         string   `env:"APP_ENV"          envDefault:"dev"`  // application environment (dev/test/prod)
	Port        string   `env:"APP_PORT"         envDefault:"8080"` // HTTP port to listen on
	CORSOrigins []string `env:"CORS_ORIGINS"     envDefault:"*" envSeparator:","`

	DB        DBConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	AMQP      AMQPConfig
	Log       LogConfig
}

// DBConfig describes the relational store. Driver selects between the
// production MySQL backend and the embedded SQLite backend used for local
// development and tests.
type DBConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"mysql"` // mysql | sqlite
	User   string `env:"DB_USER"`
	Pass   string `env:"DB_PASS"` // empty allowed
	Host   string `env:"DB_HOST"   envDefault:"localhost"`
	Port   string `env:"DB_PORT"   envDefault:"3306"`
	Name   string `env:"DB_NAME"   envDefault:"casting"`
	Path   string `env:"DB_PATH"   envDefault:"casting.db"` // sqlite file, or :memory:
}

// AMQPConfig configures the audit event broker. An empty URL disables
// publishing entirely.
type AMQPConfig struct {
	URL      string `env:"AMQP_URL"`
	Queue    string `env:"AMQP_AUDIT_QUEUE" envDefault:"casting.audit"`
	AuditLog string `env:"AUDIT_LOG_PATH"   envDefault:"logs/audit.log"`
}

// LogConfig controls the slog setup done by the CLI.
type LogConfig struct {
	Debug bool   `env:"DEBUG"`
	File  string `env:"LOG_FILE"` // optional JSON sink next to stdout
}

// Load reads an optional .env file, then parses the environment into a
// Config and validates it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.RateLimit.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.DB.Driver) {
	case "mysql":
		if c.DB.User == "" {
			errs = append(errs, errors.New("DB_USER is required for the mysql driver"))
		}
	case "sqlite":
		if c.DB.Path == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}
	if c.Auth.KeySetURL() == "" {
		errs = append(errs, errors.New("AUTH0_DOMAIN or JWKS_URL is required"))
	}
	if c.Auth.Audience == "" {
		errs = append(errs, errors.New("API_AUDIENCE is required"))
	}
	if c.Auth.Issuer() == "" {
		errs = append(errs, errors.New("AUTH_ISSUER is required when AUTH0_DOMAIN is unset"))
	}
	return errors.Join(errs...)
}
