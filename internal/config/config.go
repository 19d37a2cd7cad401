package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const PROD_STRING = "prod"

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Lock backends used to serialize booking writes per resource.
const (
	LockMemory   = "memory"
	LockPostgres = "postgres"
	LockRedis    = "redis"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv       string   `envconfig:"APP_ENV" default:"dev"`
	IsProduction bool     `ignored:"true"`
	ProdOrigins  []string `envconfig:"PROD_ORIGINS"`
	HTTPAddr     string   `envconfig:"HTTP_ADDR" default:":8080"`

	Storage        string `envconfig:"STORAGE" default:"postgres"`
	DBDSN          string `envconfig:"DB_DSN"`
	MigrateOnStart bool   `envconfig:"MIGRATE_ON_START" default:"true"`

	JWTSecret         string        `envconfig:"JWT_SECRET" required:"true"`
	JWTAccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"15m"`
	BcryptCost        int           `envconfig:"BCRYPT_COST" default:"12"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Business hours are "HH:MM" wall-clock times in BusinessTimezone.
	BusinessOpen     string         `envconfig:"BUSINESS_OPEN" default:"09:00"`
	BusinessClose    string         `envconfig:"BUSINESS_CLOSE" default:"18:00"`
	BusinessTimezone string         `envconfig:"BUSINESS_TIMEZONE" default:"UTC"`
	OpenAt           time.Duration  `ignored:"true"`
	CloseAt          time.Duration  `ignored:"true"`
	Location         *time.Location `ignored:"true"`

	LockBackend string        `envconfig:"LOCK_BACKEND" default:"memory"`
	LockTimeout time.Duration `envconfig:"LOCK_TIMEOUT" default:"5s"`
	LockTTL     time.Duration `envconfig:"LOCK_TTL" default:"10s"`
	RedisAddr   string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	// AMQPURL is optional; booking events are dropped when it is empty.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"coworking.events"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"40"`

	AdminUsername string `envconfig:"ADMIN_USERNAME"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finalize derives computed fields and checks rules envconfig cannot express.
func (c *Config) finalize() error {
	c.IsProduction = c.AppEnv == PROD_STRING

	// JWT secret is required for signing tokens
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.Storage {
	case StoragePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required when STORAGE=%s", StoragePostgres)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid STORAGE %q", c.Storage)
	}

	switch c.LockBackend {
	case LockMemory, LockRedis:
	case LockPostgres:
		if c.Storage != StoragePostgres {
			return fmt.Errorf("LOCK_BACKEND=%s requires STORAGE=%s", LockPostgres, StoragePostgres)
		}
	default:
		return fmt.Errorf("invalid LOCK_BACKEND %q", c.LockBackend)
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("invalid BCRYPT_COST: %d", c.BcryptCost)
	}

	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return fmt.Errorf("invalid BUSINESS_TIMEZONE: %w", err)
	}
	c.Location = loc

	if c.OpenAt, err = parseClock(c.BusinessOpen); err != nil {
		return fmt.Errorf("invalid BUSINESS_OPEN: %w", err)
	}
	if c.CloseAt, err = parseClock(c.BusinessClose); err != nil {
		return fmt.Errorf("invalid BUSINESS_CLOSE: %w", err)
	}
	if c.OpenAt >= c.CloseAt {
		return fmt.Errorf("BUSINESS_OPEN must be before BUSINESS_CLOSE")
	}

	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// parseClock parses "HH:MM" into an offset from midnight.
func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
