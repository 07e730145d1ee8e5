package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from the environment (and .env when present).
type Config struct {
	Port string `env:"PORT" envDefault:"9000"`
	Env  string `env:"APP_ENV" envDefault:"development"`

	// Store
	StoreDriver  string        `env:"STORE_DRIVER" envDefault:"sqlite"`
	DatabaseURL  string        `env:"DATABASE_URL"`
	SQLitePath   string        `env:"SQLITE_PATH" envDefault:"./data/catalog.db"`
	DBHost       string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort       string        `env:"DB_PORT" envDefault:"5432"`
	DBUser       string        `env:"DB_USER"`
	DBPassword   string        `env:"DB_PASSWORD"`
	DBName       string        `env:"DB_NAME"`
	RedisURL     string        `env:"REDIS_URL"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`

	// Auth
	JWTSecret  string        `env:"JWT_SECRET" envDefault:"change-me-precast-catalog"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"72h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"`

	// SuperAdminPassword seeds the super admin account on first start.
	SuperAdminPassword string `env:"SUPER_ADMIN_PASSWORD"`

	// Rate limiting for login/signup, per client IP.
	AuthRateLimit  int           `env:"AUTH_RATE_LIMIT" envDefault:"10"`
	AuthRatePeriod time.Duration `env:"AUTH_RATE_PERIOD" envDefault:"1m"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:8080"`

	CatalogPath string `env:"CATALOG_PATH"`

	SessionPurgeSpec string `env:"SESSION_PURGE_CRON" envDefault:"@every 1h"`

	// SMTP; notifications are disabled when SMTPHost is empty.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"no-reply@precast.local"`

	// AppURL is the public web address used for links in emails and QR codes.
	AppURL string `env:"APP_URL" envDefault:"http://localhost:3000"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the server cannot start without.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "memory", "sqlite", "postgres", "gorm-postgres", "gorm-mysql", "redis":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver == "redis" && c.RedisURL == "" {
		return fmt.Errorf("STORE_DRIVER=redis requires REDIS_URL")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// PostgresDSN builds a lib/pq style DSN from DATABASE_URL or the DB_* variables.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// MySQLDSN builds a go-sql-driver style DSN from DATABASE_URL or the DB_* variables.
func (c *Config) MySQLDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// SMTPEnabled reports whether email notifications are configured.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}
