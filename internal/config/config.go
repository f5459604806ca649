package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	Port      int    `envconfig:"PORT" default:"8080"`
	JWTSecret string `envconfig:"JWT_SECRET"`

	Portal PortalConfig
	DB     DBConfig
	Redis  RedisConfig
}

// PortalConfig holds the member portal credentials. Both fields are required
// for any sync traffic; the provider fails fast before touching the network
// when either is missing.
type PortalConfig struct {
	URL    string `envconfig:"PORTAL_API_URL"`
	APIKey string `envconfig:"PORTAL_API_KEY" masked:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"PG_HOST" default:"localhost"`
	Port     string `envconfig:"PG_PORT" default:"5432"`
	User     string `envconfig:"PG_USER"`
	Password string `envconfig:"PG_PASSWORD" masked:"true"`
	Name     string `envconfig:"PG_DB"`
	SSLMode  string `envconfig:"PG_SSLMODE" default:"disable"`
}

// DSN builds the postgres connection string shared by sqlx and GORM.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" masked:"true"`
}

// Load reads .env when present, then processes environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}
