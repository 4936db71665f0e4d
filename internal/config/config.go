package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const (
	CatalogStatic   = "static"
	CatalogPostgres = "postgres"
	CatalogHTTP     = "http"
)

type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	TelegramToken string `env:"TELEGRAM_TOKEN"`
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`

	CatalogSource   string        `env:"CATALOG_SOURCE" envDefault:"static"`
	CatalogURL      string        `env:"CATALOG_URL"`
	CatalogToken    string        `env:"CATALOG_TOKEN"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"10m"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"REDIS_TTL" envDefault:"24h"`
	RedisPrefix   string        `env:"REDIS_PREFIX" envDefault:"detailing:"`

	Database Database `envPrefix:"DB_"`

	AnimationDuration time.Duration `env:"ANIMATION_DURATION" envDefault:"800ms"`
	FrameInterval     time.Duration `env:"FRAME_INTERVAL" envDefault:"16ms"`
	BotFrameInterval  time.Duration `env:"BOT_FRAME_INTERVAL" envDefault:"250ms"`
	// PreviewIdleTimeout frees a chat's animation once it has rested this long.
	PreviewIdleTimeout time.Duration `env:"PREVIEW_IDLE_TIMEOUT" envDefault:"2m"`

	ToggleRateLimit  int64         `env:"TOGGLE_RATE_LIMIT" envDefault:"30"`
	ToggleRateWindow time.Duration `env:"TOGGLE_RATE_WINDOW" envDefault:"10s"`

	Contact Contact `envPrefix:"CONTACT_"`

	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
}

type Database struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER"`
	Password        string        `env:"PASSWORD"`
	Name            string        `env:"NAME"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

// Contact is shown instead of a booking flow.
type Contact struct {
	Phone      string `env:"PHONE" envDefault:"(555) 010-4477"`
	Email      string `env:"EMAIL" envDefault:"book@detailing.example"`
	BookingURL string `env:"BOOKING_URL" envDefault:"https://detailing.example/contact"`
}

// DSN is the lib/pq connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.AnimationDuration <= 0 {
		return fmt.Errorf("ANIMATION_DURATION must be positive, got %s", c.AnimationDuration)
	}
	if c.FrameInterval <= 0 || c.BotFrameInterval <= 0 {
		return fmt.Errorf("frame intervals must be positive")
	}

	switch c.CatalogSource {
	case CatalogStatic:
	case CatalogPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			return fmt.Errorf("DB_HOST, DB_USER and DB_NAME are required for postgres catalog")
		}
	case CatalogHTTP:
		if c.CatalogURL == "" {
			return fmt.Errorf("CATALOG_URL is required for http catalog")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.CatalogSource)
	}
	return nil
}

// RequireBot checks the settings only the Telegram front end needs.
func (c *Config) RequireBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required for selection sessions")
	}
	return nil
}
