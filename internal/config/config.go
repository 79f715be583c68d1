// Package config loads folio settings from FOLIO_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL string `env:"FOLIO_DATABASE_URL"` // empty = in-memory store
	Fixture     string `env:"FOLIO_FIXTURE"`      // seed file for the in-memory store

	HTTPAddr      string `env:"FOLIO_HTTP_ADDR" envDefault:":5000"`
	GRPCAddr      string `env:"FOLIO_GRPC_ADDR" envDefault:":5090"`
	WebAddr       string `env:"FOLIO_WEB_ADDR" envDefault:":5173"`
	APIURL        string `env:"FOLIO_API_URL" envDefault:"http://127.0.0.1:5000"`
	AuthToken     string `env:"FOLIO_AUTH_TOKEN"` // empty = admin auth disabled
	NATSURL       string `env:"FOLIO_NATS_URL"`   // empty = no events
	AllowedOrigin string `env:"FOLIO_ALLOWED_ORIGIN" envDefault:"*"`
	HooksFile     string `env:"FOLIO_HOOKS_FILE"` // YAML event hooks; needs FOLIO_NATS_URL

	SessionTTL time.Duration `env:"FOLIO_SESSION_TTL" envDefault:"30m"`
	ViewLimit  int           `env:"FOLIO_VIEW_LIMIT" envDefault:"20"`
	LogLevel   slog.Level    `env:"FOLIO_LOG_LEVEL" envDefault:"INFO"`

	Sync Sync
}

// Sync configures periodic JSONL export.
type Sync struct {
	Interval   time.Duration `env:"FOLIO_SYNC_INTERVAL" envDefault:"0"` // 0 = disabled
	S3Bucket   string        `env:"FOLIO_SYNC_S3_BUCKET"`                // enables S3 when set
	S3Endpoint string        `env:"FOLIO_SYNC_S3_ENDPOINT"`              // custom endpoint for MinIO
	S3Region   string        `env:"FOLIO_SYNC_S3_REGION" envDefault:"us-east-1"`
	S3Key      string        `env:"FOLIO_SYNC_S3_KEY" envDefault:"folio/backup.jsonl"`
	GitRepo    string        `env:"FOLIO_SYNC_GIT_REPO"` // enables git when set; path to clone
	GitFile    string        `env:"FOLIO_SYNC_GIT_FILE" envDefault:"portfolios.jsonl"`
	GitBranch  string        `env:"FOLIO_SYNC_GIT_BRANCH" envDefault:"main"`
}

// Enabled reports whether a sync interval and at least one destination are set.
func (s Sync) Enabled() bool {
	return s.Interval > 0 && (s.S3Bucket != "" || s.GitRepo != "")
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from environ instead of the process
// environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.ViewLimit < 1 {
		return fmt.Errorf("FOLIO_VIEW_LIMIT: must be at least 1, got %d", c.ViewLimit)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("FOLIO_SESSION_TTL: must be positive, got %s", c.SessionTTL)
	}
	if c.Sync.Interval < 0 {
		return fmt.Errorf("FOLIO_SYNC_INTERVAL: must not be negative, got %s", c.Sync.Interval)
	}
	return nil
}
