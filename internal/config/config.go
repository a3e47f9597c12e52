// Package config loads service configuration from environment variables.
//
// Variables use the RENTORA_ prefix. Validation happens once at startup so a
// misconfigured signing secret fails the process before it serves a single
// session, never per request.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full configuration of the auth sidecar.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"RENTORA_HTTP_ADDR" envDefault:":8080"`

	// PGDSN is the PostgreSQL DSN of the profile store.
	PGDSN string `env:"RENTORA_PG_DSN"`

	// AuthSecret signs session credentials (HS256).
	AuthSecret string `env:"RENTORA_AUTH_SECRET"`

	// ServiceToken authenticates the external authentication engine when it
	// calls the hook and session endpoints.
	ServiceToken string `env:"RENTORA_SERVICE_TOKEN"`

	// TokenTTL is the lifetime of minted credentials.
	TokenTTL time.Duration `env:"RENTORA_TOKEN_TTL" envDefault:"1h"`

	// Issuer is the iss claim of minted credentials.
	Issuer string `env:"RENTORA_TOKEN_ISSUER" envDefault:"rentora-auth"`

	// FrontendOrigin is the SPA origin allowed by CORS.
	FrontendOrigin string `env:"RENTORA_FRONTEND_URL" envDefault:"http://localhost:5173"`

	// StoreTimeout bounds each profile-store round-trip so a slow store fails
	// session issuance instead of hanging it.
	StoreTimeout time.Duration `env:"RENTORA_STORE_TIMEOUT" envDefault:"3s"`

	// Rate limiting for the public surface.
	RateBurst  int `env:"RENTORA_RATE_BURST" envDefault:"50"`
	RatePerSec int `env:"RENTORA_RATE_PER_SEC" envDefault:"25"`

	// Outbound email used by the collaborator's verification/reset flows.
	SMTP SMTPConfig
}

// SMTPConfig configures the outbound mailer.
type SMTPConfig struct {
	Host     string `env:"RENTORA_SMTP_HOST"`
	Port     int    `env:"RENTORA_SMTP_PORT" envDefault:"587"`
	User     string `env:"RENTORA_SMTP_USER"`
	Password string `env:"RENTORA_SMTP_PASSWORD"`
	From     string `env:"RENTORA_EMAIL_FROM" envDefault:"no-reply@localhost"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.sanitize()
	return cfg, nil
}

func (c *Config) sanitize() {
	c.Addr = strings.TrimSpace(c.Addr)
	c.AuthSecret = strings.TrimSpace(c.AuthSecret)
	c.ServiceToken = strings.TrimSpace(c.ServiceToken)
	c.Issuer = strings.TrimSpace(c.Issuer)
	c.FrontendOrigin = strings.TrimRight(strings.TrimSpace(c.FrontendOrigin), "/")
	if c.TokenTTL <= 0 {
		c.TokenTTL = time.Hour
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 3 * time.Second
	}
	if c.RateBurst <= 0 {
		c.RateBurst = 50
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = 25
	}
}

// Validate reports configuration errors that must stop startup.
func (c Config) Validate() error {
	var errs []error
	if c.AuthSecret == "" {
		errs = append(errs, errors.New("RENTORA_AUTH_SECRET is required"))
	}
	if c.ServiceToken == "" {
		errs = append(errs, errors.New("RENTORA_SERVICE_TOKEN is required"))
	}
	if c.PGDSN == "" {
		errs = append(errs, errors.New("RENTORA_PG_DSN is required"))
	}
	return errors.Join(errs...)
}
