package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds every knob the web client reads from the environment.
// The course API base URL is the only configuration point for data access;
// everything else concerns the identity provider, cookies, and the server
// lifecycle.
type Config struct {
	Addr     string `env:"PATHSHALA_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// External course/enrollment API.
	CourseAPIBaseURL string `env:"COURSE_API_BASE_URL" envDefault:"http://localhost:3000"`

	// External identity provider.
	IdentityBaseURL string `env:"IDENTITY_BASE_URL" envDefault:"http://localhost:9099"`
	IdentityAPIKey  string `env:"IDENTITY_API_KEY"`

	// Google social login (OAuth 2.0 authorization-code flow).
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:8080/auth/google/callback"`

	// Cookie store for flash notices, OAuth state, and the post-login
	// return path.
	CookieKey string `env:"COOKIE_KEY" envDefault:"dev-cookie-key-change-in-production"`

	// Durable local state (theme preference, persisted credentials).
	DataDir string `env:"PATHSHALA_DATA_DIR" envDefault:".pathshala"`

	// Login endpoint rate limiting.
	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT" envDefault:"5"`
	LoginRateBurst int     `env:"LOGIN_RATE_BURST" envDefault:"10"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// Load reads configuration from a .env file (when present) and the process
// environment so main stays lean.
func Load() (*Config, error) {
	// Missing .env is fine; system environment still applies.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.CourseAPIBaseURL == "" {
		return fmt.Errorf("COURSE_API_BASE_URL must not be empty")
	}
	if c.IdentityBaseURL == "" {
		return fmt.Errorf("IDENTITY_BASE_URL must not be empty")
	}
	return nil
}
