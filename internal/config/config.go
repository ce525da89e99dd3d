package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment leaves a value unset.
const (
	DefaultSnapshotPath   = "transactions.json"
	DefaultRequestTimeout = 30 * time.Second
)

// Config carries everything the remote client and sync service need. There
// is no process-wide mutable state: a Config is built once and passed into
// constructors explicitly. The token is treated as a pre-configured opaque
// credential.
type Config struct {
	// BaseURL is the root of the remote ledger API, e.g. https://ledger.example.com/api/v1.
	BaseURL string

	// Token is the bearer credential presented on every request.
	Token string

	// SnapshotPath is the local snapshot file the transaction store owns.
	SnapshotPath string

	// RequestTimeout bounds each remote exchange.
	RequestTimeout time.Duration

	// UseFixture selects the in-memory ledger backend instead of HTTP.
	UseFixture bool
}

// Load builds a Config from the environment, reading an optional .env file
// first. Unset values fall back to defaults; BaseURL and Token have none and
// are validated by Validate.
func Load() (Config, error) {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:        os.Getenv("LEDGER_BASE_URL"),
		Token:          os.Getenv("LEDGER_TOKEN"),
		SnapshotPath:   getenv("LEDGER_SNAPSHOT", DefaultSnapshotPath),
		RequestTimeout: DefaultRequestTimeout,
		UseFixture:     os.Getenv("LEDGER_FIXTURE") == "true",
	}

	if raw := os.Getenv("LEDGER_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse LEDGER_TIMEOUT %q: %w", raw, err)
		}
		cfg.RequestTimeout = timeout
	}

	return cfg, nil
}

// Validate checks that the config can actually reach a backend. The fixture
// backend needs no URL or credential.
func (c Config) Validate() error {
	if c.UseFixture {
		return nil
	}
	if c.BaseURL == "" {
		return fmt.Errorf("LEDGER_BASE_URL is required")
	}
	if c.Token == "" {
		return fmt.Errorf("LEDGER_TOKEN is required")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
