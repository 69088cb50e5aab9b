// Package config loads application configuration from environment
// variables with CLI-flag overrides, validates it, and provides defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	ListenAddr string `env:"LISTEN_ADDR" env-default:":3001"`
	BaseURL    string `env:"BASE_URL"`
	StaticDir  string `env:"STATIC_DIR" env-default:"./public"`

	// Storage backend. An empty SurrealURL selects the in-memory store.
	InMemory    bool   `env:"IN_MEMORY"`
	SurrealURL  string `env:"SURREALDB_URL"`
	SurrealNS   string `env:"SURREALDB_NS" env-default:"notes"`
	SurrealDB   string `env:"SURREALDB_DB" env-default:"noteapp"`
	SurrealUser string `env:"SURREALDB_USER"`
	SurrealPass string `env:"SURREALDB_PASS"`
}

// ValidationError collects every configuration problem found in one pass.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// ParseFlags registers and parses the CLI flags. Call before LoadConfig.
func ParseFlags() (inMemory bool, addr string) {
	flag.BoolVar(&inMemory, "in-memory", false, "Use the in-memory note store even when SURREALDB_URL is set")
	flag.StringVar(&addr, "addr", "", "Listen address (overrides LISTEN_ADDR env var)")
	flag.Parse()
	return inMemory, addr
}

// LoadConfig loads configuration from environment variables, applies flag
// overrides, and validates the result.
func LoadConfig(inMemory bool, addr string) (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if inMemory {
		cfg.InMemory = true
	}
	if addr != "" {
		cfg.ListenAddr = addr
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost" + cfg.ListenAddr
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.ListenAddr) == "" {
		errs = append(errs, "LISTEN_ADDR must not be empty")
	}

	if c.SurrealURL != "" {
		if !strings.HasPrefix(c.SurrealURL, "ws://") && !strings.HasPrefix(c.SurrealURL, "wss://") {
			errs = append(errs, "SURREALDB_URL must be a ws:// or wss:// endpoint (e.g. ws://localhost:8000/rpc)")
		}
		if c.SurrealNS == "" {
			errs = append(errs, "SURREALDB_NS must not be empty when SURREALDB_URL is set")
		}
		if c.SurrealDB == "" {
			errs = append(errs, "SURREALDB_DB must not be empty when SURREALDB_URL is set")
		}
	}
	if (c.SurrealUser == "") != (c.SurrealPass == "") {
		errs = append(errs, "SURREALDB_USER and SURREALDB_PASS must be set together")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// UseMemoryStore reports whether the in-memory backend should be used.
func (c *Config) UseMemoryStore() bool {
	return c.InMemory || c.SurrealURL == ""
}

// PrintStartupSummary prints a human-readable summary to stderr.
func (c *Config) PrintStartupSummary() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "notes server starting...")
	if c.UseMemoryStore() {
		fmt.Fprintln(os.Stderr, "  Storage: in-memory")
	} else {
		fmt.Fprintf(os.Stderr, "  Storage: SurrealDB (%s ns=%s db=%s)\n", c.SurrealURL, c.SurrealNS, c.SurrealDB)
	}
	fmt.Fprintf(os.Stderr, "  Listen:  %s\n", c.ListenAddr)
	fmt.Fprintf(os.Stderr, "  Base:    %s\n", c.BaseURL)
	fmt.Fprintln(os.Stderr, "")
}

// MustLoadConfig loads configuration and panics if validation fails.
// Use in main() to fail fast on bad config.
func MustLoadConfig(inMemory bool, addr string) *Config {
	cfg, err := LoadConfig(inMemory, addr)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			panic(validationErr.Error())
		}
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return cfg
}
