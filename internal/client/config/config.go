package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreSQLite   = "sqlite"
	StoreKeychain = "keychain"
	StoreMemory   = "memory"
)

// Config holds runtime settings for the wallet CLI.
type Config struct {
	APIBaseURL          string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration

	StorePath       string
	StoreBackend    string
	StorePassphrase string
	KeychainService string

	LogLevel   string
	LogBackend string

	// Simulated platform capabilities used by the terminal prompt.
	BiometricHardware   bool
	BiometricEnrolled   bool
	BiometricModalities []string

	PromptCancelLabel   string
	AllowDeviceFallback bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 5 * time.Second

	c.StorePath = defaultStorePath()
	c.StoreBackend = StoreSQLite
	c.KeychainService = "walletkeeper"

	c.LogLevel = "info"
	c.LogBackend = "slog"

	c.BiometricHardware = true
	c.BiometricEnrolled = true
	c.BiometricModalities = []string{"fingerprint"}

	c.PromptCancelLabel = "Use password"
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".walletkeeper", "store.db")
	}
	return filepath.Join(dir, "walletkeeper", "store.db")
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.APIBaseURL == "":
		return errors.New("api base url is required")
	case c.OnlineCheckInterval <= 0:
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	case !slices.Contains([]string{StoreSQLite, StoreKeychain, StoreMemory}, c.StoreBackend):
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	case c.StoreBackend == StoreSQLite && c.StorePath == "":
		return errors.New("store path is required for the sqlite backend")
	case !slices.Contains([]string{"slog", "zap"}, c.LogBackend):
		return fmt.Errorf("unknown log backend %q", c.LogBackend)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := loadEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
