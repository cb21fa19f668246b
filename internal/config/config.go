package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	StoreDriver                      string `mapstructure:"STORE_DRIVER"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	FirebaseWebAPIKey                string `mapstructure:"FIREBASE_WEB_API_KEY"`
	EncryptionKey                    string `mapstructure:"ENCRYPTION_KEY"` // Base64 encoded
	ClientURL                        string `mapstructure:"CLIENT_URL"`
	EnableGoogleSignIn               bool   `mapstructure:"ENABLE_GOOGLE_SIGN_IN"`
	ReconcileSchedule                string `mapstructure:"RECONCILE_SCHEDULE"`
	IndexRebuildSchedule             string `mapstructure:"INDEX_REBUILD_SCHEDULE"`
	DefaultCurrency                  string `mapstructure:"DEFAULT_CURRENCY"`
	DefaultTimezone                  string `mapstructure:"DEFAULT_TIMEZONE"`
}

var keys = []string{
	"PORT",
	"GIN_MODE",
	"STORE_DRIVER",
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"FIREBASE_WEB_API_KEY",
	"ENCRYPTION_KEY",
	"CLIENT_URL",
	"ENABLE_GOOGLE_SIGN_IN",
	"RECONCILE_SCHEDULE",
	"INDEX_REBUILD_SCHEDULE",
	"DEFAULT_CURRENCY",
	"DEFAULT_TIMEZONE",
}

// LoadConfig loads configuration from environment variables using Viper.
// Outside release mode a .env file in the working directory is loaded first;
// PATH_CONFIG may name a YAML file whose values sit below the environment.
func LoadConfig() (*Config, error) {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("STORE_DRIVER", StoreFirestore)
	v.SetDefault("CLIENT_URL", "http://localhost:3000")
	v.SetDefault("ENABLE_GOOGLE_SIGN_IN", false)
	v.SetDefault("RECONCILE_SCHEDULE", "0 0 3 * * *")
	v.SetDefault("INDEX_REBUILD_SCHEDULE", "0 30 3 * * 0")
	v.SetDefault("DEFAULT_CURRENCY", "CLP")
	v.SetDefault("DEFAULT_TIMEZONE", "America/Santiago")

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path := os.Getenv("PATH_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required keys. Firebase settings are only required by
// the firestore store driver.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StoreFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required")
		}
		if c.GoogleApplicationCredentials == "" && c.FirebaseServiceAccountJSONBase64 == "" {
			return errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
		}
		if c.FirebaseWebAPIKey == "" {
			return errors.New("FIREBASE_WEB_API_KEY is required")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreFirestore, StoreMemory, c.StoreDriver)
	}
	if c.EncryptionKey == "" {
		return errors.New("ENCRYPTION_KEY is required")
	}
	if len(c.DefaultCurrency) != 3 {
		return fmt.Errorf("DEFAULT_CURRENCY must be a 3-letter code, got %q", c.DefaultCurrency)
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}
