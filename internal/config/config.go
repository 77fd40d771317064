package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/accountsetup/internal/flagx"
	"github.com/go-playground/validator/v10"
)

const (
	appDirName = "accountsetup"

	defaultMaxLoginAttempts = 5
	defaultLockDuration     = 2 * time.Minute
	defaultIOTimeout        = 5 * time.Second
	defaultLogLevel         = "info"
)

// Config holds runtime settings for the accountsetup CLI.
type Config struct {
	DatabasePath     string        `validate:"required"`
	KeyFilePath      string        `validate:"required"`
	MaxLoginAttempts int           `validate:"min=1,max=100"`
	LockDuration     time.Duration `validate:"min=1s"`
	IOTimeout        time.Duration `validate:"min=10ms"`
	LogLevel         string        `validate:"oneof=debug info warn error"`
}

// LoadDefaults populates c with defaults. Files live under the user's config
// directory, or the working directory when that is unknown.
func (c *Config) LoadDefaults() {
	dir := appDirName
	if base, err := os.UserConfigDir(); err == nil {
		dir = filepath.Join(base, appDirName)
	}

	c.DatabasePath = filepath.Join(dir, "account.db")
	c.KeyFilePath = filepath.Join(dir, "install.key")
	c.MaxLoginAttempts = defaultMaxLoginAttempts
	c.LockDuration = defaultLockDuration
	c.IOTimeout = defaultIOTimeout
	c.LogLevel = defaultLogLevel
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig builds a Config from defaults, the environment, the JSON file
// and os.Args, in that order, and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, flagx.ConfigFileFlag()); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
