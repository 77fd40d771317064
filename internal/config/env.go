package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDatabasePath     = "ACCOUNTSETUP_DB_PATH"
	EnvKeyFilePath      = "ACCOUNTSETUP_KEY_FILE"
	EnvMaxLoginAttempts = "ACCOUNTSETUP_MAX_LOGIN_ATTEMPTS"
	EnvLockDuration     = "ACCOUNTSETUP_LOCK_DURATION"
	EnvIOTimeout        = "ACCOUNTSETUP_IO_TIMEOUT"
	EnvLogLevel         = "ACCOUNTSETUP_LOG_LEVEL"
)

// loadEnv overlays cfg with ACCOUNTSETUP_* variables from the process
// environment and from the dotenv file at path. A missing file is not an error.
func loadEnv(cfg *Config, path string) error {
	fileVars := map[string]string{}
	if path != "" {
		vars, err := godotenv.Read(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("read %s: %w", path, err)
		default:
			fileVars = vars
		}
	}

	return applyEnv(cfg, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	})
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDatabasePath); ok && v != "" {
		cfg.DatabasePath = v
	}
	if v, ok := lookup(EnvKeyFilePath); ok && v != "" {
		cfg.KeyFilePath = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}

	if v, ok := lookup(EnvMaxLoginAttempts); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxLoginAttempts, err)
		}
		cfg.MaxLoginAttempts = n
	}
	if v, ok := lookup(EnvLockDuration); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLockDuration, err)
		}
		cfg.LockDuration = d
	}
	if v, ok := lookup(EnvIOTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIOTimeout, err)
		}
		cfg.IOTimeout = d
	}
	return nil
}
