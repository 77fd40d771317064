package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/accountsetup/internal/timex"
)

// JsonConfig is a DTO used only for unmarshalling the config file.
type JsonConfig struct {
	DatabasePath     string         `json:"database_path"`
	KeyFilePath      string         `json:"key_file_path"`
	MaxLoginAttempts int            `json:"max_login_attempts"`
	LockDuration     timex.Duration `json:"lock_duration"`
	IOTimeout        timex.Duration `json:"io_timeout"`
	LogLevel         string         `json:"log_level"`
}

// parseJSON overlays cfg with the fields present in the file at path. An
// empty path means no file was given.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.KeyFilePath != "" {
		cfg.KeyFilePath = jc.KeyFilePath
	}
	if jc.MaxLoginAttempts != 0 {
		cfg.MaxLoginAttempts = jc.MaxLoginAttempts
	}
	if jc.LockDuration.Duration != 0 {
		cfg.LockDuration = jc.LockDuration.Duration
	}
	if jc.IOTimeout.Duration != 0 {
		cfg.IOTimeout = jc.IOTimeout.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
