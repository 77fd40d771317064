// Package config loads runtime configuration for the accountsetup CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and ACCOUNTSETUP_* environment
//     variables; the process environment wins over the file.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-d string   path of the SQLite database
//	-k string   path of the install key file
//	-a int      consecutive failed logins before the account locks
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "2m" or integer
// nanoseconds:
//
//	{
//	  "database_path": "/home/jane/.config/accountsetup/account.db",
//	  "key_file_path": "/home/jane/.config/accountsetup/install.key",
//	  "max_login_attempts": 5,
//	  "lock_duration": "2m",
//	  "io_timeout": "5s",
//	  "log_level": "info"
//	}
//
// The result is checked with validator/v10 before it is returned.
package config
