package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/accountsetup/internal/flagx"
)

// parseFlags overlays cfg with -d, -k, -a and -l. Other arguments are
// ignored so -c can be handled elsewhere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-k", "-a", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the SQLite database")
	fs.StringVar(&cfg.KeyFilePath, "k", cfg.KeyFilePath, "path of the install key file")
	fs.IntVar(&cfg.MaxLoginAttempts, "a", cfg.MaxLoginAttempts, "failed logins before the account locks")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
