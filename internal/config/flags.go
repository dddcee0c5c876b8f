package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/authgate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-f string   credential file path
//	-s string   storage backend (file|sqlite)
//	-l string   log level (debug|info|warn|error)
//
// Arguments other than these (and -c/-config, handled by parseJson) are
// ignored.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-f", "-s", "-l"})

	fs := flag.NewFlagSet("authgate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.CredentialFile, "f", cfg.CredentialFile, "credential file path")
	fs.StringVar(&cfg.Storage, "s", cfg.Storage, "storage backend (file|sqlite)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	return nil
}
