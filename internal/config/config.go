package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/cryptox"
	"github.com/dmitrijs2005/authgate/internal/credential"
)

const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config holds runtime settings for the authgate CLI.
//
// Fields:
//   - CredentialFile: path of the JSON credential file (file storage).
//   - Storage: "file" or "sqlite".
//   - SQLiteDSN: database path or DSN (sqlite storage).
//   - MaxAttempts: attempt budget for each sign-in challenge.
//   - MinPasswordLength: shortest password accepted at signup.
//   - Hasher / HashSalt: digest algorithm and, for argon2id, its salt.
//   - FoldPasswordCase: lower-case passwords before hashing (legacy files).
//   - Animate / FrameDelay: terminal animation switch and frame period.
//   - LogLevel: slog level name for diagnostics on stderr.
type Config struct {
	CredentialFile    string        `env:"FILE"`
	Storage           string        `env:"STORAGE"`
	SQLiteDSN         string        `env:"SQLITE_DSN"`
	MaxAttempts       int           `env:"MAX_ATTEMPTS"`
	MinPasswordLength int           `env:"MIN_PASSWORD_LENGTH"`
	Hasher            string        `env:"HASHER"`
	HashSalt          string        `env:"HASH_SALT"`
	FoldPasswordCase  bool          `env:"FOLD_PASSWORD_CASE"`
	Animate           bool          `env:"ANIMATE"`
	FrameDelay        time.Duration `env:"FRAME_DELAY"`
	LogLevel          string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with the behaviour of a plain invocation.
func (c *Config) LoadDefaults() {
	c.CredentialFile = "authen.json"
	c.Storage = StorageFile
	c.SQLiteDSN = "authgate.db"
	c.MaxAttempts = 4
	c.MinPasswordLength = credential.DefaultMinPasswordLength
	c.Hasher = cryptox.HasherSHA256
	c.HashSalt = ""
	c.FoldPasswordCase = false
	c.Animate = true
	c.FrameDelay = 500 * time.Millisecond
	c.LogLevel = "warn"
}

// Validate rejects settings the gate cannot run with.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}
	if c.MinPasswordLength < 1 {
		return fmt.Errorf("min password length must be positive, got %d", c.MinPasswordLength)
	}
	if c.FrameDelay < 0 {
		return fmt.Errorf("frame delay must not be negative, got %s", c.FrameDelay)
	}
	switch c.Storage {
	case StorageFile:
		if c.CredentialFile == "" {
			return fmt.Errorf("credential file path is empty")
		}
	case StorageSQLite:
		if c.SQLiteDSN == "" {
			return fmt.Errorf("sqlite dsn is empty")
		}
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownStorage, c.Storage)
	}
	if _, err := cryptox.NewHasher(c.Hasher, c.HashSalt); err != nil {
		return err
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if -c/-config is given), AUTHGATE_* environment variables and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
