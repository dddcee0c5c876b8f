package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/authgate/internal/flagx"
)

// Duration accepts either a Go duration string ("500ms") or integer
// nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from the zero value, so a partial file only
// overrides what it names.
type JsonConfig struct {
	CredentialFile    *string   `json:"credential_file"`
	Storage           *string   `json:"storage"`
	SQLiteDSN         *string   `json:"sqlite_dsn"`
	MaxAttempts       *int      `json:"max_attempts"`
	MinPasswordLength *int      `json:"min_password_length"`
	Hasher            *string   `json:"hasher"`
	HashSalt          *string   `json:"hash_salt"`
	FoldPasswordCase  *bool     `json:"fold_password_case"`
	Animate           *bool     `json:"animate"`
	FrameDelay        *Duration `json:"frame_delay"`
	LogLevel          *string   `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Without
// either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	jc.apply(cfg)
	return nil
}

func (jc *JsonConfig) apply(cfg *Config) {
	setIf(&cfg.CredentialFile, jc.CredentialFile)
	setIf(&cfg.Storage, jc.Storage)
	setIf(&cfg.SQLiteDSN, jc.SQLiteDSN)
	setIf(&cfg.MaxAttempts, jc.MaxAttempts)
	setIf(&cfg.MinPasswordLength, jc.MinPasswordLength)
	setIf(&cfg.Hasher, jc.Hasher)
	setIf(&cfg.HashSalt, jc.HashSalt)
	setIf(&cfg.FoldPasswordCase, jc.FoldPasswordCase)
	setIf(&cfg.Animate, jc.Animate)
	setIf(&cfg.LogLevel, jc.LogLevel)
	if jc.FrameDelay != nil {
		cfg.FrameDelay = jc.FrameDelay.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
