package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "AUTHGATE_"

// parseEnv overlays cfg with AUTHGATE_* variables. Unset variables leave the
// current value alone.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}
