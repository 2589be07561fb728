package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable; nested sections use "__",
// e.g. CONFIG__JWT__ACCESS_TOKEN_TTL=30m or CONFIG__CORS__ORIGINS=a,b.
const EnvPrefix = "CONFIG__"

// parseEnv overlays environment variables onto config. Unset variables
// leave the current values untouched.
func parseEnv(config *Config) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
