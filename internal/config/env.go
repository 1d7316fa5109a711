package config

import (
	"log/slog"
	"os"
)

// Environment variable names for overrides.
const (
	EnvConfig = "STASH_FOLDERID_CONFIG"
	EnvRoot   = "STASH_FOLDERID_ROOT"
	EnvAPIKey = "STASH_FOLDERID_API_KEY"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath string // STASH_FOLDERID_CONFIG: override config file path
	Root       string // STASH_FOLDERID_ROOT: library root override
	APIKey     string // STASH_FOLDERID_API_KEY: catalog API key override
}

// ReadEnvOverrides reads environment variables and returns any overrides found.
// This does not modify the Config; Resolve applies the relevant fields.
func ReadEnvOverrides(logger *slog.Logger) EnvOverrides {
	env := EnvOverrides{
		ConfigPath: os.Getenv(EnvConfig),
		Root:       os.Getenv(EnvRoot),
		APIKey:     os.Getenv(EnvAPIKey),
	}

	logger.Debug("environment overrides read",
		slog.String("config_path", env.ConfigPath),
		slog.String("root", env.Root),
		slog.Bool("api_key_set", env.APIKey != ""),
	)

	return env
}
