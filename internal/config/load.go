package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// Resolved is the effective configuration after all override layers, along
// with the config file path that was consulted.
type Resolved struct {
	Config
	Path     string // config file path consulted
	FromFile bool   // false when Path did not exist and defaults were used
}

// Load reads and parses a TOML config file, validates it, and returns the
// resulting Config. Unknown keys are fatal errors with "did you mean?"
// suggestions.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := checkUnknownKeys(&md); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns
// a Config populated with all default values. The boolean reports whether
// the file was read.
func LoadOrDefault(path string) (*Config, bool, error) {
	if path == "" {
		return DefaultConfig(), false, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), false, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, false, err
	}

	return cfg, true, nil
}

// Resolve loads configuration and applies the four-layer override chain:
// defaults -> config file -> environment variables -> CLI flags.
// The result is validated as a whole, including fields such as the library
// root that may only be supplied by a later layer.
func Resolve(env EnvOverrides, cli CLIOverrides, logger *slog.Logger) (*Resolved, error) {
	// 1. Resolve config path: CLI > env > default
	cfgPath := DefaultConfigPath()
	if env.ConfigPath != "" {
		cfgPath = env.ConfigPath
	}

	if cli.ConfigPath != "" {
		cfgPath = cli.ConfigPath
	}

	// 2. Load config file (returns defaults if no file exists)
	cfg, fromFile, err := LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	logger.Debug("config loaded",
		slog.String("path", cfgPath),
		slog.Bool("from_file", fromFile),
	)

	// 3. Apply env overrides
	if env.Root != "" {
		cfg.Library.Root = env.Root
	}

	if env.APIKey != "" {
		cfg.Catalog.APIKey = env.APIKey
	}

	// 4. Apply CLI overrides (pointer fields: nil = not specified)
	if cli.Root != nil {
		cfg.Library.Root = *cli.Root
	}

	if cli.IssueLog != nil {
		cfg.Logging.IssueLog = *cli.IssueLog
	}

	cfg.Library.Root = expandTilde(cfg.Library.Root)
	cfg.Watch.PIDFile = expandTilde(cfg.Watch.PIDFile)

	// 5. Validate the final merged result
	if err := ValidateResolved(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &Resolved{Config: *cfg, Path: cfgPath, FromFile: fromFile}, nil
}
