// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for stash-folderid. It supports a
// four-layer override chain (defaults -> config file -> environment -> CLI
// flags).
package config

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	Library LibraryConfig `toml:"library"`
	Catalog CatalogConfig `toml:"catalog"`
	Remote  RemoteConfig  `toml:"remote"`
	Logging LoggingConfig `toml:"logging"`
	Network NetworkConfig `toml:"network"`
	Watch   WatchConfig   `toml:"watch"`
}

// LibraryConfig locates the folder tree whose immediate subdirectories name
// performers.
type LibraryConfig struct {
	Root string `toml:"root"`
}

// CatalogConfig points at the local Stash GraphQL endpoint. PageSize bounds
// scene and image searches; LookupPageSize bounds performer and gallery
// lookups.
type CatalogConfig struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	PageSize       int    `toml:"page_size"`
	LookupPageSize int    `toml:"lookup_page_size"`
}

// RemoteConfig controls fallback creation from a stash-box endpoint.
type RemoteConfig struct {
	Endpoint       string `toml:"endpoint"`
	AcceptedGender string `toml:"accepted_gender"`
}

// LoggingConfig controls structured log output and the issue log file.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	IssueLog  string `toml:"issue_log"`
}

// NetworkConfig controls HTTP client behavior. Timeout applies to each
// GraphQL request as a whole.
type NetworkConfig struct {
	Timeout   string `toml:"timeout"`
	UserAgent string `toml:"user_agent"`
}

// WatchConfig controls the watch command. Settle is how long a new folder
// must exist before it is processed, giving Stash time to scan its media.
// An empty PIDFile means DefaultPIDPath().
type WatchConfig struct {
	Settle  string `toml:"settle"`
	PIDFile string `toml:"pid_file"`
}

// CLIOverrides holds values from CLI flags that override config file and
// environment settings. Pointer fields distinguish "not specified" (nil)
// from "explicitly set to the zero value".
type CLIOverrides struct {
	ConfigPath string  // --config flag (empty = use default)
	Root       *string // --root flag
	IssueLog   *string // --issue-log flag
}
