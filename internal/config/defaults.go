package config

import "github.com/tonimelisma/stash-folderid/internal/issuelog"

// Default values for configuration options. These represent the "layer 0"
// of the four-layer override chain and match a stock local Stash install.
const (
	defaultCatalogURL     = "http://localhost:9999/graphql"
	defaultPageSize       = 2222
	defaultLookupPageSize = 40
	defaultRemoteEndpoint = "https://fansdb.cc/graphql"
	defaultAcceptedGender = "FEMALE"
	defaultLogLevel       = "info"
	defaultLogFormat      = "auto"
	defaultIssueLog       = issuelog.DefaultFileName
	defaultTimeout        = "30s"
	defaultSettle         = "5m"
)

// DefaultConfig returns a Config populated with all default values.
// This is used both as the starting point for TOML decoding (so unset
// fields retain defaults) and as the fallback when no config file exists.
// Library.Root has no default; it must come from the file, env or CLI.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			URL:            defaultCatalogURL,
			PageSize:       defaultPageSize,
			LookupPageSize: defaultLookupPageSize,
		},
		Remote: RemoteConfig{
			Endpoint:       defaultRemoteEndpoint,
			AcceptedGender: defaultAcceptedGender,
		},
		Logging: LoggingConfig{
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
			IssueLog:  defaultIssueLog,
		},
		Network: NetworkConfig{
			Timeout: defaultTimeout,
		},
		Watch: WatchConfig{
			Settle: defaultSettle,
		},
	}
}
