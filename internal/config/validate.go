package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validation range constants.
const (
	minPageSize = 1
	maxPageSize = 10000
	minTimeout  = 1 * time.Second
	maxTimeout  = 10 * time.Minute
	minSettle   = 1 * time.Second
	maxSettle   = 24 * time.Hour
)

// Validate checks all configuration values and returns all errors found.
// It accumulates every error rather than stopping at the first, so users
// see a complete report and can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateCatalog(&cfg.Catalog)...)
	errs = append(errs, validateRemote(&cfg.Remote)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateNetwork(&cfg.Network)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)

	return errors.Join(errs...)
}

// ValidateResolved checks the merged result of all override layers. Fields
// that the env or CLI layers may set are only required here.
func ValidateResolved(cfg *Config) error {
	var errs []error

	if err := Validate(cfg); err != nil {
		errs = append(errs, err)
	}

	if strings.TrimSpace(cfg.Library.Root) == "" {
		errs = append(errs, fmt.Errorf("library.root: must be set (config file, %s, or --root)", EnvRoot))
	}

	return errors.Join(errs...)
}

func validateCatalog(c *CatalogConfig) []error {
	var errs []error

	errs = append(errs, validateURL("catalog.url", c.URL)...)
	errs = append(errs, validateRange("catalog.page_size", c.PageSize, minPageSize, maxPageSize)...)
	errs = append(errs, validateRange("catalog.lookup_page_size", c.LookupPageSize, minPageSize, maxPageSize)...)

	return errs
}

// validGenders mirrors the catalog's GenderEnum.
var validGenders = map[string]bool{
	"MALE":               true,
	"FEMALE":             true,
	"TRANSGENDER_MALE":   true,
	"TRANSGENDER_FEMALE": true,
	"INTERSEX":           true,
	"NON_BINARY":         true,
}

func validateRemote(r *RemoteConfig) []error {
	var errs []error

	errs = append(errs, validateURL("remote.endpoint", r.Endpoint)...)

	if !validGenders[strings.ToUpper(r.AcceptedGender)] {
		errs = append(errs, fmt.Errorf(
			"remote.accepted_gender: must be one of MALE, FEMALE, TRANSGENDER_MALE, "+
				"TRANSGENDER_FEMALE, INTERSEX, NON_BINARY; got %q", r.AcceptedGender))
	}

	return errs
}

func validateURL(field, value string) []error {
	u, err := url.Parse(value)
	if err != nil {
		return []error{fmt.Errorf("%s: invalid URL %q: %w", field, value, err)}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return []error{fmt.Errorf("%s: scheme must be http or https, got %q", field, value)}
	}

	if u.Host == "" {
		return []error{fmt.Errorf("%s: missing host in %q", field, value)}
	}

	return nil
}

func validateRange(field string, value, lo, hi int) []error {
	if value < lo || value > hi {
		return []error{fmt.Errorf("%s: must be between %d and %d, got %d", field, lo, hi, value)}
	}

	return nil
}

func validateLogging(l *LoggingConfig) []error {
	var errs []error

	errs = append(errs, validateLogLevel(l.LogLevel)...)
	errs = append(errs, validateLogFormat(l.LogFormat)...)

	if strings.TrimSpace(l.IssueLog) == "" {
		errs = append(errs, errors.New("logging.issue_log: must not be empty"))
	}

	return errs
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func validateLogLevel(level string) []error {
	if !validLogLevels[level] {
		return []error{fmt.Errorf("logging.log_level: must be one of debug, info, warn, error; got %q", level)}
	}

	return nil
}

var validLogFormats = map[string]bool{
	"auto": true,
	"text": true,
	"json": true,
}

func validateLogFormat(format string) []error {
	if !validLogFormats[format] {
		return []error{fmt.Errorf("logging.log_format: must be one of auto, text, json; got %q", format)}
	}

	return nil
}

func validateNetwork(n *NetworkConfig) []error {
	d, err := time.ParseDuration(n.Timeout)
	if err != nil {
		return []error{fmt.Errorf("network.timeout: invalid duration %q: %w", n.Timeout, err)}
	}

	if d < minTimeout || d > maxTimeout {
		return []error{fmt.Errorf("network.timeout: must be between %s and %s, got %s", minTimeout, maxTimeout, d)}
	}

	return nil
}

// TimeoutDuration returns the parsed request timeout, falling back to the
// default when the value does not parse. Validate rejects such values, so
// the fallback only applies to configs built in code.
func (n *NetworkConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(n.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultTimeout)
	}

	return d
}

func validateWatch(w *WatchConfig) []error {
	d, err := time.ParseDuration(w.Settle)
	if err != nil {
		return []error{fmt.Errorf("watch.settle: invalid duration %q: %w", w.Settle, err)}
	}

	if d < minSettle || d > maxSettle {
		return []error{fmt.Errorf("watch.settle: must be between %s and %s, got %s", minSettle, maxSettle, d)}
	}

	return nil
}

// SettleDuration returns the parsed settle delay, falling back to the
// default when the value does not parse.
func (w *WatchConfig) SettleDuration() time.Duration {
	d, err := time.ParseDuration(w.Settle)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultSettle)
	}

	return d
}

// PIDPath returns the configured PID file, or DefaultPIDPath() when unset.
func (w *WatchConfig) PIDPath() string {
	if w.PIDFile != "" {
		return w.PIDFile
	}

	return DefaultPIDPath()
}
