package config

import (
	"fmt"
	"io"
)

// redacted replaces secrets in rendered output.
const redacted = "********"

// RenderEffective writes the resolved configuration as a human-readable
// annotated summary to w. This powers the "config show" command, giving
// users visibility into the effective values after all four override layers
// (defaults -> file -> env -> CLI) have been applied. The API key is never
// printed.
func RenderEffective(r *Resolved, w io.Writer) error {
	ew := &errWriter{w: w}

	if r.FromFile {
		ew.printf("# Effective configuration (file: %s)\n\n", r.Path)
	} else {
		ew.printf("# Effective configuration (defaults; no file at %s)\n\n", r.Path)
	}

	renderLibrarySection(ew, &r.Library)
	renderCatalogSection(ew, &r.Catalog)
	renderRemoteSection(ew, &r.Remote)
	renderLoggingSection(ew, &r.Logging)
	renderNetworkSection(ew, &r.Network)
	renderWatchSection(ew, &r.Watch)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops, so callers can chain
// printf calls without checking each one individually.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func renderLibrarySection(ew *errWriter, l *LibraryConfig) {
	ew.printf("[library]\n")
	ew.printf("  root = %q\n", l.Root)
	ew.printf("\n")
}

func renderCatalogSection(ew *errWriter, c *CatalogConfig) {
	ew.printf("[catalog]\n")
	ew.printf("  url              = %q\n", c.URL)

	if c.APIKey != "" {
		ew.printf("  api_key          = %q\n", redacted)
	}

	ew.printf("  page_size        = %d\n", c.PageSize)
	ew.printf("  lookup_page_size = %d\n", c.LookupPageSize)
	ew.printf("\n")
}

func renderRemoteSection(ew *errWriter, r *RemoteConfig) {
	ew.printf("[remote]\n")
	ew.printf("  endpoint        = %q\n", r.Endpoint)
	ew.printf("  accepted_gender = %q\n", r.AcceptedGender)
	ew.printf("\n")
}

func renderLoggingSection(ew *errWriter, l *LoggingConfig) {
	ew.printf("[logging]\n")
	ew.printf("  log_level  = %q\n", l.LogLevel)
	ew.printf("  log_format = %q\n", l.LogFormat)
	ew.printf("  issue_log  = %q\n", l.IssueLog)
	ew.printf("\n")
}

func renderNetworkSection(ew *errWriter, n *NetworkConfig) {
	ew.printf("[network]\n")
	ew.printf("  timeout    = %q\n", n.Timeout)

	if n.UserAgent != "" {
		ew.printf("  user_agent = %q\n", n.UserAgent)
	}

	ew.printf("\n")
}

func renderWatchSection(ew *errWriter, w *WatchConfig) {
	ew.printf("[watch]\n")
	ew.printf("  settle   = %q\n", w.Settle)
	ew.printf("  pid_file = %q\n", w.PIDPath())
}
