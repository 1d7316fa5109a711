// Package issuelog implements the run's append-only issue log: every
// recorded condition is appended as one line to a text file and mirrored to
// the console. The log is write-only; nothing reads it back during a run.
package issuelog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// DefaultFileName is the issue log file created in the working directory.
const DefaultFileName = "issues.log"

const (
	consolePrefix = "LOG: "
	filePerms     = 0o644
)

// Sink appends issue lines to a file and mirrors them to a console writer.
// Each line is written with its own open/append/close so the file is
// durable after every entry.
type Sink struct {
	mu      sync.Mutex
	path    string
	console io.Writer
	logger  *slog.Logger
	count   int
}

// New creates a Sink. An empty path disables the file and keeps only the
// console mirror; a nil console discards the mirror.
func New(path string, console io.Writer, logger *slog.Logger) *Sink {
	if console == nil {
		console = io.Discard
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Sink{path: path, console: console, logger: logger}
}

// Path returns the file the sink appends to.
func (s *Sink) Path() string {
	return s.path
}

// Log records msg as one issue line. Embedded newlines are flattened so
// one condition is always one line.
func (s *Sink) Log(msg string) {
	line := strings.ReplaceAll(strings.TrimRight(msg, "\n"), "\n", " ")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++

	fmt.Fprintln(s.console, consolePrefix+line)

	if s.path == "" {
		return
	}

	if err := appendLine(s.path, line); err != nil {
		fmt.Fprintf(s.console, "Could not write to log file: %v\n", err)
		s.logger.Warn("issue log write failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
	}
}

// Logf formats and records one issue line.
func (s *Sink) Logf(format string, args ...any) {
	s.Log(fmt.Sprintf(format, args...))
}

// Count returns the number of issues recorded so far.
func (s *Sink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerms)
	if err != nil {
		return fmt.Errorf("opening issue log: %w", err)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()

		return fmt.Errorf("writing issue log: %w", err)
	}

	return f.Close()
}
