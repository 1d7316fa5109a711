package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/stash-folderid/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagRoot       string
	flagIssueLog   string
	flagJSON       bool
	flagVerbose    bool
	flagQuiet      bool
)

// errVerboseQuiet reports --verbose and --quiet given together.
var errVerboseQuiet = errors.New("--verbose and --quiet are mutually exclusive")

// resolvedCfg holds the effective configuration loaded by PersistentPreRunE.
// It is available to all subcommands after the root pre-run phase completes.
var resolvedCfg *config.Resolved

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stash-folderid [folder...]",
		Short: "Link Stash media to performers named by library folders",
		Long: "Resolves each library folder name to a Stash performer, creating it from a\n" +
			"stash-box scrape when none exists, and links the folder's scenes, galleries\n" +
			"and images to that performer. With no arguments every immediate subfolder\n" +
			"of the library root is processed.",
		Version: version,
		Args:    cobra.ArbitraryArgs,
		// Silence Cobra's default error/usage printing; main handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd)
		},
		RunE: runIdentify,
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagRoot, "root", "", "library root whose subfolders name performers")
	cmd.PersistentFlags().StringVar(&flagIssueLog, "issue-log", "", "issue log file (default issues.log)")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newRescanCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the four-layer override
// chain and stores the result in resolvedCfg for use by subcommands.
func loadConfig(cmd *cobra.Command) error {
	// Cobra validates flag groups after the pre-run hook, so a config error
	// would otherwise hide the flag conflict.
	if flagVerbose && flagQuiet {
		return errVerboseQuiet
	}

	cli := config.CLIOverrides{
		ConfigPath: flagConfigPath,
	}

	// Only pass flags to the resolver if the user explicitly set them.
	if cmd.Flags().Changed("root") {
		cli.Root = &flagRoot
	}

	if cmd.Flags().Changed("issue-log") {
		cli.IssueLog = &flagIssueLog
	}

	logger := bootstrapLogger()
	env := config.ReadEnvOverrides(logger)

	resolved, err := config.Resolve(env, cli, logger)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolvedCfg = resolved

	return nil
}

// bootstrapLogger is used before config is loaded. It logs warnings and
// above unless --verbose or --quiet say otherwise.
func bootstrapLogger() *slog.Logger {
	level := slog.LevelWarn

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Config-file log level provides the baseline; --verbose and
// --quiet override it because CLI flags always win.
func buildLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	format := "auto"

	// Config-based settings (lower priority than CLI flags).
	if resolvedCfg != nil {
		switch resolvedCfg.Logging.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}

		format = resolvedCfg.Logging.LogFormat
	}

	// CLI flags override config (highest priority).
	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if useJSONLogs(format, w) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// useJSONLogs resolves the "auto" log format: text on a terminal, JSON when
// stderr is redirected to a file or a log collector.
func useJSONLogs(format string, w io.Writer) bool {
	switch format {
	case "json":
		return true
	case "text":
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
