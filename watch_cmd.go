package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/stash-folderid/internal/issuelog"
	"github.com/tonimelisma/stash-folderid/internal/library"
	"github.com/tonimelisma/stash-folderid/internal/reconcile"
	"github.com/tonimelisma/stash-folderid/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process new library folders as they appear",
		Long: `Watch the library root and process each new performer folder once it has
existed for watch.settle, giving Stash time to scan its media first.

Only one watch may run per PID file. Send SIGHUP (or run "rescan") to
process every existing folder immediately.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	cmd.Flags().Bool("initial", false, "process every existing folder before watching")

	return cmd
}

func newRescanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rescan",
		Short: "Ask a running watch to process every library folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pid, err := requestRescan(resolvedCfg.Watch.PIDPath())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rescan requested from watch (PID %d).\n", pid)

			return nil
		},
	}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg := resolvedCfg
	logger := buildLogger(os.Stderr).With(slog.String("run_id", uuid.NewString()))
	out := cmd.OutOrStdout()

	if err := library.CheckRoot(cfg.Library.Root); err != nil {
		fmt.Fprintf(out, "Base folder '%s' does not exist.\n", cfg.Library.Root)

		return err
	}

	lock, err := acquireWatchLock(cfg.Watch.PIDPath())
	if err != nil {
		return err
	}
	defer lock.Release()

	parent, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ctx := shutdownContext(parent, logger)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)

	defer signal.Stop(hup)

	narration := out
	if flagQuiet {
		narration = io.Discard
	}

	issues := issuelog.New(cfg.Logging.IssueLog, out, logger)
	orch := newOrchestrator(narration, issues, logger)

	if initial, _ := cmd.Flags().GetBool("initial"); initial {
		folders, listErr := library.ListFolders(cfg.Library.Root)
		if listErr != nil {
			return listErr
		}

		summary := orch.Run(ctx, folders)
		printSummary(narration, &summary, issues)
	}

	fsw, err := watch.NewFsWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	settle := cfg.Watch.SettleDuration()

	w := watch.New(fsw, orch, watch.Options{
		Root:   cfg.Library.Root,
		Settle: settle,
		Rescan: hup,
		OnReport: func(r reconcile.Report) {
			fmt.Fprintf(narration, "%s: %s\n", filepath.Base(r.Folder), r.State)
		},
	}, logger)

	statusf(flagQuiet, "Watching %s for new folders (settle %s)\n", cfg.Library.Root, settle)

	return w.Run(ctx)
}
