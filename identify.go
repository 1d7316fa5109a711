package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/stash-folderid/internal/graphql"
	"github.com/tonimelisma/stash-folderid/internal/identity"
	"github.com/tonimelisma/stash-folderid/internal/issuelog"
	"github.com/tonimelisma/stash-folderid/internal/library"
	"github.com/tonimelisma/stash-folderid/internal/media"
	"github.com/tonimelisma/stash-folderid/internal/reconcile"
	"github.com/tonimelisma/stash-folderid/internal/stash"
)

// runIdentify processes the requested folders, or every folder under the
// library root when none are named. Per-folder failures are reported in
// the issue log and summary; only a missing root or an empty selection
// fails the command.
func runIdentify(cmd *cobra.Command, args []string) error {
	cfg := resolvedCfg
	logger := buildLogger(os.Stderr).With(slog.String("run_id", uuid.NewString()))
	out := cmd.OutOrStdout()

	parent, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ctx := shutdownContext(parent, logger)

	issues := issuelog.New(cfg.Logging.IssueLog, out, logger)

	folders, err := selectFolders(cfg.Library.Root, args, issues)
	if err != nil {
		switch {
		case errors.Is(err, library.ErrRootMissing):
			fmt.Fprintf(out, "Base folder '%s' does not exist.\n", cfg.Library.Root)
		case errors.Is(err, library.ErrNoValidFolders):
			fmt.Fprintln(out, "No valid folders provided. Exiting.")
		}

		return err
	}

	logger.Info("run starting",
		slog.String("root", cfg.Library.Root),
		slog.String("catalog", cfg.Catalog.URL),
		slog.Int("folders", len(folders)),
	)

	narration := out
	if flagQuiet {
		narration = io.Discard
	}

	statusf(flagQuiet, "Processing %d folder(s) under %s\n", len(folders), cfg.Library.Root)

	orch := newOrchestrator(narration, issues, logger)
	summary := orch.Run(ctx, folders)

	printSummary(narration, &summary, issues)

	logger.Info("run finished",
		slog.Int("processed", len(summary.Reports)),
		slog.Int("failed", summary.Counts[reconcile.StateFailed]),
		slog.Int("issues", issues.Count()),
	)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run interrupted after %d of %d folders: %w", len(summary.Reports), len(folders), err)
	}

	return nil
}

// selectFolders returns the named folders under root, or all of them when
// names is empty.
func selectFolders(root string, names []string, issues *issuelog.Sink) ([]string, error) {
	if len(names) == 0 {
		return library.ListFolders(root)
	}

	return library.SelectFolders(root, names, issues)
}

// newOrchestrator wires the catalog client and pipeline stages from the
// resolved configuration.
func newOrchestrator(out io.Writer, issues *issuelog.Sink, logger *slog.Logger) *reconcile.Orchestrator {
	cfg := resolvedCfg

	httpClient := &http.Client{Timeout: cfg.Network.TimeoutDuration()}
	gql := graphql.NewClient(cfg.Catalog.URL, httpClient, cfg.Catalog.APIKey, cfg.Network.UserAgent, logger)
	catalog := stash.NewClient(gql, cfg.Catalog.PageSize, cfg.Catalog.LookupPageSize, logger)

	resolver := identity.NewResolver(catalog, issues, identity.Options{
		Endpoint:       cfg.Remote.Endpoint,
		AcceptedGender: cfg.Remote.AcceptedGender,
	}, logger)

	return reconcile.NewOrchestrator(&reconcile.OrchestratorConfig{
		Resolver: resolver,
		Locator:  media.NewLocator(catalog, issues, logger),
		Linker:   reconcile.NewReconciler(catalog, logger),
		Issues:   issues,
		Out:      out,
		Logger:   logger,
	})
}

// printSummary writes per-folder results followed by a tally of terminal
// states.
func printSummary(w io.Writer, summary *reconcile.Summary, issues *issuelog.Sink) {
	if len(summary.Reports) == 0 {
		return
	}

	fmt.Fprintln(w)

	rows := make([][]string, 0, len(summary.Reports))
	for i := range summary.Reports {
		r := &summary.Reports[i]

		performer := "-"
		if r.Identity != nil {
			performer = r.Identity.ID
			if r.Created {
				performer += " (new)"
			}
		}

		rows = append(rows, []string{
			filepath.Base(r.Folder),
			r.State.String(),
			performer,
			strconv.Itoa(r.ScenesLinked),
			strconv.Itoa(r.ImagesLinked),
			strconv.Itoa(r.GalleriesLinked),
		})
	}

	printTable(w, []string{"FOLDER", "STATE", "PERFORMER", "SCENES", "IMAGES", "GALLERIES"}, rows)

	fmt.Fprintln(w)

	for _, s := range reconcile.States {
		if n := summary.Counts[s]; n > 0 {
			fmt.Fprintf(w, "%s: %d\n", s, n)
		}
	}

	if n := issues.Count(); n > 0 {
		fmt.Fprintf(w, "%d issue(s) logged to %s\n", n, issues.Path())
	}
}
