package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/tonimelisma/stash-folderid/internal/identity"
	"github.com/tonimelisma/stash-folderid/internal/media"
	"github.com/tonimelisma/stash-folderid/internal/naming"
	"github.com/tonimelisma/stash-folderid/internal/stash"
)

// State is the terminal state of one folder pass.
type State int

// Terminal folder states.
const (
	StateCompleted State = iota
	StateSkippedEmpty
	StateSkippedAmbiguous
	StateSkippedUnresolvable
	StateFailed
)

// States lists every terminal state in report order.
var States = []State{
	StateCompleted,
	StateSkippedEmpty,
	StateSkippedAmbiguous,
	StateSkippedUnresolvable,
	StateFailed,
}

func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateSkippedEmpty:
		return "skipped-empty"
	case StateSkippedAmbiguous:
		return "skipped-ambiguous"
	case StateSkippedUnresolvable:
		return "skipped-unresolvable"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Report is the result of processing a single folder. Identity is nil unless
// resolution succeeded. Err is set only for StateFailed.
type Report struct {
	Folder          string
	Name            string
	State           State
	Identity        *identity.Identity
	Created         bool
	ScenesLinked    int
	ImagesLinked    int
	GalleriesLinked int
	Err             error
}

// Summary aggregates the reports of a run.
type Summary struct {
	Reports []Report
	Counts  map[State]int
}

// Resolver maps a canonical name to a catalog identity.
type Resolver interface {
	Resolve(ctx context.Context, name string) (identity.Resolution, error)
}

// Locator finds media not yet linked to an identity.
type Locator interface {
	FindUnlinkedScenes(ctx context.Context, searchValue, performerID string) ([]string, error)
	FindGallery(ctx context.Context, term string) (*stash.Gallery, error)
	FindUnlinkedImages(ctx context.Context, galleryID, performerID string) ([]string, error)
}

// Linker applies the per-kind bulk updates. Satisfied by *Reconciler.
type Linker interface {
	LinkScenes(ctx context.Context, ids []string, performerID string) (int, error)
	LinkImages(ctx context.Context, ids []string, performerID string) (int, error)
	LinkGalleries(ctx context.Context, ids []string, performerID string) (int, error)
}

// IssueLog receives human-readable diagnostics.
type IssueLog interface {
	Logf(format string, args ...any)
}

// decision is the action taken for a resolution outcome. terminal outcomes
// end the folder pass in state after logging the issue.
type decision struct {
	terminal bool
	state    State
	issue    func(log IssueLog, folder, name string, res identity.Resolution)
}

// decisions maps every resolution outcome to what the folder pass does next.
var decisions = map[identity.Outcome]decision{
	identity.OutcomeResolved: {},
	identity.OutcomeAmbiguous: {
		terminal: true,
		state:    StateSkippedAmbiguous,
		issue: func(log IssueLog, folder, name string, res identity.Resolution) {
			log.Logf("Multiple performers (%d) found for '%s' in folder '%s'. Skipping folder.", res.Matches, name, folder)
		},
	},
	identity.OutcomeUnresolvable: {
		terminal: true,
		state:    StateSkippedUnresolvable,
		issue: func(log IssueLog, folder, name string, _ identity.Resolution) {
			log.Logf("Unable to scrape and create performer for '%s' in folder '%s'. Skipping folder.", name, folder)
		},
	},
}

// OrchestratorConfig holds the collaborators of an Orchestrator.
type OrchestratorConfig struct {
	Resolver Resolver
	Locator  Locator
	Linker   Linker
	Issues   IssueLog
	Out      io.Writer // console narration; nil discards
	Logger   *slog.Logger
}

// Orchestrator runs the per-folder pipeline sequentially over a set of
// library folders. A failure in one folder never aborts the run.
type Orchestrator struct {
	resolver Resolver
	locator  Locator
	linker   Linker
	issues   IssueLog
	out      io.Writer
	logger   *slog.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(cfg *OrchestratorConfig) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	out := cfg.Out
	if out == nil {
		out = io.Discard
	}

	return &Orchestrator{
		resolver: cfg.Resolver,
		locator:  cfg.Locator,
		linker:   cfg.Linker,
		issues:   cfg.Issues,
		out:      out,
		logger:   logger,
	}
}

// Run processes folders in order and tallies their terminal states. It stops
// early only when ctx is canceled; the remaining folders are not reported.
func (o *Orchestrator) Run(ctx context.Context, folders []string) Summary {
	summary := Summary{Counts: make(map[State]int, len(States))}

	for _, folder := range folders {
		if ctx.Err() != nil {
			o.logger.Warn("run canceled",
				slog.Int("processed", len(summary.Reports)),
				slog.Int("remaining", len(folders)-len(summary.Reports)),
			)

			break
		}

		report := o.ProcessFolder(ctx, folder)
		summary.Reports = append(summary.Reports, report)
		summary.Counts[report.State]++
	}

	return summary
}

// ProcessFolder runs one folder through normalize, resolve, locate and
// reconcile. Errors and panics end the pass in StateFailed with one issue
// line; they are never returned.
func (o *Orchestrator) ProcessFolder(ctx context.Context, folderPath string) (report Report) {
	report = Report{Folder: folderPath}

	defer func() {
		if r := recover(); r != nil {
			report.State = StateFailed
			report.Err = fmt.Errorf("panic processing folder %s: %v", folderPath, r)
			o.issues.Logf("Error processing folder '%s': %v", folderPath, report.Err)
		}
	}()

	if err := o.processFolder(ctx, &report); err != nil {
		report.State = StateFailed
		report.Err = err
		o.issues.Logf("Error processing folder '%s': %v", folderPath, err)
	}

	o.logger.Info("folder processed",
		slog.String("folder", folderPath),
		slog.String("state", report.State.String()),
		slog.Int("scenes", report.ScenesLinked),
		slog.Int("images", report.ImagesLinked),
		slog.Int("galleries", report.GalleriesLinked),
	)

	return report
}

func (o *Orchestrator) processFolder(ctx context.Context, report *Report) error {
	folderName := filepath.Base(report.Folder)

	report.Name = naming.Normalize(folderName)
	if report.Name == "" {
		o.issues.Logf("Skipping folder '%s' because cleaned name is empty.", report.Folder)
		report.State = StateSkippedEmpty

		return nil
	}

	o.narrate("\nProcessing folder: %s\n", report.Folder)
	o.narrate("Searching for performer: '%s'\n", report.Name)

	res, err := o.resolver.Resolve(ctx, report.Name)
	if err != nil {
		return fmt.Errorf("resolving performer %q: %w", report.Name, err)
	}

	d, ok := decisions[res.Outcome]
	if !ok {
		return fmt.Errorf("no decision for resolution outcome %s", res.Outcome)
	}

	if d.terminal {
		d.issue(o.issues, report.Folder, report.Name, res)
		report.State = d.state

		return nil
	}

	ident := res.Identity
	report.Identity = ident
	report.Created = res.Created

	if !res.Created {
		o.narrate("  Found local performer '%s' with ID %s\n", ident.Name, ident.ID)
	}

	if err := o.reconcileScenes(ctx, folderName, ident, report); err != nil {
		return err
	}

	if err := o.reconcileGalleries(ctx, folderName, ident, report); err != nil {
		return err
	}

	report.State = StateCompleted

	return nil
}

func (o *Orchestrator) reconcileScenes(ctx context.Context, folderName string, ident *identity.Identity, report *Report) error {
	ids, err := o.locator.FindUnlinkedScenes(ctx, folderName, ident.ID)
	if err != nil {
		return fmt.Errorf("finding scenes: %w", err)
	}

	o.narrate("  Found %d scenes in folder that need updating.\n", len(ids))

	if len(ids) == 0 {
		o.narrate("  No scenes needed updating in this folder.\n")

		return nil
	}

	n, err := o.linker.LinkScenes(ctx, ids, ident.ID)
	if err != nil {
		return fmt.Errorf("updating scenes: %w", err)
	}

	report.ScenesLinked = n
	o.narrate("  Bulk updated %d scenes.\n", n)

	return nil
}

// reconcileGalleries looks up one gallery per search term, replaces the
// performers of its unlinked images, and finally adds the identity to every
// gallery found that does not already carry it.
func (o *Orchestrator) reconcileGalleries(ctx context.Context, folderName string, ident *identity.Identity, report *Report) error {
	seen := make(map[string]bool)

	var pending []string

	for _, term := range media.SearchTerms(folderName, ident.Aliases) {
		g, err := o.locator.FindGallery(ctx, term)
		if err != nil {
			return fmt.Errorf("finding gallery for %q: %w", term, err)
		}

		if g == nil || seen[g.ID] {
			o.narrate("  Skipping search term '%s' (no unique gallery found).\n", term)

			continue
		}

		seen[g.ID] = true

		if !g.HasPerformer(ident.ID) {
			pending = append(pending, g.ID)
		}

		imageIDs, err := o.locator.FindUnlinkedImages(ctx, g.ID, ident.ID)
		if err != nil {
			return fmt.Errorf("finding images in gallery %s: %w", g.ID, err)
		}

		o.narrate("  For search term '%s', found %d images needing update in gallery %s.\n", term, len(imageIDs), g.ID)

		if len(imageIDs) == 0 {
			continue
		}

		n, err := o.linker.LinkImages(ctx, imageIDs, ident.ID)
		if err != nil {
			return fmt.Errorf("updating images in gallery %s: %w", g.ID, err)
		}

		report.ImagesLinked += n
		o.narrate("  Bulk updated %d images in gallery %s.\n", n, g.ID)
	}

	if len(pending) == 0 {
		o.narrate("  No galleries updated.\n")

		return nil
	}

	n, err := o.linker.LinkGalleries(ctx, pending, ident.ID)
	if err != nil {
		return fmt.Errorf("updating galleries: %w", err)
	}

	report.GalleriesLinked = n
	o.narrate("  Bulk updated %d galleries with performer.\n", n)

	return nil
}

func (o *Orchestrator) narrate(format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}
