// Package identity resolves a canonical folder name to exactly one catalog
// performer. A unique local match wins; no local match falls back to
// scraping a stash-box endpoint and creating the performer; more than one
// local match is an ambiguity and is never auto-resolved.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tonimelisma/stash-folderid/internal/stash"
)

// DefaultAcceptedGender is the only scraped gender allowed to create a
// performer unless configured otherwise.
const DefaultAcceptedGender = "FEMALE"

// Identity is the canonical performer a folder's media is linked to.
// Aliases are search input only and are never written back.
type Identity struct {
	ID      string
	Name    string
	Aliases []string
}

// Outcome classifies a resolution attempt.
type Outcome int

// Resolution outcomes.
const (
	OutcomeResolved Outcome = iota
	OutcomeAmbiguous
	OutcomeUnresolvable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResolved:
		return "resolved"
	case OutcomeAmbiguous:
		return "ambiguous"
	case OutcomeUnresolvable:
		return "unresolvable"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Resolution is the result of Resolve. Identity is set only when Outcome
// is OutcomeResolved. Matches is the local match count reported by the
// catalog.
type Resolution struct {
	Outcome  Outcome
	Identity *Identity
	Matches  int
	Created  bool
}

// Catalog is the subset of the catalog client the resolver needs.
type Catalog interface {
	FindPerformers(ctx context.Context, query string) (int, []stash.Performer, error)
	ScrapeSinglePerformer(ctx context.Context, endpoint, query string) ([]stash.ScrapedPerformer, error)
	CreatePerformer(ctx context.Context, input *stash.PerformerCreateInput) (*stash.Performer, error)
}

// IssueLog receives human-readable diagnostics.
type IssueLog interface {
	Logf(format string, args ...any)
}

// Options configures fallback creation.
type Options struct {
	// Endpoint is the stash-box GraphQL endpoint scraped on fallback and
	// recorded as the new performer's stash_ids endpoint.
	Endpoint string
	// AcceptedGender is compared case-insensitively with the scraped gender.
	AcceptedGender string
}

// Resolver implements the lookup-then-fallback identity policy.
type Resolver struct {
	catalog Catalog
	issues  IssueLog
	opts    Options
	logger  *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(catalog Catalog, issues IssueLog, opts Options, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	if opts.AcceptedGender == "" {
		opts.AcceptedGender = DefaultAcceptedGender
	}

	return &Resolver{
		catalog: catalog,
		issues:  issues,
		opts:    opts,
		logger:  logger,
	}
}

// Resolve looks up name in the catalog. Transport and schema failures of the
// local lookup are returned as errors; ambiguity and failed fallback are
// reported through the Resolution outcome.
func (r *Resolver) Resolve(ctx context.Context, name string) (Resolution, error) {
	count, performers, err := r.catalog.FindPerformers(ctx, strings.ToLower(name))
	if err != nil {
		return Resolution{}, err
	}

	switch {
	case count == 1:
		if len(performers) == 0 {
			return Resolution{}, fmt.Errorf("identity: catalog reported one performer for %q but returned none", name)
		}

		p := performers[0]

		r.logger.Info("found local performer",
			slog.String("name", p.Name),
			slog.String("performer_id", p.ID),
		)

		return Resolution{
			Outcome:  OutcomeResolved,
			Identity: &Identity{ID: p.ID, Name: p.Name, Aliases: p.AliasList},
			Matches:  1,
		}, nil

	case count > 1:
		r.logger.Info("ambiguous local performer match",
			slog.String("name", name),
			slog.Int("matches", count),
		)

		return Resolution{Outcome: OutcomeAmbiguous, Matches: count}, nil
	}

	r.issues.Logf("No local performer found for '%s'. Attempting remote scrape from %s.", name, r.opts.Endpoint)

	created := r.CreateFromRemote(ctx, name)
	if created == nil {
		return Resolution{Outcome: OutcomeUnresolvable}, nil
	}

	return Resolution{Outcome: OutcomeResolved, Identity: created, Created: true}, nil
}

// CreateFromRemote scrapes query from the configured stash-box endpoint and
// creates the performer locally. It returns nil on any failure or policy
// rejection, each logged to the issue log. The created identity starts with
// no aliases.
func (r *Resolver) CreateFromRemote(ctx context.Context, query string) *Identity {
	scraped, err := r.catalog.ScrapeSinglePerformer(ctx, r.opts.Endpoint, query)
	if err != nil {
		r.issues.Logf("Error scraping performer '%s': %v", query, err)

		return nil
	}

	if len(scraped) == 0 {
		r.issues.Logf("No performer data scraped for query '%s'.", query)

		return nil
	}

	candidate := &scraped[0]

	if !strings.EqualFold(strings.TrimSpace(deref(candidate.Gender)), r.opts.AcceptedGender) {
		r.issues.Logf("Scraped performer '%s' is not %s. Skipping.",
			candidate.Name, strings.ToLower(r.opts.AcceptedGender))

		return nil
	}

	r.logger.Info("remote scrape found performer",
		slog.String("name", candidate.Name),
		slog.String("remote_site_id", deref(candidate.RemoteSiteID)),
	)

	input := BuildCreateInput(candidate, r.opts.Endpoint)

	created, err := r.catalog.CreatePerformer(ctx, input)
	if err != nil {
		r.issues.Logf("Failed to create performer from scraped data for '%s': %v", query, err)

		return nil
	}

	r.logger.Info("created performer",
		slog.String("name", created.Name),
		slog.String("performer_id", created.ID),
	)

	name := created.Name
	if name == "" {
		name = input.Name
	}

	return &Identity{ID: created.ID, Name: name}
}
