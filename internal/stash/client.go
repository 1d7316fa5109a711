// Package stash maps the Stash catalog's GraphQL schema onto typed Go
// operations: performer lookup and creation, stash-box scraping, media
// searches, and bulk performer association updates.
package stash

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tonimelisma/stash-folderid/internal/graphql"
)

// Default page sizes. DefaultPageSize is large enough to return every media
// record for one folder in a single page.
const (
	DefaultPageSize       = 2222
	DefaultLookupPageSize = 40
)

// Sort directions.
const (
	sortAsc  = "ASC"
	sortDesc = "DESC"
)

// Criterion modifiers.
const (
	modifierIncludes    = "INCLUDES"
	modifierIncludesAll = "INCLUDES_ALL"
)

// Doer executes a single GraphQL operation. Satisfied by *graphql.Client.
type Doer interface {
	Do(ctx context.Context, operation, query string, variables map[string]any, out any) error
}

// Client provides typed access to a Stash catalog.
type Client struct {
	gql            Doer
	pageSize       int
	lookupPageSize int
	logger         *slog.Logger
}

// NewClient creates a catalog client. Non-positive page sizes fall back to
// DefaultPageSize and DefaultLookupPageSize.
func NewClient(gql Doer, pageSize, lookupPageSize int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	if lookupPageSize <= 0 {
		lookupPageSize = DefaultLookupPageSize
	}

	return &Client{
		gql:            gql,
		pageSize:       pageSize,
		lookupPageSize: lookupPageSize,
		logger:         logger,
	}
}

// findFilter builds a FindFilterType variable.
func findFilter(q string, perPage int, sort, direction string) map[string]any {
	return map[string]any{
		"q":         q,
		"page":      1,
		"per_page":  perPage,
		"sort":      sort,
		"direction": direction,
	}
}

// FindPerformers runs the catalog's fuzzy name search and returns the
// reported match count with the first page of performers.
func (c *Client) FindPerformers(ctx context.Context, query string) (int, []Performer, error) {
	var out struct {
		FindPerformers *struct {
			Count      int         `json:"count"`
			Performers []Performer `json:"performers"`
		} `json:"findPerformers"`
	}

	vars := map[string]any{
		"filter":           findFilter(query, c.lookupPageSize, "name", sortAsc),
		"performer_filter": map[string]any{},
	}

	if err := c.gql.Do(ctx, "FindPerformers", findPerformersQuery, vars, &out); err != nil {
		return 0, nil, fmt.Errorf("finding performers %q: %w", query, err)
	}

	if out.FindPerformers == nil {
		return 0, nil, missingField("findPerformers")
	}

	c.logger.Debug("performer search",
		slog.String("query", query),
		slog.Int("count", out.FindPerformers.Count),
	)

	return out.FindPerformers.Count, out.FindPerformers.Performers, nil
}

// CreatePerformer submits a new performer. A response without a newly
// assigned id is a failure even when the request itself succeeded.
func (c *Client) CreatePerformer(ctx context.Context, input *PerformerCreateInput) (*Performer, error) {
	var out struct {
		PerformerCreate *Performer `json:"performerCreate"`
	}

	vars := map[string]any{"input": input}

	if err := c.gql.Do(ctx, "PerformerCreate", performerCreateMutation, vars, &out); err != nil {
		return nil, fmt.Errorf("creating performer %q: %w", input.Name, err)
	}

	if out.PerformerCreate == nil || out.PerformerCreate.ID == "" {
		return nil, fmt.Errorf("creating performer %q: %w", input.Name, missingField("performerCreate.id"))
	}

	return out.PerformerCreate, nil
}

// ScrapeSinglePerformer asks the catalog to scrape performers matching query
// from the stash-box instance at endpoint.
func (c *Client) ScrapeSinglePerformer(ctx context.Context, endpoint, query string) ([]ScrapedPerformer, error) {
	var out struct {
		ScrapeSinglePerformer []ScrapedPerformer `json:"scrapeSinglePerformer"`
	}

	vars := map[string]any{
		"source": map[string]any{"stash_box_endpoint": endpoint},
		"input":  map[string]any{"query": query},
	}

	if err := c.gql.Do(ctx, "ScrapeSinglePerformer", scrapeSinglePerformerQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("scraping performer %q: %w", query, err)
	}

	return out.ScrapeSinglePerformer, nil
}

// FindScenesByPath returns scenes whose file path includes pathValue,
// newest first.
func (c *Client) FindScenesByPath(ctx context.Context, pathValue string) ([]Media, error) {
	var out struct {
		FindScenes *struct {
			Scenes []Media `json:"scenes"`
		} `json:"findScenes"`
	}

	vars := map[string]any{
		"filter": findFilter("", c.pageSize, "date", sortDesc),
		"scene_filter": map[string]any{
			"path": map[string]any{"value": pathValue, "modifier": modifierIncludes},
		},
	}

	if err := c.gql.Do(ctx, "FindScenes", findScenesQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("finding scenes by path %q: %w", pathValue, err)
	}

	if out.FindScenes == nil {
		return nil, missingField("findScenes")
	}

	return out.FindScenes.Scenes, nil
}

// FindGalleries runs the catalog's fuzzy gallery search for query.
func (c *Client) FindGalleries(ctx context.Context, query string) ([]Gallery, error) {
	var out struct {
		FindGalleries *struct {
			Count     int       `json:"count"`
			Galleries []Gallery `json:"galleries"`
		} `json:"findGalleries"`
	}

	vars := map[string]any{
		"filter":         findFilter(query, c.lookupPageSize, "path", sortAsc),
		"gallery_filter": map[string]any{},
	}

	if err := c.gql.Do(ctx, "FindGalleries", findGalleriesQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("finding galleries %q: %w", query, err)
	}

	if out.FindGalleries == nil {
		return nil, missingField("findGalleries")
	}

	return out.FindGalleries.Galleries, nil
}

// FindImagesInGallery returns the images belonging to galleryID.
func (c *Client) FindImagesInGallery(ctx context.Context, galleryID string) ([]Media, error) {
	var out struct {
		FindImages *struct {
			Images []Media `json:"images"`
		} `json:"findImages"`
	}

	vars := map[string]any{
		"filter": findFilter("", c.pageSize, "path", sortAsc),
		"image_filter": map[string]any{
			"galleries": map[string]any{"value": []string{galleryID}, "modifier": modifierIncludesAll},
		},
	}

	if err := c.gql.Do(ctx, "FindImages", findImagesQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("finding images in gallery %s: %w", galleryID, err)
	}

	if out.FindImages == nil {
		return nil, missingField("findImages")
	}

	return out.FindImages.Images, nil
}

// bulkOperation describes the mutation used to update one media kind.
type bulkOperation struct {
	name     string
	mutation string
	field    string
}

var bulkOperations = map[Kind]bulkOperation{
	KindScene:   {"BulkSceneUpdate", bulkSceneUpdateMutation, "bulkSceneUpdate"},
	KindImage:   {"BulkImageUpdate", bulkImageUpdateMutation, "bulkImageUpdate"},
	KindGallery: {"BulkGalleryUpdate", bulkGalleryUpdateMutation, "bulkGalleryUpdate"},
}

// BulkUpdatePerformers applies performerID to every record in ids with the
// given mode, in one request. It returns the ids the catalog reports as
// updated. Fields other than performer_ids are left untouched.
func (c *Client) BulkUpdatePerformers(
	ctx context.Context, kind Kind, ids []string, mode UpdateMode, performerID string,
) ([]string, error) {
	op, ok := bulkOperations[kind]
	if !ok {
		return nil, fmt.Errorf("stash: unknown media kind %q", kind)
	}

	vars := map[string]any{
		"input": map[string]any{
			"ids": ids,
			"performer_ids": map[string]any{
				"mode": mode,
				"ids":  []string{performerID},
			},
		},
	}

	var out map[string][]struct {
		ID string `json:"id"`
	}

	if err := c.gql.Do(ctx, op.name, op.mutation, vars, &out); err != nil {
		return nil, fmt.Errorf("bulk %s update (%s): %w", kind, mode, err)
	}

	updated := make([]string, 0, len(out[op.field]))
	for _, rec := range out[op.field] {
		updated = append(updated, rec.ID)
	}

	c.logger.Debug("bulk update applied",
		slog.String("kind", string(kind)),
		slog.String("mode", string(mode)),
		slog.String("performer_id", performerID),
		slog.Int("requested", len(ids)),
		slog.Int("updated", len(updated)),
	)

	return updated, nil
}

// missingField reports a response lacking a required member.
func missingField(name string) error {
	return fmt.Errorf("%w: missing %s", graphql.ErrSchema, name)
}
