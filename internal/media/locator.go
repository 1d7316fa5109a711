// Package media locates catalog scenes, galleries and images that belong to
// a library folder and are not yet linked to its performer.
package media

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tonimelisma/stash-folderid/internal/naming"
	"github.com/tonimelisma/stash-folderid/internal/stash"
)

// Catalog is the subset of the catalog client the locator needs.
type Catalog interface {
	FindScenesByPath(ctx context.Context, pathValue string) ([]stash.Media, error)
	FindGalleries(ctx context.Context, query string) ([]stash.Gallery, error)
	FindImagesInGallery(ctx context.Context, galleryID string) ([]stash.Media, error)
}

// IssueLog receives human-readable diagnostics.
type IssueLog interface {
	Logf(format string, args ...any)
}

// Locator finds media candidates for reconciliation.
type Locator struct {
	catalog Catalog
	issues  IssueLog
	logger  *slog.Logger
}

// NewLocator creates a Locator.
func NewLocator(catalog Catalog, issues IssueLog, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Locator{catalog: catalog, issues: issues, logger: logger}
}

// FindUnlinkedScenes returns the ids of scenes whose path contains the
// search key of searchValue and which are not yet linked to performerID.
// Order follows the catalog's date-descending sort.
func (l *Locator) FindUnlinkedScenes(ctx context.Context, searchValue, performerID string) ([]string, error) {
	key := naming.SearchKey(searchValue)

	scenes, err := l.catalog.FindScenesByPath(ctx, key)
	if err != nil {
		return nil, err
	}

	ids := unlinked(scenes, performerID)

	l.logger.Debug("located scenes",
		slog.String("path_key", key),
		slog.Int("matched", len(scenes)),
		slog.Int("unlinked", len(ids)),
	)

	return ids, nil
}

// FindGallery returns the single gallery whose folder basename equals term
// case-insensitively. The catalog's fuzzy search only bounds the candidate
// set. Zero or several exact matches both return nil.
func (l *Locator) FindGallery(ctx context.Context, term string) (*stash.Gallery, error) {
	galleries, err := l.catalog.FindGalleries(ctx, strings.ToLower(term))
	if err != nil {
		return nil, err
	}

	var matches []*stash.Gallery

	for i := range galleries {
		if naming.EqualFold(basename(galleries[i].FolderPath()), term) {
			matches = append(matches, &galleries[i])
		}
	}

	switch len(matches) {
	case 1:
		l.logger.Info("gallery found",
			slog.String("term", term),
			slog.String("gallery_id", matches[0].ID),
		)

		return matches[0], nil
	case 0:
		l.issues.Logf("No gallery found for search term '%s'.", term)
	default:
		l.issues.Logf("Multiple galleries found for search term '%s'.", term)
	}

	return nil, nil
}

// FindUnlinkedImages returns the ids of images in galleryID that are not yet
// linked to performerID.
func (l *Locator) FindUnlinkedImages(ctx context.Context, galleryID, performerID string) ([]string, error) {
	images, err := l.catalog.FindImagesInGallery(ctx, galleryID)
	if err != nil {
		return nil, err
	}

	ids := unlinked(images, performerID)

	l.logger.Debug("located images",
		slog.String("gallery_id", galleryID),
		slog.Int("matched", len(images)),
		slog.Int("unlinked", len(ids)),
	)

	return ids, nil
}

// SearchTerms returns the gallery search terms for a folder: the raw folder
// name followed by the identity's aliases, without duplicates.
func SearchTerms(folderName string, aliases []string) []string {
	terms := make([]string, 0, len(aliases)+1)
	seen := make(map[string]bool, len(aliases)+1)

	for _, t := range append([]string{folderName}, aliases...) {
		if t == "" || seen[t] {
			continue
		}

		seen[t] = true
		terms = append(terms, t)
	}

	return terms
}

// unlinked filters records to those not carrying performerID.
func unlinked(records []stash.Media, performerID string) []string {
	ids := []string{}

	for i := range records {
		if records[i].HasPerformer(performerID) {
			continue
		}

		ids = append(ids, records[i].ID)
	}

	return ids
}

// basename returns the last element of a catalog path. Catalog paths may
// use either separator depending on the host Stash runs on.
func basename(p string) string {
	p = strings.TrimRight(p, `/\`)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}

	return p
}
