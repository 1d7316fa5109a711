// Package reconcile links located media to a resolved performer and drives
// the per-folder pipeline: normalize, resolve, locate, reconcile.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tonimelisma/stash-folderid/internal/stash"
)

// UpdatePolicy is the bulk update mode applied per media kind. Scenes and
// galleries gain the performer alongside existing ones; images are treated
// as single-subject and have their performer set replaced.
var UpdatePolicy = map[stash.Kind]stash.UpdateMode{
	stash.KindScene:   stash.ModeAdd,
	stash.KindGallery: stash.ModeAdd,
	stash.KindImage:   stash.ModeSet,
}

// Updater applies bulk performer updates. Satisfied by *stash.Client.
type Updater interface {
	BulkUpdatePerformers(ctx context.Context, kind stash.Kind, ids []string, mode stash.UpdateMode, performerID string) ([]string, error)
}

// Reconciler links batches of media records to a performer.
type Reconciler struct {
	updater Updater
	logger  *slog.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(updater Updater, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{updater: updater, logger: logger}
}

// Link associates performerID with every record in ids using the kind's
// UpdatePolicy, in a single request. An empty batch is a no-op that makes
// no request. Returns the number of records the catalog reports updated.
func (r *Reconciler) Link(ctx context.Context, kind stash.Kind, ids []string, performerID string) (int, error) {
	mode, ok := UpdatePolicy[kind]
	if !ok {
		return 0, fmt.Errorf("reconcile: no update policy for %q", kind)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	updated, err := r.updater.BulkUpdatePerformers(ctx, kind, ids, mode, performerID)
	if err != nil {
		return 0, err
	}

	r.logger.Info("linked media",
		slog.String("kind", string(kind)),
		slog.String("mode", string(mode)),
		slog.String("performer_id", performerID),
		slog.Int("updated", len(updated)),
	)

	return len(updated), nil
}

// LinkScenes adds performerID to each scene's performers.
func (r *Reconciler) LinkScenes(ctx context.Context, ids []string, performerID string) (int, error) {
	return r.Link(ctx, stash.KindScene, ids, performerID)
}

// LinkImages sets each image's performers to exactly performerID.
func (r *Reconciler) LinkImages(ctx context.Context, ids []string, performerID string) (int, error) {
	return r.Link(ctx, stash.KindImage, ids, performerID)
}

// LinkGalleries adds performerID to each gallery's performers.
func (r *Reconciler) LinkGalleries(ctx context.Context, ids []string, performerID string) (int, error) {
	return r.Link(ctx, stash.KindGallery, ids, performerID)
}
