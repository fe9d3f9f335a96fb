package tasks

import (
	"context"
	"fmt"

	"github.com/ShadyBoukhary/traktarr/internal/models"
	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

// AddOptions describes a one-shot add of a single item by id.
type AddOptions struct {
	Folder   string // overrides the configured root folder
	NoSearch bool
	DryRun   bool
}

// AddShow adds a single show by Trakt id or slug. Filters do not apply;
// an explicit request wins over the blacklist. The show must not already
// be managed by the target.
func (e *Engine) AddShow(ctx context.Context, id string, opts AddOptions) (*models.Media, error) {
	item, err := e.source.GetShow(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IDs.TVDB == 0 {
		return nil, fmt.Errorf("%w: show %q has no tvdb id", shared.ErrInvalidInput, item.Title)
	}
	return item, e.addSingle(ctx, *item, opts)
}

// AddMovie adds a single movie by Trakt id or slug. Filters do not apply.
func (e *Engine) AddMovie(ctx context.Context, id string, opts AddOptions) (*models.Media, error) {
	item, err := e.source.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IDs.TMDB == 0 {
		return nil, fmt.Errorf("%w: movie %q has no tmdb id", shared.ErrInvalidInput, item.Title)
	}
	return item, e.addSingle(ctx, *item, opts)
}

func (e *Engine) addSingle(ctx context.Context, item models.Media, opts AddOptions) error {
	run, err := e.newProcessRun(ctx, ProcessOptions{Kind: item.Kind})
	if err != nil {
		return err
	}

	if _, ok := run.existing[item.PrimaryID()]; ok {
		return fmt.Errorf("%w: %s (%s) is already managed by the target",
			shared.ErrAlreadyExists, item.Title, item.YearString())
	}
	if _, ok := run.excluded[item.PrimaryID()]; ok {
		return fmt.Errorf("%w: %s (%s) is on the target's exclusion list",
			shared.ErrAlreadyExists, item.Title, item.YearString())
	}

	logger := e.logger.With("kind", item.Kind.Singular(), "title", item.Title, "year", item.YearString())
	if opts.DryRun {
		logger.Info("dry run, would have added item")
		return nil
	}

	if err := e.submit(ctx, run, ProcessOptions{Folder: opts.Folder, NoSearch: opts.NoSearch}, item); err != nil {
		return err
	}
	logger.Info("added item")

	if e.history != nil {
		if err := e.history.Record(shared.GenerateID(), item, "manual"); err != nil {
			logger.Warn("failed to record add history", "error", err)
		}
	}
	return nil
}
