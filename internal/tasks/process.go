package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/ShadyBoukhary/traktarr/internal/filters"
	"github.com/ShadyBoukhary/traktarr/internal/models"
	"github.com/ShadyBoukhary/traktarr/internal/pvr"
	"github.com/ShadyBoukhary/traktarr/internal/shared"
	"github.com/ShadyBoukhary/traktarr/internal/trakt"
)

// defaultDelay is the pause between submissions, in seconds.
const defaultDelay = 2.5

// ProcessOptions describes one batch run.
type ProcessOptions struct {
	Kind             models.Kind
	List             string
	Person           string // person list only
	IncludeNonActing bool
	AuthenticateUser string
	Limit            int     // stop after this many adds; 0 = unlimited
	Delay            float64 // seconds between submissions; 0 = default, negative = none
	Sort             filters.SortKey
	Years            string   // overrides the configured year window
	Genres           []string // only consider items carrying one of these
	Folder           string   // overrides the configured root folder
	NoSearch         bool
	DryRun           bool
	IgnoreBlacklist  bool
	// RemoveRejected removes blacklisted items from the recommended list at
	// the source so they stop reappearing. Only honored for that list.
	RemoveRejected bool
}

// ProcessResult summarizes one completed batch run.
type ProcessResult struct {
	RunID      string
	Kind       models.Kind
	List       string
	Considered int // items in the fetched list
	Removed    int // reconciled away against the target inventory
	Skipped    int // rejected by filter rules
	Failed     int // accepted but the submission failed
	Added      int
	DryRun     bool
}

// Process runs the batch pipeline: validate the target, fetch the list,
// reconcile it against the target's inventory, sort, then walk the result
// submitting accepted items with inter-item throttling.
//
// It returns (nil, error) when a precondition failed and nothing was
// processed, (nil, nil) when reconciliation left nothing to do, and a
// result otherwise. A cancelled context stops the walk and returns the
// partial result alongside ctx.Err().
func (e *Engine) Process(ctx context.Context, events chan<- Event, opts ProcessOptions) (*ProcessResult, error) {
	if opts.Kind != models.KindShow && opts.Kind != models.KindMovie {
		return nil, fmt.Errorf("%w: unknown media kind %q", shared.ErrInvalidArgument, opts.Kind)
	}
	if opts.List == "" {
		return nil, fmt.Errorf("%w: list is required", shared.ErrInvalidArgument)
	}
	if opts.Sort == "" {
		opts.Sort = filters.SortVotes
	}

	runID := shared.GenerateID()
	logger := e.logger.With("run_id", runID, "kind", opts.Kind.Singular(), "list", opts.List)

	// Per-run filter copy: CLI overrides apply to this run only, the loaded
	// config stays untouched.
	fs := e.cfg.FiltersFor(string(opts.Kind))
	searchYears, minYear, maxYear, err := filters.ParseYears(opts.Years, fs.BlacklistedMinYear, fs.BlacklistedMaxYear)
	if err != nil {
		return nil, err
	}
	fs.BlacklistedMinYear, fs.BlacklistedMaxYear = minYear, maxYear

	wantGenres := opts.Genres
	for _, g := range wantGenres {
		if g == filters.Ignore {
			wantGenres = nil
			fs.BlacklistedGenres = nil
			break
		}
	}

	run, err := e.newProcessRun(ctx, opts)
	if err != nil {
		logger.Error("batch preconditions failed", "error", err)
		e.sendEvent(events, batchAbortedEvent(err))
		return nil, err
	}

	req := trakt.ListRequest{
		Kind:             opts.Kind,
		List:             opts.List,
		Person:           opts.Person,
		IncludeNonActing: opts.IncludeNonActing,
		AuthenticateUser: opts.AuthenticateUser,
		Years:            searchYears,
		Countries:        activeAllowList(fs.AllowedCountries),
		Languages:        activeAllowList(fs.AllowedLanguages),
		Genres:           wantGenres,
	}
	if opts.Kind == models.KindMovie {
		req.Runtimes = filters.RuntimeRange(fs.BlacklistedMinRuntime, fs.BlacklistedMaxRuntime)
	}

	list, err := e.source.GetList(ctx, req)
	if err != nil {
		err = fmt.Errorf("%w: %v", shared.ErrListFetch, err)
		logger.Error("failed to retrieve list", "error", err)
		e.sendEvent(events, batchAbortedEvent(err))
		return nil, err
	}

	result := &ProcessResult{
		RunID:      runID,
		Kind:       opts.Kind,
		List:       opts.List,
		Considered: len(list),
		DryRun:     opts.DryRun,
	}

	removed := func(item models.Media) {
		result.Removed++
		logger.Debug("removed item managed by the target", "title", item.Title, "year", item.YearString())
		e.sendEvent(events, itemRemovedEvent(item, "already exists"))
	}
	if opts.Kind == models.KindShow {
		list = filters.FilterExistingShows(list, run.existing, removed)
	} else {
		list = filters.FilterExistingAndExcludedMovies(list, run.existing, run.excluded, removed)
	}

	if len(list) == 0 {
		logger.Info("no new items to process", "considered", result.Considered, "removed", result.Removed)
		e.sendEvent(events, batchFinishedEvent())
		return nil, nil
	}

	logger.Info("processing list",
		"considered", result.Considered,
		"removed", result.Removed,
		"remaining", len(list),
		"sort", string(opts.Sort))

	limiter := newDelayLimiter(opts.Delay)
	for _, item := range filters.Sort(list, opts.Sort) {
		if ctx.Err() != nil {
			e.sendEvent(events, batchFinishedEvent())
			return result, ctx.Err()
		}
		if opts.Limit > 0 && result.Added >= opts.Limit {
			logger.Info("add limit reached", "limit", opts.Limit)
			break
		}
		e.processItem(ctx, events, logger, run, &fs, opts, wantGenres, item, limiter, result)
	}

	logger.Info("batch finished",
		"added", result.Added,
		"skipped", result.Skipped,
		"failed", result.Failed)
	e.sendEvent(events, batchFinishedEvent())
	return result, nil
}

// processRun carries the per-run state resolved during the precondition
// phase.
type processRun struct {
	qualityProfileID  int
	languageProfileID int
	tagIDs            []int
	existing          map[int]struct{}
	excluded          map[int]struct{} // movies only
}

// newProcessRun validates the target server and resolves profiles and the
// current inventory. Any failure here aborts the batch before the list is
// fetched.
func (e *Engine) newProcessRun(ctx context.Context, opts ProcessOptions) (*processRun, error) {
	run := &processRun{}
	var err error

	if opts.Kind == models.KindShow {
		if err = e.shows.ValidateAPIKey(ctx); err != nil {
			return nil, err
		}
		if run.qualityProfileID, err = e.shows.QualityProfileID(ctx, e.cfg.Sonarr.Quality); err != nil {
			return nil, err
		}
		if run.languageProfileID, err = e.shows.LanguageProfileID(ctx, e.cfg.Sonarr.Language); err != nil {
			return nil, err
		}
		if run.tagIDs, err = e.shows.TagIDs(ctx, e.cfg.Sonarr.Tags); err != nil {
			return nil, err
		}
		if run.existing, err = e.shows.Series(ctx); err != nil {
			return nil, err
		}
		return run, nil
	}

	if err = e.movies.ValidateAPIKey(ctx); err != nil {
		return nil, err
	}
	if run.qualityProfileID, err = e.movies.QualityProfileID(ctx, e.cfg.Radarr.Quality); err != nil {
		return nil, err
	}
	if run.existing, err = e.movies.Movies(ctx); err != nil {
		return nil, err
	}
	if run.excluded, err = e.movies.Exclusions(ctx); err != nil {
		return nil, err
	}
	return run, nil
}

// processItem evaluates and, when accepted, submits one item. Panics from a
// malformed record are contained to the item.
func (e *Engine) processItem(
	ctx context.Context,
	events chan<- Event,
	logger *log.Logger,
	run *processRun,
	fs *shared.FilterSet,
	opts ProcessOptions,
	wantGenres []string,
	item models.Media,
	limiter *rate.Limiter,
	result *ProcessResult,
) {
	defer func() {
		if r := recover(); r != nil {
			result.Failed++
			logger.Error("panic while processing item", "title", item.Title, "panic", r)
		}
	}()

	if !filters.MatchesGenres(&item, wantGenres) {
		result.Skipped++
		e.sendEvent(events, itemSkippedEvent(item, "genre mismatch"))
		return
	}

	if blacklisted, reason := filters.IsBlacklisted(&item, *fs, opts.IgnoreBlacklist); blacklisted {
		result.Skipped++
		logger.Debug("skipped blacklisted item", "title", item.Title, "year", item.YearString(), "reason", reason)
		e.sendEvent(events, itemSkippedEvent(item, reason))
		e.maybeRemoveRejected(ctx, logger, opts, item)
		return
	}

	if item.Kind == models.KindMovie {
		if skip, reason := e.movieGates(ctx, logger, fs, item); skip {
			result.Skipped++
			e.sendEvent(events, itemSkippedEvent(item, reason))
			e.maybeRemoveRejected(ctx, logger, opts, item)
			return
		}
	}

	// The delay paces dry runs too so their timing matches a real run.
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
	}

	if opts.DryRun {
		logger.Info("dry run, would have added item",
			"title", item.Title, "year", item.YearString(), "genres", item.GenreString())
		e.sendEvent(events, itemAddedEvent(item, true))
		return
	}

	if err := e.submit(ctx, run, opts, item); err != nil {
		result.Failed++
		logger.Error("failed to add item", "title", item.Title, "year", item.YearString(), "error", err)
		e.sendEvent(events, itemFailedEvent(item, err))
		return
	}

	result.Added++
	logger.Info("added item", "title", item.Title, "year", item.YearString(), "genres", item.GenreString())
	e.sendEvent(events, itemAddedEvent(item, false))

	if e.history != nil {
		if err := e.history.Record(result.RunID, item, opts.List); err != nil {
			logger.Warn("failed to record add history", "title", item.Title, "error", err)
		}
	}
}

// movieGates applies the movie-only checks: the catalog existence probe and
// the review score gate. A failed lookup never rejects the item.
func (e *Engine) movieGates(ctx context.Context, logger *log.Logger, fs *shared.FilterSet, item models.Media) (bool, string) {
	if e.catalog != nil {
		exists, err := e.catalog.MovieExists(ctx, item.IDs.TMDB)
		if err != nil {
			logger.Warn("catalog lookup failed", "title", item.Title, "error", err)
		} else if !exists {
			return true, "not found in catalog"
		}
	}

	if fs.RottenTomatoes > 0 && e.ratings != nil && e.ratings.Enabled() {
		score, ok, err := e.ratings.RottenTomatoesScore(ctx, item.IDs.IMDB)
		if err != nil {
			logger.Warn("ratings lookup failed", "title", item.Title, "error", err)
		} else if ok && score < fs.RottenTomatoes {
			return true, fmt.Sprintf("rotten tomatoes score %d below %d", score, fs.RottenTomatoes)
		}
	}
	return false, ""
}

// submit sends one accepted item to its target server.
func (e *Engine) submit(ctx context.Context, run *processRun, opts ProcessOptions, item models.Media) error {
	if item.Kind == models.KindShow {
		folder := opts.Folder
		if folder == "" {
			folder = e.cfg.Sonarr.RootFolder
		}
		return e.shows.AddSeries(ctx, item, pvr.AddSeriesOptions{
			QualityProfileID:  run.qualityProfileID,
			LanguageProfileID: run.languageProfileID,
			RootFolder:        folder,
			SeasonFolder:      e.cfg.Sonarr.SeasonFolder,
			Tags:              run.tagIDs,
			SearchMissing:     !opts.NoSearch,
		})
	}

	folder := opts.Folder
	if folder == "" {
		folder = e.cfg.Radarr.RootFolder
	}
	return e.movies.AddMovie(ctx, item, pvr.AddMovieOptions{
		QualityProfileID:    run.qualityProfileID,
		RootFolder:          folder,
		MinimumAvailability: e.cfg.Radarr.MinimumAvailability,
		Search:              !opts.NoSearch,
	})
}

// maybeRemoveRejected cleans a rejected item off the recommended list at
// the source so it stops reappearing on later runs.
func (e *Engine) maybeRemoveRejected(ctx context.Context, logger *log.Logger, opts ProcessOptions, item models.Media) {
	if !opts.RemoveRejected || opts.List != "recommended" || item.IDs.Trakt == 0 {
		return
	}
	if err := e.source.RemoveFromRecommended(ctx, item.Kind, item.IDs.Trakt); err != nil {
		logger.Warn("failed to remove rejected item from recommendations", "title", item.Title, "error", err)
		return
	}
	logger.Debug("removed rejected item from recommendations", "title", item.Title)
}

// activeAllowList returns the allow-list for the source query, or nil when
// the list is empty or disabled with the "ignore" sentinel.
func activeAllowList(allowed []string) []string {
	for _, v := range allowed {
		if v == filters.Ignore {
			return nil
		}
	}
	if len(allowed) == 0 {
		return nil
	}
	return allowed
}

// newDelayLimiter builds the inter-submission limiter. The first
// submission passes immediately; each subsequent one waits out the delay.
func newDelayLimiter(delay float64) *rate.Limiter {
	if delay == 0 {
		delay = defaultDelay
	}
	if delay < 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Duration(delay*float64(time.Second))), 1)
}
