package tasks

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ShadyBoukhary/traktarr/internal/models"
	"github.com/ShadyBoukhary/traktarr/internal/pvr"
	"github.com/ShadyBoukhary/traktarr/internal/shared"
	"github.com/ShadyBoukhary/traktarr/internal/trakt"
)

type fakeSource struct {
	list    []models.Media
	listErr error
	gotReq  trakt.ListRequest
	show    *models.Media
	movie   *models.Media
	removed []int
}

func (f *fakeSource) GetList(_ context.Context, req trakt.ListRequest) ([]models.Media, error) {
	f.gotReq = req
	return f.list, f.listErr
}

func (f *fakeSource) GetShow(context.Context, string) (*models.Media, error) {
	if f.show == nil {
		return nil, shared.ErrNotFound
	}
	return f.show, nil
}

func (f *fakeSource) GetMovie(context.Context, string) (*models.Media, error) {
	if f.movie == nil {
		return nil, shared.ErrNotFound
	}
	return f.movie, nil
}

func (f *fakeSource) RemoveFromRecommended(_ context.Context, _ models.Kind, traktID int) error {
	f.removed = append(f.removed, traktID)
	return nil
}

type fakeShowTarget struct {
	existing    map[int]struct{}
	validateErr error
	profileErr  error
	addErr      error
	added       []models.Media
	addedOpts   []pvr.AddSeriesOptions
}

func (f *fakeShowTarget) ValidateAPIKey(context.Context) error { return f.validateErr }

func (f *fakeShowTarget) QualityProfileID(context.Context, string) (int, error) {
	if f.profileErr != nil {
		return 0, f.profileErr
	}
	return 4, nil
}

func (f *fakeShowTarget) LanguageProfileID(context.Context, string) (int, error) { return 1, nil }

func (f *fakeShowTarget) TagIDs(context.Context, []string) ([]int, error) { return nil, nil }

func (f *fakeShowTarget) Series(context.Context) (map[int]struct{}, error) {
	if f.existing == nil {
		return map[int]struct{}{}, nil
	}
	return f.existing, nil
}

func (f *fakeShowTarget) AddSeries(_ context.Context, item models.Media, opts pvr.AddSeriesOptions) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, item)
	f.addedOpts = append(f.addedOpts, opts)
	return nil
}

type fakeMovieTarget struct {
	existing  map[int]struct{}
	excluded  map[int]struct{}
	added     []models.Media
	addedOpts []pvr.AddMovieOptions
}

func (f *fakeMovieTarget) ValidateAPIKey(context.Context) error { return nil }

func (f *fakeMovieTarget) QualityProfileID(context.Context, string) (int, error) { return 5, nil }

func (f *fakeMovieTarget) Movies(context.Context) (map[int]struct{}, error) {
	if f.existing == nil {
		return map[int]struct{}{}, nil
	}
	return f.existing, nil
}

func (f *fakeMovieTarget) Exclusions(context.Context) (map[int]struct{}, error) {
	if f.excluded == nil {
		return map[int]struct{}{}, nil
	}
	return f.excluded, nil
}

func (f *fakeMovieTarget) AddMovie(_ context.Context, item models.Media, opts pvr.AddMovieOptions) error {
	f.added = append(f.added, item)
	f.addedOpts = append(f.addedOpts, opts)
	return nil
}

type fakeRatings struct {
	scores map[string]int
}

func (f *fakeRatings) Enabled() bool { return true }

func (f *fakeRatings) RottenTomatoesScore(_ context.Context, imdbID string) (int, bool, error) {
	score, ok := f.scores[imdbID]
	return score, ok, nil
}

type fakeCatalog struct {
	missing map[int]bool
}

func (f *fakeCatalog) MovieExists(_ context.Context, tmdbID int) (bool, error) {
	return !f.missing[tmdbID], nil
}

type fakeHistory struct {
	records []string
}

func (f *fakeHistory) Record(_ string, item models.Media, _ string) error {
	f.records = append(f.records, item.Title)
	return nil
}

func testConfig() *shared.Config {
	cfg := shared.DefaultConfig()
	// Keep filter behavior explicit per test.
	cfg.Filters = shared.FiltersConfig{}
	return cfg
}

type engineDeps struct {
	source  *fakeSource
	shows   *fakeShowTarget
	movies  *fakeMovieTarget
	ratings *fakeRatings
	catalog *fakeCatalog
	history *fakeHistory
}

func newTestEngine(cfg *shared.Config, deps engineDeps) *Engine {
	if cfg == nil {
		cfg = testConfig()
	}
	if deps.source == nil {
		deps.source = &fakeSource{}
	}
	if deps.shows == nil {
		deps.shows = &fakeShowTarget{}
	}
	if deps.movies == nil {
		deps.movies = &fakeMovieTarget{}
	}

	var ratings Ratings
	if deps.ratings != nil {
		ratings = deps.ratings
	}
	var catalog Catalog
	if deps.catalog != nil {
		catalog = deps.catalog
	}
	var history History
	if deps.history != nil {
		history = deps.history
	}

	e := NewEngine(cfg, deps.source, deps.shows, deps.movies, ratings, catalog, history, shared.NewLogger(io.Discard))
	e.sleep = func(context.Context, time.Duration) {}
	return e
}

func testShow(title string, tvdbID int) models.Media {
	return models.Media{
		Kind:   models.KindShow,
		Title:  title,
		Year:   2015,
		IDs:    models.IDs{Trakt: tvdbID, TVDB: tvdbID, Slug: title},
		Genres: []string{"drama"},
		Votes:  tvdbID,
	}
}

func testMovie(title string, tmdbID int) models.Media {
	return models.Media{
		Kind:   models.KindMovie,
		Title:  title,
		Year:   2015,
		IDs:    models.IDs{Trakt: tmdbID, TMDB: tmdbID, IMDB: "tt" + title, Slug: title},
		Genres: []string{"action"},
		Votes:  tmdbID,
	}
}

func collectEvents(events chan Event) map[EventType]int {
	counts := make(map[EventType]int)
	for {
		select {
		case ev := <-events:
			counts[ev.Type]++
		default:
			return counts
		}
	}
}

func TestProcessAddsReconciledShows(t *testing.T) {
	source := &fakeSource{list: []models.Media{
		testShow("first", 101),
		testShow("second", 102),
		testShow("third", 103),
	}}
	shows := &fakeShowTarget{existing: map[int]struct{}{102: {}}}
	history := &fakeHistory{}
	e := newTestEngine(nil, engineDeps{source: source, shows: shows, history: history})

	events := make(chan Event, 32)
	result, err := e.Process(context.Background(), events, ProcessOptions{
		Kind:  models.KindShow,
		List:  "trending",
		Delay: -1,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Considered != 3 || result.Removed != 1 || result.Added != 2 {
		t.Errorf("result = %+v, want considered 3, removed 1, added 2", result)
	}
	if len(shows.added) != 2 {
		t.Fatalf("target received %d adds, want 2", len(shows.added))
	}
	// votes sort is descending, so the highest-vote show goes first
	if shows.added[0].Title != "third" || shows.added[1].Title != "first" {
		t.Errorf("add order = %q, %q, want third, first", shows.added[0].Title, shows.added[1].Title)
	}
	if len(history.records) != 2 {
		t.Errorf("history recorded %d adds, want 2", len(history.records))
	}

	counts := collectEvents(events)
	if counts[ItemAdded] != 2 || counts[ItemRemoved] != 1 || counts[BatchFinished] != 1 {
		t.Errorf("event counts = %v, want 2 added, 1 removed, 1 finished", counts)
	}
}

func TestProcessDryRunNeverSubmits(t *testing.T) {
	source := &fakeSource{list: []models.Media{testShow("first", 101)}}
	shows := &fakeShowTarget{}
	history := &fakeHistory{}
	e := newTestEngine(nil, engineDeps{source: source, shows: shows, history: history})

	events := make(chan Event, 8)
	result, err := e.Process(context.Background(), events, ProcessOptions{
		Kind:   models.KindShow,
		List:   "trending",
		DryRun: true,
		Delay:  -1,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(shows.added) != 0 {
		t.Errorf("target received %d adds during dry run, want 0", len(shows.added))
	}
	if len(history.records) != 0 {
		t.Errorf("history recorded %d adds during dry run, want 0", len(history.records))
	}
	if result.Added != 0 {
		t.Errorf("result.Added = %d, want 0", result.Added)
	}

	// the would-be add still surfaces as an event, flagged as dry run
	for {
		select {
		case ev := <-events:
			if ev.Type == ItemAdded && !ev.DryRun {
				t.Error("ItemAdded event during dry run not flagged DryRun")
			}
			continue
		default:
		}
		break
	}
}

func TestProcessAddLimit(t *testing.T) {
	source := &fakeSource{list: []models.Media{
		testShow("first", 101),
		testShow("second", 102),
		testShow("third", 103),
	}}
	shows := &fakeShowTarget{}
	e := newTestEngine(nil, engineDeps{source: source, shows: shows})

	result, err := e.Process(context.Background(), nil, ProcessOptions{
		Kind:  models.KindShow,
		List:  "trending",
		Limit: 2,
		Delay: -1,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Added != 2 || len(shows.added) != 2 {
		t.Errorf("added = %d (target %d), want 2", result.Added, len(shows.added))
	}
}

func TestProcessAbortsWhenTargetUnreachable(t *testing.T) {
	shows := &fakeShowTarget{validateErr: shared.ErrInvalidCredentials}
	e := newTestEngine(nil, engineDeps{shows: shows})

	events := make(chan Event, 8)
	result, err := e.Process(context.Background(), events, ProcessOptions{
		Kind:  models.KindShow,
		List:  "trending",
		Delay: -1,
	})
	if result != nil {
		t.Errorf("Process() result = %+v, want nil on abort", result)
	}
	if !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Errorf("Process() error = %v, want ErrInvalidCredentials", err)
	}
	counts := collectEvents(events)
	if counts[BatchAborted] != 1 {
		t.Errorf("event counts = %v, want one BatchAborted", counts)
	}
}

func TestProcessAbortsOnListFetchFailure(t *testing.T) {
	source := &fakeSource{listErr: errors.New("api down")}
	e := newTestEngine(nil, engineDeps{source: source})

	result, err := e.Process(context.Background(), nil, ProcessOptions{
		Kind:  models.KindShow,
		List:  "trending",
		Delay: -1,
	})
	if result != nil {
		t.Errorf("Process() result = %+v, want nil", result)
	}
	if !errors.Is(err, shared.ErrListFetch) {
		t.Errorf("Process() error = %v, want ErrListFetch", err)
	}
}

func TestProcessNothingLeftAfterReconciliation(t *testing.T) {
	source := &fakeSource{list: []models.Media{testShow("first", 101)}}
	shows := &fakeShowTarget{existing: map[int]struct{}{101: {}}}
	e := newTestEngine(nil, engineDeps{source: source, shows: shows})

	result, err := e.Process(context.Background(), nil, ProcessOptions{
		Kind:  models.KindShow,
		List:  "trending",
		Delay: -1,
	})
	if result != nil || err != nil {
		t.Errorf("Process() = %+v, %v, want nil, nil when reconciled empty", result, err)
	}
}

func TestProcessBlacklistSkipsAndRemovesRejected(t *testing.T) {
	cfg := testConfig()
	cfg.Filters.Shows.BlacklistedGenres = []string{"reality"}

	rejected := testShow("junk", 101)
	rejected.Genres = []string{"reality"}
	source := &fakeSource{list: []models.Media{rejected, testShow("keeper", 102)}}
	shows := &fakeShowTarget{}
	e := newTestEngine(cfg, engineDeps{source: source, shows: shows})

	result, err := e.Process(context.Background(), nil, ProcessOptions{
		Kind:           models.KindShow,
		List:           "recommended",
		RemoveRejected: true,
		Delay:          -1,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Added != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v, want 1 added, 1 skipped", result)
	}
	if len(source.removed) != 1 || source.removed[0] != 101 {
		t.Errorf("removed from recommendations = %v, want [101]", source.removed)
	}
}

func TestProcessGenreIgnoreDoesNotMutateConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Filters.Shows.BlacklistedGenres = []string{"reality"}

	item := testShow("reality-show", 101)
	item.Genres = []string{"reality"}
	source := &fakeSource{list: []models.Media{item}}
	shows := &fakeShowTarget{}
	e := newTestEngine(cfg, engineDeps{source: source, shows: shows})

	result, err := e.Process(context.Background(), nil, ProcessOptions{
		Kind:   models.KindShow,
		List:   "trending",
		Genres: []string{"ignore"},
		Delay:  -1,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	// "ignore" disables the genre rule for this run only
	if result.Added != 1 {
		t.Errorf("result.Added = %d, want 1", result.Added)
	}
	if len(cfg.Filters.Shows.BlacklistedGenres) != 1 {
		t.Errorf("config blacklisted genres mutated: %v", cfg.Filters.Shows.BlacklistedGenres)
	}
}

func TestProcessGenreInclusion(t *testing.T) {
	action := testMovie("action-movie", 201)
	comedy := testMovie("comedy-movie", 202)
	comedy.Genres = []string{"comedy"}
	source := &fakeSource{list: []models.Media{action, comedy}}
	movies := &fakeMovieTarget{}
	e := newTestEngine(nil, engineDeps{source: source, movies: movies})

	result, err := e.Process(context.Background(), nil, ProcessOptions{
		Kind:   models.KindMovie,
		List:   "popular",
		Genres: []string{"comedy"},
		Delay:  -1,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Added != 1 || movies.added[0].Title != "comedy-movie" {
		t.Errorf("result = %+v, added = %v, want only comedy-movie", result, movies.added)
	}
}

func TestProcessMovieGates(t *testing.T) {
	t.Run("missing from catalog", func(t *testing.T) {
		ghost := testMovie("ghost", 201)
		source := &fakeSource{list: []models.Media{ghost}}
		movies := &fakeMovieTarget{}
		catalog := &fakeCatalog{missing: map[int]bool{201: true}}
		e := newTestEngine(nil, engineDeps{source: source, movies: movies, catalog: catalog})

		result, err := e.Process(context.Background(), nil, ProcessOptions{
			Kind:  models.KindMovie,
			List:  "popular",
			Delay: -1,
		})
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if result.Added != 0 || result.Skipped != 1 {
			t.Errorf("result = %+v, want skipped 1", result)
		}
	})

	t.Run("score below threshold", func(t *testing.T) {
		cfg := testConfig()
		cfg.Filters.Movies.RottenTomatoes = 60

		low := testMovie("lowscore", 201)
		high := testMovie("highscore", 202)
		unrated := testMovie("unrated", 203)
		source := &fakeSource{list: []models.Media{low, high, unrated}}
		movies := &fakeMovieTarget{}
		ratings := &fakeRatings{scores: map[string]int{
			low.IDs.IMDB:  35,
			high.IDs.IMDB: 92,
		}}
		e := newTestEngine(cfg, engineDeps{source: source, movies: movies, ratings: ratings})

		result, err := e.Process(context.Background(), nil, ProcessOptions{
			Kind:  models.KindMovie,
			List:  "popular",
			Delay: -1,
		})
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		// items without a score pass the gate
		if result.Added != 2 || result.Skipped != 1 {
			t.Errorf("result = %+v, want 2 added, 1 skipped", result)
		}
	})
}

func TestProcessSubmissionFailureContinues(t *testing.T) {
	source := &fakeSource{list: []models.Media{testShow("first", 101)}}
	shows := &fakeShowTarget{addErr: errors.New("boom")}
	e := newTestEngine(nil, engineDeps{source: source, shows: shows})

	events := make(chan Event, 8)
	result, err := e.Process(context.Background(), events, ProcessOptions{
		Kind:  models.KindShow,
		List:  "trending",
		Delay: -1,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Failed != 1 || result.Added != 0 {
		t.Errorf("result = %+v, want 1 failed, 0 added", result)
	}
	counts := collectEvents(events)
	if counts[ItemFailed] != 1 {
		t.Errorf("event counts = %v, want one ItemFailed", counts)
	}
}

func TestProcessCancelledContext(t *testing.T) {
	source := &fakeSource{list: []models.Media{testShow("first", 101), testShow("second", 102)}}
	shows := &fakeShowTarget{}
	e := newTestEngine(nil, engineDeps{source: source, shows: shows})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// preconditions and fetch succeed (fakes ignore ctx), but the walk must
	// stop before the first item
	result, err := e.Process(ctx, nil, ProcessOptions{
		Kind:  models.KindShow,
		List:  "trending",
		Delay: -1,
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Process() error = %v, want context.Canceled", err)
	}
	if result == nil || result.Added != 0 {
		t.Errorf("result = %+v, want partial result with 0 added", result)
	}
}

func TestAddShow(t *testing.T) {
	t.Run("adds", func(t *testing.T) {
		show := testShow("new-show", 101)
		source := &fakeSource{show: &show}
		shows := &fakeShowTarget{}
		history := &fakeHistory{}
		e := newTestEngine(nil, engineDeps{source: source, shows: shows, history: history})

		item, err := e.AddShow(context.Background(), "new-show", AddOptions{})
		if err != nil {
			t.Fatalf("AddShow() error = %v", err)
		}
		if item.Title != "new-show" || len(shows.added) != 1 {
			t.Errorf("AddShow() item = %+v, target adds = %d", item, len(shows.added))
		}
		if len(history.records) != 1 {
			t.Errorf("history recorded %d adds, want 1", len(history.records))
		}
	})

	t.Run("already managed", func(t *testing.T) {
		show := testShow("existing-show", 101)
		source := &fakeSource{show: &show}
		shows := &fakeShowTarget{existing: map[int]struct{}{101: {}}}
		e := newTestEngine(nil, engineDeps{source: source, shows: shows})

		_, err := e.AddShow(context.Background(), "existing-show", AddOptions{})
		if !errors.Is(err, shared.ErrAlreadyExists) {
			t.Errorf("AddShow() error = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("dry run", func(t *testing.T) {
		show := testShow("dry-show", 101)
		source := &fakeSource{show: &show}
		shows := &fakeShowTarget{}
		e := newTestEngine(nil, engineDeps{source: source, shows: shows})

		if _, err := e.AddShow(context.Background(), "dry-show", AddOptions{DryRun: true}); err != nil {
			t.Fatalf("AddShow() error = %v", err)
		}
		if len(shows.added) != 0 {
			t.Errorf("target received %d adds during dry run, want 0", len(shows.added))
		}
	})
}

func TestAddMovieExcluded(t *testing.T) {
	movie := testMovie("excluded", 201)
	source := &fakeSource{movie: &movie}
	movies := &fakeMovieTarget{excluded: map[int]struct{}{201: {}}}
	e := newTestEngine(nil, engineDeps{source: source, movies: movies})

	_, err := e.AddMovie(context.Background(), "excluded", AddOptions{})
	if !errors.Is(err, shared.ErrAlreadyExists) {
		t.Errorf("AddMovie() error = %v, want ErrAlreadyExists", err)
	}
}

func TestAutomaticPublicSweep(t *testing.T) {
	cfg := testConfig()
	cfg.Automatic.Shows = shared.AutomaticMedia{Anticipated: 2, Trending: 1, Popular: 0}

	source := &fakeSource{list: []models.Media{
		testShow("first", 101),
		testShow("second", 102),
		testShow("third", 103),
	}}
	shows := &fakeShowTarget{}
	e := newTestEngine(cfg, engineDeps{source: source, shows: shows})

	result, err := e.Automatic(context.Background(), nil, AutomaticOptions{
		Kind:  models.KindShow,
		Scope: PublicLists,
		Delay: -1,
	})
	if err != nil {
		t.Fatalf("Automatic() error = %v", err)
	}
	// popular has limit 0 and is skipped; anticipated adds 2, trending 1
	if result.Lists != 2 {
		t.Errorf("result.Lists = %d, want 2", result.Lists)
	}
	if result.Added != 3 {
		t.Errorf("result.Added = %d, want 3", result.Added)
	}
}

func TestAutomaticDisabledForOverridesBlacklist(t *testing.T) {
	cfg := testConfig()
	cfg.Automatic.Shows = shared.AutomaticMedia{Anticipated: 1, Trending: 1}
	cfg.Filters.Shows.BlacklistedGenres = []string{"reality"}
	cfg.Filters.Shows.DisabledFor = []string{"Anticipated"}

	item := testShow("guilty pleasure", 101)
	item.Genres = []string{"reality"}
	source := &fakeSource{list: []models.Media{item}}
	shows := &fakeShowTarget{}
	e := newTestEngine(cfg, engineDeps{source: source, shows: shows})

	result, err := e.Automatic(context.Background(), nil, AutomaticOptions{
		Kind:  models.KindShow,
		Scope: PublicLists,
		Delay: -1,
	})
	if err != nil {
		t.Fatalf("Automatic() error = %v", err)
	}
	// disabled_for does not skip the list; it runs with the blacklist
	// overridden, so the reality show lands from anticipated and is
	// rejected by trending
	if result.Lists != 2 {
		t.Errorf("result.Lists = %d, want 2", result.Lists)
	}
	if result.Added != 1 {
		t.Errorf("result.Added = %d, want 1", result.Added)
	}
	if len(shows.added) != 1 || shows.added[0].Title != "guilty pleasure" {
		t.Errorf("target adds = %v, want the blacklisted show added once", shows.added)
	}
}

func TestAutomaticUserSweep(t *testing.T) {
	cfg := testConfig()
	cfg.Automatic.Movies = shared.AutomaticMedia{
		Watchlist: map[string]int{"someuser": 5},
		Lists:     map[string]shared.UserList{"hidden-gems": {Limit: 3, AuthenticateUser: "curator"}},
	}
	cfg.Filters.Movies.DisabledFor = []string{"watchlist:someuser"}

	source := &fakeSource{list: []models.Media{testMovie("gem", 201)}}
	movies := &fakeMovieTarget{}
	e := newTestEngine(cfg, engineDeps{source: source, movies: movies})

	result, err := e.Automatic(context.Background(), nil, AutomaticOptions{
		Kind:  models.KindMovie,
		Scope: UserLists,
		Delay: -1,
	})
	if err != nil {
		t.Fatalf("Automatic() error = %v", err)
	}
	// the disabled_for entry only lifts the blacklist; both user lists run
	if result.Lists != 2 || result.Added != 2 {
		t.Errorf("result = %+v, want both user lists processed", result)
	}
	if source.gotReq.AuthenticateUser != "curator" {
		t.Errorf("list fetched as %q, want curator", source.gotReq.AuthenticateUser)
	}
}

func TestAutomaticListFailureContinues(t *testing.T) {
	cfg := testConfig()
	cfg.Automatic.Shows = shared.AutomaticMedia{Anticipated: 1, Trending: 1}

	// first list fails at fetch, second succeeds
	source := &fakeSource{listErr: errors.New("api down")}
	shows := &fakeShowTarget{}
	e := newTestEngine(cfg, engineDeps{source: source, shows: shows})
	calls := 0
	origList := []models.Media{testShow("first", 101)}
	e.sleep = func(context.Context, time.Duration) {
		// the pause between lists marks the boundary; restore the source
		calls++
		source.listErr = nil
		source.list = origList
	}

	result, err := e.Automatic(context.Background(), nil, AutomaticOptions{
		Kind:  models.KindShow,
		Scope: PublicLists,
		Delay: -1,
	})
	if err != nil {
		t.Fatalf("Automatic() error = %v", err)
	}
	if result.Lists != 2 || result.Added != 1 {
		t.Errorf("result = %+v, want 2 lists attempted, 1 added", result)
	}
}

func TestProcessPassesSearchFiltersToSource(t *testing.T) {
	cfg := testConfig()
	cfg.Filters.Movies.AllowedCountries = []string{"us", "gb"}
	cfg.Filters.Movies.AllowedLanguages = []string{"ignore"}
	cfg.Filters.Movies.BlacklistedMinRuntime = 60

	source := &fakeSource{list: []models.Media{}}
	e := newTestEngine(cfg, engineDeps{source: source})

	_, err := e.Process(context.Background(), nil, ProcessOptions{
		Kind:  models.KindMovie,
		List:  "popular",
		Years: "2005-2010",
		Delay: -1,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	req := source.gotReq
	if req.Years != "2005-2010" {
		t.Errorf("req.Years = %q, want 2005-2010", req.Years)
	}
	if len(req.Countries) != 2 {
		t.Errorf("req.Countries = %v, want [us gb]", req.Countries)
	}
	if req.Languages != nil {
		t.Errorf("req.Languages = %v, want nil when disabled with ignore", req.Languages)
	}
	if req.Runtimes != "60-9999" {
		t.Errorf("req.Runtimes = %q, want 60-9999", req.Runtimes)
	}
}
