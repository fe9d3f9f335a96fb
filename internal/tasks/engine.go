// package tasks implements the add pipeline: fetch a curated list, filter
// it against the configured criteria and the target server's inventory,
// sort what is left and submit it with inter-item throttling.
//
// The core abstraction is Engine, which orchestrates batch runs, single
// adds and automatic mode. Pipeline occurrences are emitted as typed
// events via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/ShadyBoukhary/traktarr/internal/models"
	"github.com/ShadyBoukhary/traktarr/internal/pvr"
	"github.com/ShadyBoukhary/traktarr/internal/shared"
	"github.com/ShadyBoukhary/traktarr/internal/trakt"
)

// ListSource fetches curated lists and single records from the catalog.
type ListSource interface {
	GetList(ctx context.Context, req trakt.ListRequest) ([]models.Media, error)
	GetShow(ctx context.Context, id string) (*models.Media, error)
	GetMovie(ctx context.Context, id string) (*models.Media, error)
	RemoveFromRecommended(ctx context.Context, kind models.Kind, traktID int) error
}

// ShowTarget is the server shows are submitted to.
type ShowTarget interface {
	ValidateAPIKey(ctx context.Context) error
	QualityProfileID(ctx context.Context, name string) (int, error)
	LanguageProfileID(ctx context.Context, name string) (int, error)
	TagIDs(ctx context.Context, labels []string) ([]int, error)
	Series(ctx context.Context) (map[int]struct{}, error)
	AddSeries(ctx context.Context, item models.Media, opts pvr.AddSeriesOptions) error
}

// MovieTarget is the server movies are submitted to.
type MovieTarget interface {
	ValidateAPIKey(ctx context.Context) error
	QualityProfileID(ctx context.Context, name string) (int, error)
	Movies(ctx context.Context) (map[int]struct{}, error)
	Exclusions(ctx context.Context) (map[int]struct{}, error)
	AddMovie(ctx context.Context, item models.Media, opts pvr.AddMovieOptions) error
}

// Ratings looks up external review scores for the score gate.
type Ratings interface {
	Enabled() bool
	RottenTomatoesScore(ctx context.Context, imdbID string) (int, bool, error)
}

// Catalog answers existence probes before movies are submitted.
type Catalog interface {
	MovieExists(ctx context.Context, tmdbID int) (bool, error)
}

// History records successful adds. A nil History disables recording.
type History interface {
	Record(runID string, item models.Media, list string) error
}

// Engine orchestrates the add pipeline against its injected dependencies.
type Engine struct {
	cfg     *shared.Config
	source  ListSource
	shows   ShowTarget
	movies  MovieTarget
	ratings Ratings
	catalog Catalog
	history History
	logger  *log.Logger

	// sleep is swapped for a fake in tests; automatic mode pauses between
	// lists through it.
	sleep sleepFunc
}

// NewEngine creates an Engine. ratings, catalog and history may be nil to
// disable the score gate, the existence probe and add recording.
func NewEngine(
	cfg *shared.Config,
	source ListSource,
	shows ShowTarget,
	movies MovieTarget,
	ratings Ratings,
	catalog Catalog,
	history History,
	logger *log.Logger,
) *Engine {
	return &Engine{
		cfg:     cfg,
		source:  source,
		shows:   shows,
		movies:  movies,
		ratings: ratings,
		catalog: catalog,
		history: history,
		logger:  logger,
		sleep:   defaultSleep,
	}
}
