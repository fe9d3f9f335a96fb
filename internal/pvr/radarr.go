package pvr

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ShadyBoukhary/traktarr/internal/models"
	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

// Radarr is the movie target.
type Radarr struct {
	client
}

// NewRadarr creates a Radarr client from the configured connection settings.
func NewRadarr(cfg shared.RadarrConfig) *Radarr {
	return &Radarr{client: newClient(cfg.URL, cfg.APIKey)}
}

// SetBaseURL overrides the server URL. Used by tests.
func (r *Radarr) SetBaseURL(u string) { r.baseURL = strings.TrimRight(u, "/") }

// ValidateAPIKey confirms the server is reachable and accepts the key.
func (r *Radarr) ValidateAPIKey(ctx context.Context) error { return r.validate(ctx) }

// QualityProfileID resolves the configured quality profile name to its id.
func (r *Radarr) QualityProfileID(ctx context.Context, name string) (int, error) {
	return r.qualityProfileID(ctx, name)
}

type radarrMovie struct {
	TMDBID int `json:"tmdbId"`
}

// Movies returns the TMDB ids of every movie already managed by the
// server, as a set.
func (r *Radarr) Movies(ctx context.Context) (map[int]struct{}, error) {
	var movies []radarrMovie
	if err := r.doRequest(ctx, http.MethodGet, "/movie", nil, &movies); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInventoryFetch, err)
	}
	existing := make(map[int]struct{}, len(movies))
	for _, m := range movies {
		existing[m.TMDBID] = struct{}{}
	}
	return existing, nil
}

// Exclusions returns the TMDB ids on the server's import exclusion list.
// Movies the user deleted and excluded must never be re-added.
func (r *Radarr) Exclusions(ctx context.Context) (map[int]struct{}, error) {
	var exclusions []radarrMovie
	if err := r.doRequest(ctx, http.MethodGet, "/exclusions", nil, &exclusions); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInventoryFetch, err)
	}
	excluded := make(map[int]struct{}, len(exclusions))
	for _, e := range exclusions {
		excluded[e.TMDBID] = struct{}{}
	}
	return excluded, nil
}

// AddMovieOptions carries the per-run add settings resolved during
// pipeline validation.
type AddMovieOptions struct {
	QualityProfileID    int
	RootFolder          string
	MinimumAvailability string
	Search              bool
}

type addMovieRequest struct {
	TMDBID              int             `json:"tmdbId"`
	Title               string          `json:"title"`
	TitleSlug           string          `json:"titleSlug"`
	Year                int             `json:"year"`
	QualityProfileID    int             `json:"qualityProfileId"`
	RootFolderPath      string          `json:"rootFolderPath"`
	MinimumAvailability string          `json:"minimumAvailability"`
	Monitored           bool            `json:"monitored"`
	Images              []struct{}      `json:"images"`
	AddOptions          movieAddOptions `json:"addOptions"`
}

type movieAddOptions struct {
	SearchForMovie bool `json:"searchForMovie"`
}

// AddMovie submits one movie.
func (r *Radarr) AddMovie(ctx context.Context, item models.Media, opts AddMovieOptions) error {
	req := addMovieRequest{
		TMDBID:              item.IDs.TMDB,
		Title:               item.Title,
		TitleSlug:           item.IDs.Slug,
		Year:                item.Year,
		QualityProfileID:    opts.QualityProfileID,
		RootFolderPath:      opts.RootFolder,
		MinimumAvailability: opts.MinimumAvailability,
		Monitored:           true,
		Images:              []struct{}{},
		AddOptions: movieAddOptions{
			SearchForMovie: opts.Search,
		},
	}
	return r.doRequest(ctx, http.MethodPost, "/movie", req, nil)
}
