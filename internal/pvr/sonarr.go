package pvr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ShadyBoukhary/traktarr/internal/models"
	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

// Sonarr is the show target.
type Sonarr struct {
	client
}

// NewSonarr creates a Sonarr client from the configured connection settings.
func NewSonarr(cfg shared.SonarrConfig) *Sonarr {
	return &Sonarr{client: newClient(cfg.URL, cfg.APIKey)}
}

// SetBaseURL overrides the server URL. Used by tests.
func (s *Sonarr) SetBaseURL(u string) { s.baseURL = strings.TrimRight(u, "/") }

// ValidateAPIKey confirms the server is reachable and accepts the key.
func (s *Sonarr) ValidateAPIKey(ctx context.Context) error { return s.validate(ctx) }

// QualityProfileID resolves the configured quality profile name to its id.
func (s *Sonarr) QualityProfileID(ctx context.Context, name string) (int, error) {
	return s.qualityProfileID(ctx, name)
}

// LanguageProfileID resolves a language profile name to its id. Servers
// without language profiles (the endpoint was removed in Sonarr v4) and an
// empty name both resolve to the default profile id 1.
func (s *Sonarr) LanguageProfileID(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 1, nil
	}
	var profiles []qualityProfile
	err := s.doRequest(ctx, http.MethodGet, "/languageprofile", nil, &profiles)
	if errors.Is(err, shared.ErrNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: language profile %q", shared.ErrProfileNotFound, name)
}

type sonarrTag struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// TagIDs resolves configured tag labels to ids. Unknown labels are skipped.
func (s *Sonarr) TagIDs(ctx context.Context, labels []string) ([]int, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	var tags []sonarrTag
	if err := s.doRequest(ctx, http.MethodGet, "/tag", nil, &tags); err != nil {
		return nil, err
	}
	var ids []int
	for _, label := range labels {
		for _, tag := range tags {
			if strings.EqualFold(tag.Label, label) {
				ids = append(ids, tag.ID)
				break
			}
		}
	}
	return ids, nil
}

type sonarrSeries struct {
	TVDBID int `json:"tvdbId"`
}

// Series returns the TVDB ids of every series already managed by the
// server, as a set.
func (s *Sonarr) Series(ctx context.Context) (map[int]struct{}, error) {
	var series []sonarrSeries
	if err := s.doRequest(ctx, http.MethodGet, "/series", nil, &series); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInventoryFetch, err)
	}
	existing := make(map[int]struct{}, len(series))
	for _, sr := range series {
		existing[sr.TVDBID] = struct{}{}
	}
	return existing, nil
}

// AddSeriesOptions carries the per-run add settings resolved during
// pipeline validation.
type AddSeriesOptions struct {
	QualityProfileID  int
	LanguageProfileID int
	RootFolder        string
	SeasonFolder      bool
	Tags              []int
	SearchMissing     bool
}

type addSeriesRequest struct {
	TVDBID            int              `json:"tvdbId"`
	Title             string           `json:"title"`
	TitleSlug         string           `json:"titleSlug"`
	Year              int              `json:"year"`
	QualityProfileID  int              `json:"qualityProfileId"`
	LanguageProfileID int              `json:"languageProfileId"`
	SeriesType        string           `json:"seriesType"`
	RootFolderPath    string           `json:"rootFolderPath"`
	SeasonFolder      bool             `json:"seasonFolder"`
	Monitored         bool             `json:"monitored"`
	Tags              []int            `json:"tags,omitempty"`
	Images            []struct{}       `json:"images"`
	Seasons           []struct{}       `json:"seasons"`
	AddOptions        seriesAddOptions `json:"addOptions"`
}

type seriesAddOptions struct {
	IgnoreEpisodesWithFiles    bool `json:"ignoreEpisodesWithFiles"`
	IgnoreEpisodesWithoutFiles bool `json:"ignoreEpisodesWithoutFiles"`
	SearchForMissingEpisodes   bool `json:"searchForMissingEpisodes"`
}

// AddSeries submits one show. Shows carrying the anime genre are added with
// the anime series type so the server applies absolute episode numbering.
func (s *Sonarr) AddSeries(ctx context.Context, item models.Media, opts AddSeriesOptions) error {
	seriesType := "standard"
	if item.HasGenre("anime") {
		seriesType = "anime"
	}

	req := addSeriesRequest{
		TVDBID:            item.IDs.TVDB,
		Title:             item.Title,
		TitleSlug:         item.IDs.Slug,
		Year:              item.Year,
		QualityProfileID:  opts.QualityProfileID,
		LanguageProfileID: opts.LanguageProfileID,
		SeriesType:        seriesType,
		RootFolderPath:    opts.RootFolder,
		SeasonFolder:      opts.SeasonFolder,
		Monitored:         true,
		Tags:              opts.Tags,
		Images:            []struct{}{},
		Seasons:           []struct{}{},
		AddOptions: seriesAddOptions{
			SearchForMissingEpisodes: opts.SearchMissing,
		},
	}
	return s.doRequest(ctx, http.MethodPost, "/series", req, nil)
}
