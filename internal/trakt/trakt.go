// package trakt implements the Trakt API client used as the list source.
//
// Response types based on https://trakt.docs.apiary.io/ (API v2). List
// endpoints are requested with extended=full so the records carry the
// votes/rating/runtime attributes the pipeline filters and sorts on.
package trakt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ShadyBoukhary/traktarr/internal/models"
	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

const defaultBaseURL = "https://api.trakt.tv"

// PublicLists names the globally curated Trakt lists. Everything else
// (watchlist, custom lists) is tied to a user account. The played/watched
// lists match on prefix so period variants like "watched_monthly" count.
var PublicLists = []string{
	"anticipated", "trending", "popular", "boxoffice",
	"played", "watched", "person", "recommended",
}

// IsPublicList reports whether the named list is a globally curated one.
func IsPublicList(list string) bool {
	name := strings.ToLower(list)
	if i := strings.Index(name, "_"); i > 0 {
		name = name[:i]
	}
	for _, l := range PublicLists {
		if name == l {
			return true
		}
	}
	return false
}

// ListRequest describes one list fetch.
type ListRequest struct {
	Kind             models.Kind
	List             string // list name, or a custom list name/URL
	Person           string // required for the person list
	IncludeNonActing bool
	AuthenticateUser string // user for watchlist/custom lists, empty = authenticated user
	Years            string // "2005" or "2000-2010"
	Countries        []string
	Languages        []string
	Genres           []string
	Runtimes         string // "60-9999", movies only
}

// Client is the Trakt API client.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	accessToken  string
	httpClient   *http.Client
}

// NewClient creates a Trakt client from the configured credentials.
func NewClient(cfg shared.TraktConfig) *Client {
	return &Client{
		baseURL:      defaultBaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		accessToken:  cfg.AccessToken,
		httpClient:   http.DefaultClient,
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = strings.TrimRight(u, "/") }

// doRequest performs an authenticated request against the Trakt API and
// decodes the JSON response into result when non-nil.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, result any) error {
	if c.clientID == "" {
		return fmt.Errorf("%w: missing trakt client_id", shared.ErrInvalidCredentials)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", "2")
	req.Header.Set("trakt-api-key", c.clientID)
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: trakt returned status %d", shared.ErrInvalidCredentials, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: trakt API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// ValidateClientID probes a keyed endpoint to confirm the configured API
// credentials are accepted.
func (c *Client) ValidateClientID(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/genres/shows", nil)
}

// traktItem is the shape shared by show and movie records under
// extended=full. Movies carry released, shows first_aired.
type traktItem struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	IDs   struct {
		Trakt int    `json:"trakt"`
		Slug  string `json:"slug"`
		TVDB  int    `json:"tvdb"`
		TMDB  int    `json:"tmdb"`
		IMDB  string `json:"imdb"`
	} `json:"ids"`
	FirstAired string   `json:"first_aired"`
	Released   string   `json:"released"`
	Runtime    int      `json:"runtime"`
	Country    string   `json:"country"`
	Language   string   `json:"language"`
	Genres     []string `json:"genres"`
	Votes      int      `json:"votes"`
	Rating     float64  `json:"rating"`
}

// listEntry covers the wrapped response shape used by trending, played,
// watchlist and custom-list endpoints.
type listEntry struct {
	Show  *traktItem `json:"show"`
	Movie *traktItem `json:"movie"`
}

// personCredits is the shape of the /people/{id}/{shows|movies} endpoint.
type personCredits struct {
	Cast []listEntry            `json:"cast"`
	Crew map[string][]listEntry `json:"crew"`
}

func (i *traktItem) toMedia(kind models.Kind) models.Media {
	released := i.Released
	if released == "" && i.FirstAired != "" {
		// first_aired is an RFC3339 timestamp; keep the date part so release
		// sorting compares uniformly.
		if len(i.FirstAired) >= 10 {
			released = i.FirstAired[:10]
		}
	}
	return models.Media{
		Kind:  kind,
		Title: i.Title,
		Year:  i.Year,
		IDs: models.IDs{
			Trakt: i.IDs.Trakt,
			TVDB:  i.IDs.TVDB,
			TMDB:  i.IDs.TMDB,
			IMDB:  i.IDs.IMDB,
			Slug:  i.IDs.Slug,
		},
		Genres:   i.Genres,
		Country:  i.Country,
		Language: i.Language,
		Votes:    i.Votes,
		Rating:   i.Rating,
		Released: released,
		Runtime:  i.Runtime,
	}
}

// GetList retrieves the requested list as normalized media records.
// An empty result is returned as an empty, non-nil slice.
func (c *Client) GetList(ctx context.Context, req ListRequest) ([]models.Media, error) {
	endpoint, err := c.listEndpoint(req)
	if err != nil {
		return nil, err
	}
	endpoint += listQuery(req)

	if strings.ToLower(req.List) == "person" {
		var credits personCredits
		if err := c.doRequest(ctx, http.MethodGet, endpoint, &credits); err != nil {
			return nil, err
		}
		entries := credits.Cast
		if req.IncludeNonActing {
			for _, crew := range credits.Crew {
				entries = append(entries, crew...)
			}
		}
		return entriesToMedia(req.Kind, entries), nil
	}

	var raw []json.RawMessage
	if err := c.doRequest(ctx, http.MethodGet, endpoint, &raw); err != nil {
		return nil, err
	}
	return decodeEntries(req.Kind, raw)
}

// decodeEntries handles both response shapes Trakt uses for lists: wrapped
// entries ({"watchers":N,"show":{...}}) and flat item objects.
func decodeEntries(kind models.Kind, raw []json.RawMessage) ([]models.Media, error) {
	list := make([]models.Media, 0, len(raw))
	for _, msg := range raw {
		var entry listEntry
		if err := json.Unmarshal(msg, &entry); err != nil {
			return nil, fmt.Errorf("failed to decode list entry: %w", err)
		}
		if item := entry.item(kind); item != nil {
			list = append(list, item.toMedia(kind))
			continue
		}

		var flat traktItem
		if err := json.Unmarshal(msg, &flat); err != nil {
			return nil, fmt.Errorf("failed to decode list entry: %w", err)
		}
		if flat.Title == "" && flat.IDs.Trakt == 0 {
			continue
		}
		list = append(list, flat.toMedia(kind))
	}
	return list, nil
}

func entriesToMedia(kind models.Kind, entries []listEntry) []models.Media {
	list := make([]models.Media, 0, len(entries))
	for _, entry := range entries {
		if item := entry.item(kind); item != nil {
			list = append(list, item.toMedia(kind))
		}
	}
	return list
}

func (e *listEntry) item(kind models.Kind) *traktItem {
	if kind == models.KindShow {
		return e.Show
	}
	return e.Movie
}

// listEndpoint resolves the list name to an API path.
func (c *Client) listEndpoint(req ListRequest) (string, error) {
	kind := string(req.Kind) + "s" // shows | movies
	list := strings.ToLower(req.List)
	user := req.AuthenticateUser
	if user == "" {
		user = "me"
	}

	switch {
	case list == "anticipated" || list == "trending" || list == "popular":
		return fmt.Sprintf("/%s/%s", kind, list), nil
	case list == "boxoffice":
		if req.Kind != models.KindMovie {
			return "", fmt.Errorf("%w: boxoffice list is movies only", shared.ErrInvalidArgument)
		}
		return "/movies/boxoffice", nil
	case list == "person":
		if req.Person == "" {
			return "", fmt.Errorf("%w: person argument required for the person list", shared.ErrInvalidArgument)
		}
		return fmt.Sprintf("/people/%s/%s", slugify(req.Person), kind), nil
	case list == "recommended":
		return "/recommendations/" + kind, nil
	case list == "watchlist":
		return fmt.Sprintf("/users/%s/watchlist/%s", url.PathEscape(user), kind), nil
	case strings.HasPrefix(list, "played") || strings.HasPrefix(list, "watched"):
		name, period, _ := strings.Cut(list, "_")
		if period == "" {
			period = "weekly"
		}
		return fmt.Sprintf("/%s/%s/%s", kind, name, period), nil
	default:
		listUser, slug := parseCustomList(req.List, user)
		return fmt.Sprintf("/users/%s/lists/%s/items/%s", url.PathEscape(listUser), url.PathEscape(slug), kind), nil
	}
}

// parseCustomList accepts either a bare list slug or a full trakt.tv list
// URL ("https://trakt.tv/users/<user>/lists/<slug>") and returns the owning
// user plus the list slug.
func parseCustomList(list, defaultUser string) (string, string) {
	if !strings.Contains(list, "trakt.tv") {
		return defaultUser, slugify(list)
	}
	parts := strings.Split(strings.TrimRight(list, "/"), "/")
	for i, part := range parts {
		if part == "users" && i+3 < len(parts) && parts[i+2] == "lists" {
			return parts[i+1], parts[i+3]
		}
	}
	return defaultUser, slugify(list)
}

func slugify(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}

// listQuery builds the common filter query string.
func listQuery(req ListRequest) string {
	q := url.Values{}
	q.Set("extended", "full")
	if req.Years != "" {
		q.Set("years", req.Years)
	}
	if len(req.Countries) > 0 {
		q.Set("countries", strings.ToLower(strings.Join(req.Countries, ",")))
	}
	if len(req.Languages) > 0 {
		q.Set("languages", strings.ToLower(strings.Join(req.Languages, ",")))
	}
	if len(req.Genres) > 0 {
		q.Set("genres", strings.ToLower(strings.Join(req.Genres, ",")))
	}
	if req.Runtimes != "" {
		q.Set("runtimes", req.Runtimes)
	}
	return "?" + q.Encode()
}

// GetShow retrieves a single show by Trakt id or slug.
func (c *Client) GetShow(ctx context.Context, id string) (*models.Media, error) {
	var item traktItem
	endpoint := fmt.Sprintf("/shows/%s?extended=full", url.PathEscape(id))
	if err := c.doRequest(ctx, http.MethodGet, endpoint, &item); err != nil {
		return nil, err
	}
	media := item.toMedia(models.KindShow)
	return &media, nil
}

// GetMovie retrieves a single movie by Trakt id or slug.
func (c *Client) GetMovie(ctx context.Context, id string) (*models.Media, error) {
	var item traktItem
	endpoint := fmt.Sprintf("/movies/%s?extended=full", url.PathEscape(id))
	if err := c.doRequest(ctx, http.MethodGet, endpoint, &item); err != nil {
		return nil, err
	}
	media := item.toMedia(models.KindMovie)
	return &media, nil
}

// RemoveFromRecommended deletes an item from the authenticated user's
// recommendations. Used for rejection cleanup on the recommended list.
func (c *Client) RemoveFromRecommended(ctx context.Context, kind models.Kind, traktID int) error {
	endpoint := fmt.Sprintf("/recommendations/%ss/%s", kind, strconv.Itoa(traktID))
	return c.doRequest(ctx, http.MethodDelete, endpoint, nil)
}
