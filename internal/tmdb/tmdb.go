// package tmdb implements the TMDb existence probe run before submitting
// a movie, which keeps ghost Trakt entries out of the target server.
package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// Client is the TMDb API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a TMDb client. An empty API key yields a client that
// reports every id as existing, which disables the probe.
func NewClient(cfg shared.TMDBConfig) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     cfg.APIKey,
		httpClient: http.DefaultClient,
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = strings.TrimRight(u, "/") }

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// MovieExists reports whether TMDb knows the movie id. Disabled clients
// report true so the probe never blocks adds.
func (c *Client) MovieExists(ctx context.Context, tmdbID int) (bool, error) {
	if !c.Enabled() {
		return true, nil
	}
	if tmdbID == 0 {
		return false, nil
	}

	url := fmt.Sprintf("%s/movie/%s?api_key=%s", c.baseURL, strconv.Itoa(tmdbID), c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return false, fmt.Errorf("%w: tmdb rejected the api key", shared.ErrInvalidCredentials)
	default:
		return false, fmt.Errorf("%w: tmdb returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
}
