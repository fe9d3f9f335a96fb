// package omdb implements the OMDb ratings lookup backing the Rotten
// Tomatoes score gate for movies.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

const defaultBaseURL = "https://www.omdbapi.com"

// Client is the OMDb API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an OMDb client. An empty API key yields a client whose
// lookups always report no score, which disables the gate.
func NewClient(cfg shared.OMDBConfig) *Client {
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

type omdbResponse struct {
	Response string `json:"Response"`
	Ratings  []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
}

// RottenTomatoesScore looks up the Rotten Tomatoes score for a movie by
// IMDb id. The second return value is false when the title has no RT
// rating (or the client is disabled); that is not an error.
func (c *Client) RottenTomatoesScore(ctx context.Context, imdbID string) (int, bool, error) {
	if !c.Enabled() || imdbID == "" {
		return 0, false, nil
	}

	q := url.Values{}
	q.Set("i", imdbID)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+q.Encode(), nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("%w: omdb returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var body omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, false, fmt.Errorf("failed to decode response: %w", err)
	}
	if !strings.EqualFold(body.Response, "True") {
		return 0, false, nil
	}

	for _, rating := range body.Ratings {
		if rating.Source != "Rotten Tomatoes" {
			continue
		}
		score, err := strconv.Atoi(strings.TrimSuffix(rating.Value, "%"))
		if err != nil {
			return 0, false, nil
		}
		return score, true, nil
	}
	return 0, false, nil
}
