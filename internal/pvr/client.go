// package pvr implements the Sonarr and Radarr API clients the pipeline
// submits accepted media to.
//
// Both servers expose the same v3 API conventions (X-Api-Key header,
// /api/v3 prefix), so the transport lives in a shared client embedded by
// the two typed wrappers.
package pvr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newClient(rawURL, apiKey string) client {
	return client{
		baseURL:    strings.TrimRight(rawURL, "/"),
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

// doRequest performs a request against the server's v3 API, encoding body
// as JSON when non-nil and decoding the response into result when non-nil.
func (c *client) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if c.baseURL == "" || c.apiKey == "" {
		return fmt.Errorf("%w: server url and api key are required", shared.ErrInvalidCredentials)
	}

	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	url := c.baseURL + "/api/v3" + endpoint
	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: server rejected the api key", shared.ErrInvalidCredentials)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: server returned status %d for %s %s",
			shared.ErrAPIRequest, resp.StatusCode, method, endpoint)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// validate probes the system status endpoint, confirming connectivity and
// the api key in one round trip.
func (c *client) validate(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/system/status", nil, nil)
}

type qualityProfile struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// qualityProfileID resolves a profile name to its id, case-insensitively.
func (c *client) qualityProfileID(ctx context.Context, name string) (int, error) {
	var profiles []qualityProfile
	if err := c.doRequest(ctx, http.MethodGet, "/qualityprofile", nil, &profiles); err != nil {
		return 0, err
	}
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: quality profile %q", shared.ErrProfileNotFound, name)
}
