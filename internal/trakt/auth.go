package trakt

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

func (c *Client) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: c.baseURL + "/oauth/device/code",
			TokenURL:      c.baseURL + "/oauth/token",
		},
	}
}

// DeviceAuth runs the OAuth device code flow against Trakt. The prompt
// callback receives the user code and verification URL to surface to the
// user; the call then blocks polling for approval until the device code
// expires or ctx is cancelled. On success the client adopts the new access
// token for subsequent requests.
func (c *Client) DeviceAuth(ctx context.Context, prompt func(userCode, verificationURL string)) (*oauth2.Token, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, fmt.Errorf("%w: trakt client_id and client_secret are required for authentication", shared.ErrInvalidCredentials)
	}

	cfg := c.oauthConfig()
	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start device authentication: %w", err)
	}

	if prompt != nil {
		prompt(resp.UserCode, resp.VerificationURI)
	}

	token, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device authentication failed: %w", err)
	}

	c.accessToken = token.AccessToken
	return token, nil
}
