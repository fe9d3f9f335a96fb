package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

const pushoverAPIURL = "https://api.pushover.net/1/messages.json"

// Pushover delivers messages through the Pushover message API.
type Pushover struct {
	apiURL     string
	token      string
	userKey    string
	priority   int
	httpClient *http.Client
}

// NewPushover creates a Pushover agent, or nil when no token is configured.
func NewPushover(cfg shared.PushoverConfig) *Pushover {
	if cfg.Token == "" || cfg.UserKey == "" {
		return nil
	}
	return &Pushover{
		apiURL:     pushoverAPIURL,
		token:      cfg.Token,
		userKey:    cfg.UserKey,
		priority:   cfg.Priority,
		httpClient: http.DefaultClient,
	}
}

func (p *Pushover) Name() string { return "pushover" }

// SetAPIURL overrides the API URL. Used by tests.
func (p *Pushover) SetAPIURL(u string) { p.apiURL = u }

// Send posts the message with the configured priority.
func (p *Pushover) Send(ctx context.Context, message string) error {
	form := url.Values{}
	form.Set("token", p.token)
	form.Set("user", p.userKey)
	form.Set("message", message)
	form.Set("priority", strconv.Itoa(p.priority))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: pushover returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}
