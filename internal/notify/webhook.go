package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

// Webhook posts messages to a Discord-compatible webhook URL.
type Webhook struct {
	url        string
	username   string
	avatarURL  string
	httpClient *http.Client
}

// NewWebhook creates a webhook agent, or nil when no URL is configured.
func NewWebhook(cfg shared.WebhookConfig) *Webhook {
	if cfg.URL == "" {
		return nil
	}
	return &Webhook{
		url:        cfg.URL,
		username:   cfg.Username,
		avatarURL:  cfg.AvatarURL,
		httpClient: http.DefaultClient,
	}
}

func (w *Webhook) Name() string { return "webhook" }

type webhookPayload struct {
	Content   string `json:"content"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Send posts the message as the webhook payload content.
func (w *Webhook) Send(ctx context.Context, message string) error {
	payload := webhookPayload{
		Content:   message,
		Username:  w.username,
		AvatarURL: w.avatarURL,
	}
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(payload); err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: webhook returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}
