package email

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// MailgunAdapter implements notification.EmailSender against the Mailgun
// messages API.
type MailgunAdapter struct {
	baseURL    string
	apiKey     string
	domain     string
	from       string
	httpClient *http.Client
}

// NewMailgunAdapter creates a new Mailgun adapter
func NewMailgunAdapter(cfg config.EmailConfig) *MailgunAdapter {
	return &MailgunAdapter{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		domain:  cfg.Domain,
		from:    cfg.FromEmail,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send delivers one message via Mailgun's form-encoded messages endpoint
func (a *MailgunAdapter) Send(ctx context.Context, msg notification.Message) error {
	form := url.Values{}
	form.Set("from", a.from)
	form.Set("to", msg.To)
	form.Set("subject", msg.Subject)
	if msg.HTML != "" {
		form.Set("html", msg.HTML)
	}
	if msg.Text != "" {
		form.Set("text", msg.Text)
	}

	endpoint := fmt.Sprintf("%s/v3/%s/messages", a.baseURL, a.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("mailgun: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("api", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailgun: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailgun: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

var _ notification.EmailSender = (*MailgunAdapter)(nil)
