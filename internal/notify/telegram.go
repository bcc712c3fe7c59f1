// Package notify implements outbound delivery. The Telegram Bot API is
// the only transport; recipients are chat identifiers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Telegram sends plain-text messages through the Bot API.
type Telegram struct {
	token      string
	endpoint   string
	httpClient *http.Client
}

// NewTelegram builds a deliverer for the given bot token. endpoint
// overrides the API host in tests; empty means api.telegram.org.
func NewTelegram(token, endpoint string) *Telegram {
	if endpoint == "" {
		endpoint = "https://api.telegram.org"
	}
	return &Telegram{
		token:      token,
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Send delivers text to one chat. Errors surface to the caller; the
// scheduler treats them per recipient.
func (t *Telegram) Send(ctx context.Context, recipient, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id": recipient,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.endpoint, t.token)
	req, err := http.NewRequestWithContext(ctx, "POST", url, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send to %s: %w", recipient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("send to %s: status %d: %s", recipient, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
