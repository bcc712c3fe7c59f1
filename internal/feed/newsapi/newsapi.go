// Package newsapi implements feed.Reader over the newsapi.org
// /v2/everything endpoint. A monitored "channel" maps to a source domain
// or query understood by the API.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mohsen-qasemi/herald/internal/feed"
)

type article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

type response struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type Reader struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

func New(apiKey, endpoint string) *Reader {
	if endpoint == "" {
		endpoint = "https://newsapi.org/v2/everything"
	}
	return &Reader{
		APIKey:     apiKey,
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch returns articles for the channel newer than since, newest first
// (the API's publishedAt ordering).
func (r *Reader) Fetch(ctx context.Context, channel string, since time.Time) ([]feed.Item, error) {
	params := url.Values{}
	params.Add("q", channel)
	params.Add("from", since.UTC().Format(time.RFC3339))
	params.Add("sortBy", "publishedAt")
	params.Add("apiKey", r.APIKey)

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s?%s", r.Endpoint, params.Encode()), nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi error: %s", resp.Status)
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	items := make([]feed.Item, 0, len(result.Articles))
	for _, a := range result.Articles {
		// ordering is newest-first; anything at or past the cutoff ends
		// the scan
		if !a.PublishedAt.After(since) {
			break
		}
		text := a.Title
		if a.Description != "" {
			text += " - " + a.Description
		}
		items = append(items, feed.Item{
			ID:        a.URL,
			Timestamp: a.PublishedAt,
			Text:      text,
			Source:    channel,
		})
	}
	return items, nil
}

// Resolve checks the channel has at least some coverage and returns a
// display title.
func (r *Reader) Resolve(ctx context.Context, channel string) (feed.Info, error) {
	items, err := r.Fetch(ctx, channel, time.Now().Add(-7*24*time.Hour))
	if err != nil {
		return feed.Info{}, err
	}
	if len(items) == 0 {
		return feed.Info{}, fmt.Errorf("%w: %s", feed.ErrNotFound, channel)
	}
	title := strings.ReplaceAll(channel, "-", " ")
	return feed.Info{Title: title, CanonicalID: strings.ToLower(channel)}, nil
}
