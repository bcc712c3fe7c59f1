package serper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mohsen-qasemi/herald/tools/web_search/models"
	"github.com/mohsen-qasemi/herald/utils"
)

type Search struct {
	ApiKey string
}

// https://serper.dev/ docs
func (s Search) post(ctx context.Context, endpoint string, q string, k int) (map[string]any, error) {
	body, _ := json.Marshal(map[string]any{"q": q, "num": k})
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.ApiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper: %s", resp.Status)
	}
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s Search) Search(ctx context.Context, q string, k int) ([]models.Result, error) {
	raw, err := s.post(ctx, "https://google.serper.dev/search", q, k)
	if err != nil {
		return nil, err
	}
	var out []models.Result
	if items, ok := raw["organic"].([]any); ok {
		for i, it := range items {
			if i >= k {
				break
			}
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, models.Result{
				Title: utils.Str(m["title"]), URL: utils.Str(m["link"]), Snippet: utils.Str(m["snippet"]),
			})
		}
	}
	return out, nil
}

func (s Search) News(ctx context.Context, topic string, k int) ([]models.Result, error) {
	raw, err := s.post(ctx, "https://google.serper.dev/news", topic, k)
	if err != nil {
		return nil, err
	}
	var out []models.Result
	if items, ok := raw["news"].([]any); ok {
		for i, it := range items {
			if i >= k {
				break
			}
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, models.Result{
				Title: utils.Str(m["title"]), URL: utils.Str(m["link"]), Snippet: utils.Str(m["snippet"]),
				Source: utils.Str(m["source"]), Date: utils.Str(m["date"]),
			})
		}
	}
	return out, nil
}
