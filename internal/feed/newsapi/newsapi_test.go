package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mohsen-qasemi/herald/internal/feed"
)

func feedServer(t *testing.T, articles []map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") == "" {
			t.Errorf("missing apiKey")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       "ok",
			"totalResults": len(articles),
			"articles":     articles,
		})
	}))
}

func TestFetchStopsAtCutoff(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	srv := feedServer(t, []map[string]any{
		{"title": "fresh", "publishedAt": now.Format(time.RFC3339), "url": "u1"},
		{"title": "also fresh", "publishedAt": now.Add(-time.Hour).Format(time.RFC3339), "url": "u2"},
		{"title": "stale", "publishedAt": now.Add(-48 * time.Hour).Format(time.RFC3339), "url": "u3"},
		{"title": "unreachable after stale", "publishedAt": now.Format(time.RFC3339), "url": "u4"},
	})
	defer srv.Close()

	r := New("key", srv.URL)
	items, err := r.Fetch(context.Background(), "tech", now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected early termination at the stale item, got %d items", len(items))
	}
	if items[0].Text != "fresh" || items[0].Source != "tech" {
		t.Fatalf("first item: %+v", items[0])
	}
}

func TestResolveUnknownChannel(t *testing.T) {
	srv := feedServer(t, nil)
	defer srv.Close()

	r := New("key", srv.URL)
	_, err := r.Resolve(context.Background(), "nosuchchannel")
	if !errors.Is(err, feed.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := New("key", srv.URL)
	if _, err := r.Fetch(context.Background(), "tech", time.Now()); err == nil {
		t.Fatal("expected error")
	}
}
