package openai_provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCompleteRoundTrip(t *testing.T) {
	var got request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "hi there"}}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/v1", "key", "test-model", "system prompt", 256, time.Second)
	out, err := c.Complete(context.Background(), "hello", 0.2)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "hi there" {
		t.Fatalf("got %q", out)
	}
	if got.Model != "test-model" || got.Temperature != 0.2 {
		t.Fatalf("request fields: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "hello" {
		t.Fatalf("messages: %+v", got.Messages)
	}
}

func TestChatCarriesHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 4 {
			t.Errorf("expected system+2 history+user, got %d messages", len(req.Messages))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "m", "s", 0, time.Second)
	history := []Message{{Role: "user", Content: "a"}, {Role: "assistant", Content: "b"}}
	if _, err := c.Chat(context.Background(), history, "c", 0.4); err != nil {
		t.Fatalf("Chat: %v", err)
	}
}

func TestRejectedRequestIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "m", "s", 0, time.Second)
	_, err := c.Complete(context.Background(), "x", 0.2)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Fatalf("status: %d", apiErr.Status)
	}
	if errors.Is(err, ErrUnreachable) {
		t.Fatal("rejection must not look like unreachable")
	}
}

func TestUnreachableEndpoint(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", "m", "s", 0, 200*time.Millisecond)
	_, err := c.Complete(context.Background(), "x", 0.2)
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}
