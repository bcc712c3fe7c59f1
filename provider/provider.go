package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohsen-qasemi/herald/config"
	openai_provider "github.com/mohsen-qasemi/herald/provider/openai"
)

// ErrUnreachable marks transport-level failures: the oracle endpoint could
// not be reached at all (connection refused, timeout). Callers that must
// tell "provider down" apart from "provider rejected the request" test for
// it with errors.Is.
var ErrUnreachable = openai_provider.ErrUnreachable

// Message is one turn of a conversation sent to the oracle.
type Message = openai_provider.Message

// Provider is the language-model oracle. It is fallible and, unless called
// with a low temperature, non-deterministic.
type Provider interface {
	// Complete sends a single prompt with no conversation history.
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
	// Chat sends the prompt preceded by prior turns.
	Chat(ctx context.Context, history []Message, prompt string, temperature float64) (string, error)
}

// NewProvider builds an oracle client from configuration. Any
// OpenAI-compatible chat-completions endpoint works (OpenAI, LM Studio).
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("llm config: %w", err)
	}
	return openai_provider.NewClient(
		cfg.BaseURL,
		cfg.APIKey,
		cfg.Model,
		cfg.SystemPrompt,
		cfg.MaxTokens,
		cfg.Timeout,
	), nil
}

// IsUnreachable reports whether err stems from the oracle being down
// rather than rejecting the request.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}
