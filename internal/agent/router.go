package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mohsen-qasemi/herald/provider"
)

const (
	// near-deterministic for the routing decision, warmer for the
	// user-facing paraphrase
	routeTemperature      = 0.2
	paraphraseTemperature = 0.4
)

// decision is the envelope the oracle is instructed to emit. Reasoning is
// diagnostic only and never shown to the end user.
type decision struct {
	Tool       string            `json:"tool"`
	Parameters map[string]string `json:"parameters"`
	Reasoning  string            `json:"reasoning"`
}

// Router classifies a free-text request into a tool invocation and runs
// it. The fallback contract: malformed or ambiguous oracle output, and any
// oracle fault, degrade to ("", "") so the caller falls through to plain
// conversational handling. Routing never surfaces an error.
type Router struct {
	registry *Registry
	executor *Executor
	oracle   provider.Provider
	logger   *log.Logger
}

func NewRouter(registry *Registry, executor *Executor, oracle provider.Provider, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.New(log.Writer(), "[ROUTER] ", log.LstdFlags)
	}
	return &Router{registry: registry, executor: executor, oracle: oracle, logger: logger}
}

// Route returns (toolResult, reply). Both empty means no tool was used and
// the caller should handle the message as ordinary conversation.
func (r *Router) Route(ctx context.Context, userMessage string) (string, string) {
	prompt := fmt.Sprintf(intentPromptTemplate, renderCatalogue(r.registry.List()), userMessage)

	raw, err := r.oracle.Complete(ctx, prompt, routeTemperature)
	if err != nil {
		r.logger.Printf("intent call failed: %v", err)
		return "", ""
	}

	span, ok := ExtractJSONObject(raw)
	if !ok {
		return "", ""
	}

	var d decision
	if err := json.Unmarshal([]byte(span), &d); err != nil {
		r.logger.Printf("unparsable decision: %v", err)
		return "", ""
	}
	if d.Tool == "" || d.Tool == "none" {
		return "", ""
	}
	r.logger.Printf("intent: %s params=%v (%s)", d.Tool, d.Parameters, d.Reasoning)

	result := r.executor.Execute(ctx, d.Tool, d.Parameters)

	reply, err := r.oracle.Complete(ctx,
		fmt.Sprintf(paraphrasePromptTemplate, userMessage, result),
		paraphraseTemperature)
	if err != nil {
		// the tool's side effects stand, but with no reply to phrase the
		// caller falls back to plain conversation
		r.logger.Printf("paraphrase call failed: %v", err)
		return "", ""
	}
	return result, reply
}
