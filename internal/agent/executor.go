package agent

import (
	"context"
	"fmt"
	"log"
)

// Executor resolves a tool name against the registry and runs it. It sits
// inline in the conversational response path, so it never propagates a
// failure upward: every outcome is normalised to a user-legible string.
type Executor struct {
	registry *Registry
	logger   *log.Logger
}

func NewExecutor(registry *Registry, logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.New(log.Writer(), "[TOOLS] ", log.LstdFlags)
	}
	return &Executor{registry: registry, logger: logger}
}

// Execute runs the named tool with the given parameters. Unknown tools and
// handler faults come back as diagnostic strings, not errors.
func (e *Executor) Execute(ctx context.Context, name string, params map[string]string) string {
	handler, ok := e.registry.Resolve(name)
	if !ok {
		toolExecutions.WithLabelValues(name, "unknown").Inc()
		return fmt.Sprintf("error: tool %q is not registered", name)
	}
	result, err := handler(ctx, params)
	if err != nil {
		toolExecutions.WithLabelValues(name, "error").Inc()
		e.logger.Printf("tool %s failed: %v", name, err)
		return fmt.Sprintf("execution of %s failed: %v", name, err)
	}
	toolExecutions.WithLabelValues(name, "ok").Inc()
	return result
}
