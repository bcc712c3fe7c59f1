package agent

import (
	"context"
	"fmt"
)

// Param describes one named tool parameter.
type Param struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Descriptor declares an invocable tool: its dispatch name, the
// description shown verbatim to the routing oracle, and its parameters
// in declaration order.
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"parameters"`
}

// Handler runs a tool. Missing optional parameters are simply absent from
// args; handlers supply their own defaults. Values are plain strings, no
// coercion happens above this signature.
type Handler func(ctx context.Context, args map[string]string) (string, error)

// ErrDuplicateTool is returned when a tool name is registered twice.
// Registration happens once during composition, so a duplicate is a
// configuration fault and should abort startup.
var ErrDuplicateTool = fmt.Errorf("duplicate tool registration")

type registered struct {
	desc    Descriptor
	handler Handler
}

// Registry holds the tool set. It is populated during composition and
// read-only afterwards; no locking is needed at call time.
type Registry struct {
	order []string
	tools map[string]registered
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]registered)}
}

// Register adds a tool. The name is the sole dispatch key; registering it
// twice fails with ErrDuplicateTool.
func (r *Registry) Register(desc Descriptor, handler Handler) error {
	if desc.Name == "" {
		return fmt.Errorf("tool descriptor needs a name")
	}
	if handler == nil {
		return fmt.Errorf("tool %q registered without a handler", desc.Name)
	}
	if _, ok := r.tools[desc.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, desc.Name)
	}
	r.tools[desc.Name] = registered{desc: desc, handler: handler}
	r.order = append(r.order, desc.Name)
	return nil
}

// List returns descriptors in registration order, for prompt rendering.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].desc)
	}
	return out
}

// Resolve returns the handler for name, or false when unregistered.
func (r *Registry) Resolve(name string) (Handler, bool) {
	t, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return t.handler, true
}
