package tool

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentloop/core"
)

// Registry is an immutable mapping from tool name to tool.
//
// It is constructed once before any run and passed explicitly to the agents
// that use it. Reads need no locking. Iteration follows registration order,
// which is also the order tools are advertised to the model.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds a registry from the given tools. Empty names, duplicate
// names and the reserved Finish name are rejected.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]Tool, len(tools)),
		order: make([]string, 0, len(tools)),
	}

	for _, t := range tools {
		if t == nil {
			return nil, fmt.Errorf("tool registry: nil tool")
		}

		name := t.Name()
		switch {
		case name == "":
			return nil, fmt.Errorf("tool registry: tool with empty name")
		case name == core.FinishTool:
			return nil, fmt.Errorf("tool registry: %q is reserved", core.FinishTool)
		}

		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("tool registry: %w: %s", core.ErrDuplicateName, name)
		}

		r.tools[name] = t
		r.order = append(r.order, name)
	}

	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. Intended for
// package-level setup and tests.
func MustRegistry(tools ...Tool) *Registry {
	r, err := NewRegistry(tools...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup resolves a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Tools returns the tools in registration order.
func (r *Registry) Tools() []Tool {
	if r == nil {
		return nil
	}
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Subset returns a new registry restricted to the named tools, in the order
// given. Unknown names fail with a *core.ToolNotFoundError.
func (r *Registry) Subset(names ...string) (*Registry, error) {
	tools := make([]Tool, 0, len(names))
	for _, name := range names {
		t, ok := r.Lookup(name)
		if !ok {
			return nil, &core.ToolNotFoundError{Tool: name}
		}
		tools = append(tools, t)
	}
	return NewRegistry(tools...)
}

// Catalog renders one "- name: description" line per tool.
func (r *Registry) Catalog() string {
	var sb strings.Builder
	for i, t := range r.Tools() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(t.Name())
		if d := t.Description(); d != "" {
			sb.WriteString(": ")
			sb.WriteString(d)
		}
	}
	return sb.String()
}
