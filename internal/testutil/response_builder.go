package testutil

import (
	"encoding/json"

	"github.com/hupe1980/agentloop/core"
)

// ResponseBuilder provides a fluent helper for constructing model responses
// in the action schema.
// Example:
//
//	raw := testutil.NewResponse().Thought("add").Tool("Calculator").Args("3 + 5").JSON()
//
// Chain only the parts you need.
type ResponseBuilder struct {
	decision core.Decision
}

// NewResponse creates an empty builder.
func NewResponse() *ResponseBuilder { return &ResponseBuilder{} }

// Thought sets the thought (chainable).
func (b *ResponseBuilder) Thought(t string) *ResponseBuilder { b.decision.Thought = t; return b }

// Tool sets the action's tool (chainable).
func (b *ResponseBuilder) Tool(name string) *ResponseBuilder { b.decision.Action.Tool = name; return b }

// Args sets the action's args (chainable).
func (b *ResponseBuilder) Args(args string) *ResponseBuilder { b.decision.Action.Args = args; return b }

// Finish sets a Finish action carrying answer (chainable).
func (b *ResponseBuilder) Finish(answer string) *ResponseBuilder {
	b.decision.Action = core.Action{Tool: core.FinishTool, Args: answer}
	return b
}

// JSON renders the response as the model would emit it.
func (b *ResponseBuilder) JSON() string {
	data, err := json.Marshal(b.decision)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Routing renders a routing response.
func Routing(worker, task string) string {
	data, err := json.Marshal(core.RoutingDecision{Worker: worker, Task: task})
	if err != nil {
		panic(err)
	}
	return string(data)
}
