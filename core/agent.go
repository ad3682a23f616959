package core

import "context"

// Agent defines the interface every runnable agent implements.
//
// An agent receives a natural-language task and produces a final answer or an
// error. Implementations must respect context cancellation at every blocking
// point (model calls, tool invocations, delegated runs). Name and Description
// advertise the agent when it is registered as a worker behind a supervisor.
type Agent interface {
	Name() string
	Description() string
	Run(ctx context.Context, task string) (string, error)
}

// AgentDescriptor advertises a routable worker in supervisor prompts.
type AgentDescriptor struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Describe returns the descriptor of an agent.
func Describe(a Agent) AgentDescriptor {
	return AgentDescriptor{Name: a.Name(), Description: a.Description()}
}
