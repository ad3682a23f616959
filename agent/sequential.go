package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentloop/core"
)

// SequentialAgent pipes a task through child agents in order.
//
// The first child receives the task; every following child receives the
// previous child's result. The last result is returned. Execution stops at
// the first error.
type SequentialAgent struct {
	BaseAgent              // Embedded base agent functionality
	children  []core.Agent // Child agents to execute in sequence
}

// NewSequentialAgent creates a new sequential pipeline.
func NewSequentialAgent(name string, children ...core.Agent) *SequentialAgent {
	return &SequentialAgent{
		BaseAgent: NewBaseAgent(name),
		children:  children,
	}
}

// Children returns the pipeline stages in order.
func (s *SequentialAgent) Children() []core.Agent {
	return append([]core.Agent(nil), s.children...)
}

// Run implements core.Agent.
func (s *SequentialAgent) Run(ctx context.Context, task string) (string, error) {
	input := task

	for i, child := range s.children {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		s.logger.Debug("sequential.stage", "agent", s.Name(), "stage", i+1, "child", child.Name())

		out, err := child.Run(ctx, input)
		if err != nil {
			s.fail(ctx, err)
			return "", fmt.Errorf("sequential execution failed at agent %s: %w", child.Name(), err)
		}

		input = out
	}

	return input, nil
}
