package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/model"
)

// SequenceModel returns scripted responses in call order and records every
// prompt. Calls beyond the script fail with a transport error.
type SequenceModel struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
}

// NewSequenceModel creates a model that answers with responses in order.
func NewSequenceModel(responses ...string) *SequenceModel {
	return &SequenceModel{responses: responses}
}

// Call implements model.Model.
func (m *SequenceModel) Call(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := len(m.prompts)
	m.prompts = append(m.prompts, prompt)

	if i >= len(m.responses) {
		return "", &core.TransportError{Provider: "sequence", Err: fmt.Errorf("script exhausted after %d responses", len(m.responses))}
	}

	return m.responses[i], nil
}

// Info implements model.Model.
func (m *SequenceModel) Info() model.Info {
	return model.Info{Name: "sequence", Provider: "sequence"}
}

// Prompts returns the recorded prompts.
func (m *SequenceModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.prompts...)
}

// Calls returns the number of calls received.
func (m *SequenceModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.prompts)
}
