package agent

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAgent for testing composite agents
type MockAgent struct {
	mock.Mock
	name        string
	description string
}

func NewMockAgent(name, description string) *MockAgent {
	return &MockAgent{name: name, description: description}
}

func (m *MockAgent) Name() string { return m.name }

func (m *MockAgent) Description() string { return m.description }

func (m *MockAgent) Run(ctx context.Context, task string) (string, error) {
	args := m.Called(ctx, task)
	return args.String(0), args.Error(1)
}
