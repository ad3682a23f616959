package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
)

// BaseAgent bundles identity and logging shared by concrete agents. Embed it
// and supply a Run method to satisfy core.Agent.
type BaseAgent struct {
	name        string         // Human-readable name
	description string         // Capability description advertised to supervisors
	logger      logging.Logger // Never nil
}

// NewBaseAgent constructs a BaseAgent with generated description (customizable via SetDescription).
func NewBaseAgent(name string) BaseAgent {
	return BaseAgent{
		name:        name,
		description: fmt.Sprintf("Agent %s", name),
		logger:      logging.NoOpLogger{},
	}
}

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a description of this agent's capabilities.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description. Call it before the agent
// is registered in a core.Directory.
func (b *BaseAgent) SetDescription(desc string) {
	if desc != "" {
		b.description = desc
	}
}

// SetLogger replaces the agent's logger. Nil installs a NoOpLogger.
func (b *BaseAgent) SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.NoOpLogger{}
	}
	b.logger = l
}

// Logger returns the agent's logger.
func (b *BaseAgent) Logger() logging.Logger { return b.logger }

// fail reports a terminal error to the on_error callbacks. Callback errors
// are logged and otherwise ignored since the run is already failing.
func (b *BaseAgent) fail(ctx context.Context, err error) {
	if cbErr := core.Fire(ctx, core.CallbackOnError, &core.CallbackContext{Agent: b.name, Err: err}); cbErr != nil {
		b.logger.Warn("agent.on_error.callback_failed", "agent", b.name, "error", cbErr.Error())
	}
}
