package team

import (
	"fmt"
	"time"

	"github.com/hupe1980/agentloop/agent"
	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/model"
	"github.com/hupe1980/agentloop/tool"
)

// BuildOptions holds team-wide defaults that worker definitions may override.
type BuildOptions struct {
	MaxIterations   int
	ToolErrorPolicy agent.ToolErrorPolicy
	ToolTimeout     time.Duration
	Logger          logging.Logger
}

// Build turns a definition into a worker directory. Every worker is a
// ReActAgent over m restricted to the catalog tools it lists; every pipeline
// is a SequentialAgent over those workers. Workers are registered in file
// order, followed by pipelines.
func Build(def *Definition, m model.Model, catalog *tool.Registry, optFns ...func(o *BuildOptions)) (*core.Directory, error) {
	opts := BuildOptions{
		MaxIterations: agent.DefaultMaxIterations,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	built := make(map[string]core.Agent, len(def.Workers))
	members := make([]core.Agent, 0, len(def.Workers)+len(def.Pipelines))

	for _, w := range def.Workers {
		worker, err := buildWorker(w, m, catalog, opts)
		if err != nil {
			return nil, fmt.Errorf("worker %s: %w", w.Name, err)
		}

		built[w.Name] = worker
		members = append(members, worker)
	}

	for _, p := range def.Pipelines {
		stages := make([]core.Agent, len(p.Stages))
		for i, name := range p.Stages {
			stages[i] = built[name]
		}

		pipeline := agent.NewSequentialAgent(p.Name, stages...)
		pipeline.SetDescription(p.Description)
		pipeline.SetLogger(opts.Logger)

		members = append(members, pipeline)
	}

	return core.NewDirectory(members...)
}

func buildWorker(w WorkerDef, m model.Model, catalog *tool.Registry, opts BuildOptions) (*agent.ReActAgent, error) {
	tools, err := catalog.Subset(w.Tools...)
	if err != nil {
		return nil, err
	}

	policy := opts.ToolErrorPolicy
	if w.ToolErrors != "" {
		if policy, err = agent.ParseToolErrorPolicy(w.ToolErrors); err != nil {
			return nil, err
		}
	}

	maxIterations := opts.MaxIterations
	if w.MaxIterations != nil {
		maxIterations = *w.MaxIterations
	}

	return agent.NewReActAgent(w.Name, m, tools, func(o *agent.ReActOptions) {
		o.Description = w.Description
		if w.Instruction != "" {
			o.Instruction = agent.NewInstructionFromText(w.Instruction)
		}
		o.MaxIterations = maxIterations
		o.ToolErrorPolicy = policy
		o.ToolTimeout = opts.ToolTimeout
		o.Logger = opts.Logger
	}), nil
}

// NewSupervisor builds the supervisor routing to workers, honoring the
// definition's supervisor section.
func NewSupervisor(def *Definition, m model.Model, workers *core.Directory, logger logging.Logger) *agent.Supervisor {
	name, description := "supervisor", ""
	if def.Supervisor != nil {
		if def.Supervisor.Name != "" {
			name = def.Supervisor.Name
		}
		description = def.Supervisor.Description
	}

	return agent.NewSupervisor(name, m, workers, func(o *agent.SupervisorOptions) {
		o.Description = description
		o.Logger = logger
	})
}
