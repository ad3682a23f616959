package main

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/agentloop"
	"github.com/hupe1980/agentloop/agent"
	"github.com/hupe1980/agentloop/config"
	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/model"
	"github.com/hupe1980/agentloop/model/anthropic"
	"github.com/hupe1980/agentloop/model/openai"
	"github.com/hupe1980/agentloop/team"
	"github.com/hupe1980/agentloop/tool"
)

const defaultWorkerDescription = "General purpose worker that solves tasks with the builtin tools."

// newModel builds the configured backend, instrumented with spans and logs.
func newModel(ctx context.Context, cfg config.LLMConfig, logger logging.Logger) (model.Model, error) {
	var m model.Model

	switch strings.ToLower(cfg.Provider) {
	case "mock":
		m = model.Demo()
	case "openai":
		m = openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxCompletionTokens = int64(cfg.MaxTokens)
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		})
	case "anthropic", "bedrock":
		am, err := anthropic.NewModel(ctx, func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = sdk.Model(cfg.Model)
			}
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxTokens = int64(cfg.MaxTokens)
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			o.UseBedrock = strings.EqualFold(cfg.Provider, "bedrock")
			o.AWSRegion = cfg.AWSRegion
			o.AWSProfile = cfg.AWSProfile
		})
		if err != nil {
			return nil, err
		}
		m = am
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}

	return model.Instrument(m, logger), nil
}

// newOrchestrator wires workers, planner and supervisor for the configured mode.
func newOrchestrator(cfg *config.Config, m model.Model, catalog *tool.Registry, logger logging.Logger) (*agentloop.Orchestrator, error) {
	mode, err := agentloop.ParseMode(cfg.Agent.Mode)
	if err != nil {
		return nil, err
	}

	policy, err := agent.ParseToolErrorPolicy(cfg.Agent.ToolErrors)
	if err != nil {
		return nil, err
	}

	def := &team.Definition{
		Workers: []team.WorkerDef{{
			Name:        model.DemoWorker,
			Description: defaultWorkerDescription,
			Tools:       catalog.Names(),
		}},
	}

	if cfg.Team.Path != "" {
		if def, err = team.Load(cfg.Team.Path); err != nil {
			return nil, err
		}
	}

	workers, err := team.Build(def, m, catalog, func(o *team.BuildOptions) {
		o.MaxIterations = cfg.Agent.MaxIterations
		o.ToolErrorPolicy = policy
		o.ToolTimeout = cfg.Agent.ToolTimeout
		o.Logger = logger
	})
	if err != nil {
		return nil, err
	}

	withLogger := func(o *agentloop.Options) { o.Logger = logger }

	switch mode {
	case agentloop.ModeDelegate:
		return agentloop.NewDelegate(team.NewSupervisor(def, m, workers, logger), withLogger), nil
	case agentloop.ModeReAct:
		return agentloop.NewReAct(firstWorker(workers), withLogger), nil
	default:
		planner := agent.NewPlanner("planner", m, func(o *agent.PlannerOptions) { o.Logger = logger })

		// A team executes each step through its supervisor.
		var executor core.Agent = firstWorker(workers)
		if workers.Len() > 1 {
			executor = team.NewSupervisor(def, m, workers, logger)
		}

		return agentloop.NewPlanExecute(planner, executor, withLogger), nil
	}
}

func firstWorker(workers *core.Directory) core.Agent {
	w, _ := workers.Lookup(workers.Names()[0])
	return w
}
