package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentloop/config"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/model"
	"github.com/hupe1980/agentloop/runner"
	"github.com/hupe1980/agentloop/tool"
	"github.com/hupe1980/agentloop/tool/builtin"
)

type runFlags struct {
	task              string
	mode              string
	mock              bool
	configPath        string
	teamPath          string
	maxIterations     int
	observeToolErrors bool
	toolTimeout       time.Duration
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Run a task through the configured agents",
		Long: `Run a task and print every Thought, Action and Observation followed by
the final answer.

Use --mock to run the scripted arithmetic demo without a model provider:
  agentloop run --mock`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				f.task = args[0]
			}
			return runTask(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.task, "task", "", "Task to run (defaults to the demo task with --mock)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Orchestration mode: plan, delegate or react")
	cmd.Flags().BoolVar(&f.mock, "mock", false, "Use the scripted demo model instead of a provider")
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to a project config file")
	cmd.Flags().StringVar(&f.teamPath, "team", "", "Path to a YAML team definition")
	cmd.Flags().IntVar(&f.maxIterations, "max-iterations", 0, "Maximum reasoning iterations per worker run (0 disables the limit)")
	cmd.Flags().BoolVar(&f.observeToolErrors, "observe-tool-errors", false, "Feed tool failures back to the model instead of aborting")
	cmd.Flags().DurationVar(&f.toolTimeout, "tool-timeout", 0, "Timeout for each tool call")

	return cmd
}

func runTask(cmd *cobra.Command, f runFlags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	applyFlags(cmd, cfg, f)

	if err := cfg.Validate(); err != nil {
		return err
	}

	task := f.task
	if task == "" {
		if !f.mock {
			return errors.New("a task is required (pass it as an argument or with --task)")
		}
		task = model.DemoTask
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.NewSlogLogger(level, cfg.Log.Format, cfg.Log.AddSource).WithComponent("agentloop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := newModel(ctx, cfg.LLM, logger)
	if err != nil {
		return err
	}

	catalog, err := tool.NewRegistry(builtin.Default()...)
	if err != nil {
		return err
	}

	orch, err := newOrchestrator(cfg, m, catalog, logger)
	if err != nil {
		return err
	}

	r := runner.New(orch, func(o *runner.Options) {
		o.MaxConcurrentRuns = cfg.Runner.MaxConcurrentRuns
		o.Logger = logger
	})

	return stream(ctx, r, task, newPrinter(cmd.OutOrStdout()))
}

// applyFlags overrides configuration with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f runFlags) {
	flags := cmd.Flags()

	if f.mock {
		cfg.LLM.Provider = "mock"
	}
	if flags.Changed("mode") {
		cfg.Agent.Mode = f.mode
	}
	if flags.Changed("team") {
		cfg.Team.Path = f.teamPath
	}
	if flags.Changed("max-iterations") {
		cfg.Agent.MaxIterations = f.maxIterations
	}
	if flags.Changed("observe-tool-errors") {
		cfg.Agent.ToolErrors = "abort"
		if f.observeToolErrors {
			cfg.Agent.ToolErrors = "observe"
		}
	}
	if flags.Changed("tool-timeout") {
		cfg.Agent.ToolTimeout = f.toolTimeout
	}
}

func stream(ctx context.Context, r *runner.Runner, task string, p *printer) error {
	_, events, errs, err := r.Run(ctx, task)
	if err != nil {
		return err
	}

	for ev := range events {
		p.print(ev)
	}

	return <-errs
}
