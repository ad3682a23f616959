package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agentloop",
		Short: "Think-Act-Observe agents with planning and delegation",
		Long: `agentloop runs language-model agents that reason in a Think-Act-Observe
loop over a catalog of tools.

Orchestration modes (--mode):
  plan      A planner splits the task into steps; each step is executed in order.
  delegate  A supervisor routes the task to one worker of the team.
  react     A single worker reasons over the task directly.

Configuration is read from ~/.config/agentloop/config.yaml, ./agentloop.yaml
(or --config) and AGENTLOOP_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
