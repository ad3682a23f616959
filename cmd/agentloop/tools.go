package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentloop/tool"
	"github.com/hupe1980/agentloop/tool/builtin"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the builtin tool catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := tool.NewRegistry(builtin.Default()...)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), catalog.Catalog())

			return nil
		},
	}
}
