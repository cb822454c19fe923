package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/bottle/internal/bottle"
	"github.com/conn-castle/bottle/internal/messages"
)

func newStatusCmd() *cobra.Command {
	var checkUpdates bool
	cmd := &cobra.Command{
		Use:   messages.StatusUse,
		Short: messages.StatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(env *environment) error {
				return env.App.Status(cmd.Context(), checkUpdates)
			})
		},
	}
	cmd.Flags().BoolVar(&checkUpdates, "check-updates", false, messages.StatusFlagCheckUpdates)
	return cmd
}

func newIntegrateCmd() *cobra.Command {
	var opts bottle.IntegrateOptions
	cmd := &cobra.Command{
		Use:   messages.IntegrateUse,
		Short: messages.IntegrateShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Platform = args[0]
			}
			return withApp(cmd, func(env *environment) error {
				return env.App.Integrate(cmd.Context(), opts)
			})
		},
	}
	cmd.Flags().BoolVar(&opts.List, "list", false, messages.IntegrateFlagList)
	cmd.Flags().BoolVar(&opts.Remove, "remove", false, messages.IntegrateFlagRemove)
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, messages.FlagDryRun)
	return cmd
}

func newAgentsMDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.AgentsMDUse,
		Short: messages.AgentsMDShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(env *environment) error {
				return env.App.AgentsMD()
			})
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   messages.HistoryUse,
		Short: messages.HistoryShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(env *environment) error {
				return env.App.History(cmd.Context(), limit)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, messages.HistoryFlagLimit)
	return cmd
}
