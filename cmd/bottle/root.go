package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/bottle/internal/messages"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolP("version", "v", false, messages.RootVersionFlag)
	cmd.AddCommand(
		newInstallCmd(),
		newSwitchCmd(),
		newUpdateCmd(),
		newEjectCmd(),
		newStatusCmd(),
		newIntegrateCmd(),
		newListCmd(),
		newCreateCmd(),
		newValidateCmd(),
		newDiffCmd(),
		newAgentsMDCmd(),
		newHistoryCmd(),
		newDoctorCmd(),
		newMCPServeCmd(),
	)
	return cmd
}
