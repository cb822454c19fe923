package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/ui"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.ListUse,
		Short: messages.ListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(env *environment) error {
				return env.App.List(cmd.Context())
			})
		},
	}
}

func newCreateCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   messages.CreateUse,
		Short: messages.CreateShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(env *environment) error {
				_, err := env.App.Create(cmd.Context(), args[0], from)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", messages.CreateFlagFrom)
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.ValidateUse,
		Short: messages.ValidateShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(env *environment) error {
				return env.App.Validate(args[0])
			})
		},
	}
}

func newDiffCmd() *cobra.Command {
	var maxLines int
	cmd := &cobra.Command{
		Use:   messages.DiffUse,
		Short: messages.DiffShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(env *environment) error {
				return env.App.Diff(cmd.Context(), args[0], args[1], maxLines)
			})
		},
	}
	cmd.Flags().IntVar(&maxLines, "diff-lines", ui.DefaultDiffMaxLines, messages.DiffFlagDiffLines)
	return cmd
}
