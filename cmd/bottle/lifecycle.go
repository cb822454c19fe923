package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/bottle/internal/bottle"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/updatewarn"
)

// defaultBottle is installed when install is run without a name.
const defaultBottle = "stable"

var warnIfOutdated = updatewarn.WarnIfOutdated

func bindOptions(cmd *cobra.Command, opts *bottle.Options) {
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, messages.FlagYes)
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, messages.FlagDryRun)
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, messages.FlagStrict)
}

// withApp builds the environment for cmd, runs fn and releases it.
func withApp(cmd *cobra.Command, fn func(env *environment) error) error {
	env, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(env)
}

func newInstallCmd() *cobra.Command {
	var opts bottle.Options
	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := defaultBottle
			if len(args) == 1 {
				name = args[0]
			}
			return withApp(cmd, func(env *environment) error {
				return env.App.Install(cmd.Context(), name, opts)
			})
		},
	}
	bindOptions(cmd, &opts)
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", messages.FlagManifest)
	return cmd
}

func newSwitchCmd() *cobra.Command {
	var opts bottle.Options
	cmd := &cobra.Command{
		Use:   messages.SwitchUse,
		Short: messages.SwitchShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(env *environment) error {
				return env.App.Switch(cmd.Context(), args[0], opts)
			})
		},
	}
	bindOptions(cmd, &opts)
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var opts bottle.Options
	cmd := &cobra.Command{
		Use:   messages.UpdateUse,
		Short: messages.UpdateShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			warnIfOutdated(cmd.Context(), Version, cmd.ErrOrStderr())
			return withApp(cmd, func(env *environment) error {
				return env.App.Update(cmd.Context(), opts)
			})
		},
	}
	bindOptions(cmd, &opts)
	return cmd
}

func newEjectCmd() *cobra.Command {
	var opts bottle.Options
	cmd := &cobra.Command{
		Use:   messages.EjectUse,
		Short: messages.EjectShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(env *environment) error {
				return env.App.Eject(cmd.Context(), opts)
			})
		},
	}
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, messages.FlagYes)
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, messages.FlagDryRun)
	return cmd
}
