package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/bottle/internal/bottle"
	"github.com/conn-castle/bottle/internal/mcp"
	"github.com/conn-castle/bottle/internal/messages"
)

var runStatusServer = mcp.RunStatusServer

func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.MCPServeUse,
		Short: messages.MCPServeShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(env *environment) error {
				return runStatusServer(cmd.Context(), Version, bottle.Provider{App: env.App})
			})
		},
	}
}
