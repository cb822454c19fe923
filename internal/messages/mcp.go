package messages

// MCP server and probe messages.
const (
	McpRunServerFailedFmt = "failed to run MCP status server: %w"
	McpRunnerNil          = "status server runner is nil"
	McpProviderNil        = "status provider is nil"

	McpStatusToolDescription = "Report the active bottle, its mode and every installed tool, custom tool, MCP server and integration."
	McpPlanToolDescription   = "Show the changes that updating to, or switching to, a bottle would make without applying them."

	McpProbeCommandRequired    = "command is required"
	McpProbeConnectFailedFmt   = "connect failed: %w"
	McpProbeListToolsFailedFmt = "list tools failed: %w"
)
