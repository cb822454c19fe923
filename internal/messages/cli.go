package messages

// CLI messages for command usage and flags.
const (
	// RootUse is the CLI command name.
	RootUse = "bottle"
	// RootShort is the short description for the root command.
	RootShort       = "Declarative version pinning for agent tooling"
	RootVersionFlag = "Print version and exit"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	FlagYes      = "Skip confirmation prompts"
	FlagDryRun   = "Show what would change without applying it"
	FlagStrict   = "Exit non-zero when any item fails"
	FlagManifest = "Install from a local manifest file instead of resolving a bottle name"

	InstallUse   = "install [bottle]"
	InstallShort = "Install a bottle (default: stable)"
	SwitchUse    = "switch <bottle>"
	SwitchShort  = "Switch the active bottle"
	UpdateUse    = "update"
	UpdateShort  = "Update the active bottle to its latest snapshot"
	EjectUse     = "eject"
	EjectShort   = "Stop bottle from managing tool versions"

	StatusUse              = "status"
	StatusShort            = "Show the active bottle and installed tools"
	StatusFlagCheckUpdates = "Compare against the latest manifest"

	IntegrateUse        = "integrate [platform]"
	IntegrateShort      = "Add or remove agent platform integrations"
	IntegrateFlagList   = "List platforms and their integration status"
	IntegrateFlagRemove = "Remove the integration instead of adding it"

	ListUse   = "list"
	ListShort = "List curated and bespoke bottles"

	CreateUse      = "create <name>"
	CreateShort    = "Create a bespoke bottle"
	CreateFlagFrom = "Copy tools and settings from an existing bottle"

	ValidateUse   = "validate <path>"
	ValidateShort = "Validate a bottle manifest"

	DiffUse           = "diff <from> <to>"
	DiffShort         = "Compare two bottles"
	DiffFlagDiffLines = "Maximum number of diff lines to show"

	AgentsMDUse   = "agents-md"
	AgentsMDShort = "Print the active bottle's AGENTS.md snippet"

	HistoryUse        = "history"
	HistoryShort      = "Show recent reconciliation runs"
	HistoryFlagLimit  = "Number of runs to show"
	HistoryUnavailFmt = "history unavailable: %v"

	DoctorUse   = "doctor"
	DoctorShort = "Check the bottle installation for problems"

	MCPServeUse   = "mcp-serve"
	MCPServeShort = "Serve bottle status over MCP (stdio)"

	CLIWorkingDirFmt = "failed to resolve working directory: %w"
)
