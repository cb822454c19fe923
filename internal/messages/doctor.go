package messages

// Doctor messages.
const (
	DoctorHealthCheckFmt = "🏥 Checking bottle health in %s...\n"

	DoctorCheckNameConfig        = "Config"
	DoctorCheckNamePrerequisites = "Prereqs"
	DoctorCheckNameState         = "State"
	DoctorCheckNameTools         = "Tools"
	DoctorCheckNameMCP           = "MCP"
	DoctorCheckNameSkills        = "Skills"
	DoctorCheckNameUpdate        = "Update"

	DoctorConfigLoadFailedFmt        = "Failed to load configuration: %v"
	DoctorConfigLoadRecommend        = "Fix the syntax of config.toml or remove it to use defaults."
	DoctorConfigLoadLenientRecommend = "Remove or correct the reported keys in config.toml."
	DoctorConfigLoaded               = "Configuration loaded successfully"

	DoctorCommandFoundFmt        = "%s found on PATH"
	DoctorCommandMissingFmt      = "%s not found on PATH"
	DoctorCommandMissingRecFmt   = "Install %s to let bottle use it."
	DoctorPrereqMissingFmt       = "Missing prerequisite: %s"
	DoctorPrereqMissingRecommend = "Install the prerequisite, then rerun bottle install or bottle update."

	DoctorNoBottleInstalled          = "No bottle installed"
	DoctorNoBottleInstalledRecommend = "Run 'bottle install' to install the stable bottle."
	DoctorStateCorruptedFmt          = "State record is unreadable: %v"
	DoctorStateCorruptedRecommend    = "Run 'bottle install <bottle>' to rebuild the record; integrations are preserved."
	DoctorStateLoadFailedFmt         = "Failed to load state: %v"
	DoctorStateOKFmt                 = "Bottle %s (%s), %s"

	DoctorCheckNameManifest      = "Manifest"
	DoctorManifestFetchFailedFmt = "Could not load manifest for %s: %v"
	DoctorManifestRecommend      = "Check network access, or run 'bottle validate' on a bespoke manifest."

	DoctorToolPresentFmt         = "%s %s installed"
	DoctorToolMissingFmt         = "%s %s is recorded but not found"
	DoctorToolMissingRecommend   = "Run 'bottle update' to reinstall missing tools."
	DoctorToolDefinitionFmt      = "Could not resolve tool definition for %s: %v"
	DoctorToolEjected            = "Bottle is ejected; tools are managed manually"
	DoctorToolsNone              = "No tools recorded"
	DoctorCustomToolMissingFmt   = "custom tool %s %s is recorded but %s is not on PATH"
	DoctorCustomToolPresentFmt   = "custom tool %s %s installed"
	DoctorMCPNoServers           = "No bespoke MCP servers in the active bottle"
	DoctorMCPServerOKFmt         = "%s responded with %d tool(s)"
	DoctorMCPServerFailedFmt     = "%s failed: %v"
	DoctorMCPServerUnresolvedFmt = "%s references unset variables: %s"
	DoctorMCPServerRecommend     = "Check the server command, and set missing variables in the environment or ~/.bottle/.env."

	DoctorSkillsNotIntegrated  = "Codex integration not installed"
	DoctorSkillsValidatedFmt   = "%d Codex skill(s) validated"
	DoctorSkillsRecommend      = "Run 'bottle integrate codex' to rewrite the bundled skills."
	DoctorSkillsCheckFailedFmt = "Failed to validate Codex skills: %v"

	DoctorUpdateSkippedFmt          = "Update check skipped because %s is set"
	DoctorUpdateSkippedRecommendFmt = "Unset %s to check for updates."
	DoctorUpdateRateLimited         = "Update check skipped due to GitHub API rate limit (HTTP 403/429)"
	DoctorUpdateFailedFmt           = "Failed to check for updates: %v"
	DoctorUpdateFailedRecommend     = "Verify network access and try again."
	DoctorUpdateDevBuildFmt         = "Running dev build; latest release is %s"
	DoctorUpdateDevBuildRecommend   = "Install a release build to get update notices."
	DoctorUpdateAvailableFmt        = "bottle update available: %s (current %s)"
	DoctorUpdateAvailableRecFmt     = "Download the latest release from %s."
	DoctorUpToDateFmt               = "bottle is up to date (%s)"

	DoctorFailureSummary = "❌ Some checks failed. Please address the items above."
	DoctorFailureError   = "doctor checks failed"
	DoctorSuccessSummary = "✅ All systems go."

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-10s %s\n"
	DoctorRecommendationPrefix = "       💡 "
	DoctorRecommendationIndent = "         "
)
