package messages

// Bottle messages for the install, switch, update, eject and status flows.
const (
	BottleNoBottleInstalled     = "no bottle installed; run 'bottle install' first"
	BottleAlreadyEjected        = "bottle is already ejected"
	BottleInvalidModeTransition = "invalid mode transition"
	BottleCancelled             = "cancelled"
	BottleCompletedWithFailures = "completed with failures"
	BottleNameMismatch          = "manifest name does not match the requested bottle"

	BottleEjectedUseInstallFmt = "bottle '%s' is ejected; run 'bottle install %s' to return to managed mode"
	BottleOtherActiveFmt       = "bottle '%s' is currently installed; use 'bottle switch %s' to change bottles"
	BottleFailedItemsFmt       = "%d item(s) failed"
	BottleLoadStateFmt         = "failed to load state: %w"
	BottleSaveStateFmt         = "failed to save state: %w"
	BottleSaveSnippetFmt       = "failed to save AGENTS.md snippet: %w"
	BottleNameMismatchFmt      = "%w: bottle '%s' is declared as '%s'"

	BottleFetchingManifest = "Fetching bottle manifest..."
	BottleCheckingUpdates  = "Checking for updates..."

	BottleAlreadyInstalledFmt = "Bottle '%s' is already installed. Use 'bottle update' to refresh."
	BottleAlreadyOnFmt        = "Already on bottle '%s'. Use 'bottle update' to refresh."
	BottleUpToDateFmt         = "Bottle %s is already at the latest version (%s)"
	BottleCorruptedFreshFmt   = "Ignoring unreadable state (%v); performing a fresh install."
	BottleEjectedFresh        = "Previous bottle was ejected; performing a fresh install in managed mode."

	BottleVerbInstalling = "Installing"
	BottleVerbSwitching  = "Switching"
	BottleVerbUpdating   = "Updating"

	BottlePluginsHeader     = "Plugins:"
	BottleCustomToolsHeader = "Custom tools:"
	BottleMCPServersHeader  = "MCP servers:"
	BottleListItemFmt       = "  %-12s %s\n"
	BottlePluginItemFmt     = "  %s\n"
	BottleApplyingHeader    = "Applying:"

	BottleConfirmInstall = "Proceed with installation?"
	BottleConfirmSwitch  = "Proceed with switch?"
	BottleConfirmUpdate  = "Proceed with update?"
	BottleConfirmEject   = "Eject from bottle management?"

	BottleDryRun          = "Dry run: no changes made."
	BottleRetryHint       = "Re-run the same command to retry the failed items."
	BottleInstalledFmt    = "Bottle '%s' installed (%s)."
	BottleSwitchedFmt     = "Switched to bottle '%s' (%s)."
	BottleUpdatedFmt      = "Updated %s to %s."
	BottleNextStepsHeader = "Next steps:"
	BottleNextStepStatus  = "  bottle status      check installed tools"
	BottleNextStepIntegr  = "  bottle integrate   add agent platform integrations"

	BottleHistoryWarnFmt = "failed to record history: %v"

	BottleEjectHeader       = "Eject from Bottle Management"
	BottleEjectExplainFmt   = "Ejecting stops bottle '%s' from managing tool versions.\n"
	BottleEjectMeaning      = "What this means:"
	BottleEjectToolsRemain  = "All installed tools remain in place"
	BottleEjectMCPRemain    = "MCP servers stay registered"
	BottleEjectPluginRemain = "Plugins remain installed"
	BottleEjectNoUpdates    = "'bottle update' and 'bottle switch' are disabled until you reinstall"
	BottleEjectedFmt        = "Ejected from bottle '%s'. Tools are now managed manually."
	BottleEjectReturnFmt    = "Run 'bottle install %s' to return to managed mode."
)

// Status messages.
const (
	StatusNoBottle         = "No bottle installed."
	StatusInstallHint      = "Install a bottle with: bottle install stable"
	StatusAvailableHeader  = "Available bottles:"
	StatusModeEjected      = "Mode: ejected (managing tools manually)"
	StatusToolsHeader      = "Tools:"
	StatusToolLineFmt      = "  %-12s %-10s %s\n"
	StatusInstalled        = "installed"
	StatusMissing          = "missing"
	StatusNone             = "  (none)"
	StatusIntegrationsHdr  = "Integrations:"
	StatusIntegrationFmt   = "  %-12s %s\n"
	StatusMCPServerFmt     = "  %-12s %s\n"
	StatusFetchLatestFmt   = "Could not fetch latest manifest for '%s'"
	StatusUpToDate         = "Up to date."
	StatusUpdateAvailFmt   = "Update available: %s (%s -> %s)"
	StatusRunUpdate        = "Run 'bottle update' to apply."
	StatusCorruptedHintFmt = "%w; run 'bottle doctor' for details or 'bottle install' to start fresh"
)

// Integrate command messages.
const (
	IntegrateListHeader        = "Platform Integrations:"
	IntegrateListLineFmt       = "  %-12s %-10s %s\n"
	IntegrateStatusInstalled   = "installed"
	IntegrateStatusAvailable   = "available"
	IntegrateStatusNotFound    = "not found"
	IntegrateCommandsHeader    = "Commands:"
	IntegrateCommandAdd        = "  bottle integrate <platform>            add an integration"
	IntegrateCommandRemove     = "  bottle integrate --remove <platform>   remove an integration"
	IntegratePlatformRequired  = "platform required: use 'bottle integrate claude_code', 'opencode' or 'codex' (see 'bottle integrate --list')"
	IntegrateAlreadyFmt        = "%s integration is already installed."
	IntegrateIncompleteFmt     = "%s integration incomplete, installing missing components..."
	IntegrateNotDetectedFmt    = "%s not detected (%s not found). Installing anyway."
	IntegrateNotInstalledFmt   = "%s integration is not installed."
	IntegrateDryRunHeader      = "[DRY RUN]"
	IntegrateDryRunInstallFmt  = "Would install %s integration:\n"
	IntegrateDryRunRemoveFmt   = "Would remove %s integration:\n"
	IntegrateDryRunDetectedFmt = "  Platform:  detected (%s)\n"
	IntegrateDryRunMissingFmt  = "  Platform:  not detected (%s not found)\n"
	IntegrateDryRunActionFmt   = "  Action:    %s\n"
	IntegrateDryRunStateFmt    = "  State:     record %s for bottle %s\n"
	IntegrateInstalledFmt      = "%s integration installed."
	IntegrateRemovedFmt        = "%s integration removed."
	IntegrateFailedFmt         = "failed to integrate %s: %w"
	IntegrateRemoveFailedFmt   = "failed to remove %s integration: %w"
	IntegrateOpencodePinsFmt   = "Could not load the manifest for '%s' (%v); adding OpenCode plugins unpinned."
)

// List, create, validate, diff, agents-md and history messages.
const (
	ListCuratedHeader   = "Curated bottles:"
	ListBespokeHeader   = "Bespoke bottles (local):"
	ListLineFmt         = "  %s %-12s %s\n"
	ListNoneAvailable   = "  (none available)"
	ListNone            = "  (none)"
	ListUnavailableDesc = "(unable to fetch description)"
	ListInvalidManifest = "(invalid manifest)"
	ListActiveMarker    = "*"
	ListInactiveMarker  = " "

	CreateInvalidNameFmt   = "invalid bottle name %q: use letters, digits, '-' and '_'"
	CreateExistsFmt        = "bespoke bottle '%s' already exists at %s"
	CreateSourceMissingFmt = "source bottle '%s' not found: %w"
	CreateBasedOnFmt       = "Custom bottle based on %s"
	CreateDefaultDesc      = "My custom tool versions"
	CreateMkdirFmt         = "failed to create %s: %w"
	CreateMarshalFmt       = "failed to encode manifest: %w"
	CreateWriteFmt         = "failed to write %s: %w"
	CreatedFmt             = "Created bespoke bottle: %s"
	CreateLocationFmt      = "Location: %s\n"
	CreateEditHint         = "Edit the manifest, then run 'bottle install <name>'."
	CreateEditorFailedFmt  = "editor exited with an error: %v"

	ValidateHeaderFmt       = "Validating %s...\n"
	ValidateReadFmt         = "failed to read %s: %w"
	ValidateErrorLineFmt    = "  %s %s\n"
	ValidateWarnLineFmt     = "  %s %s\n"
	ValidateOKSchema        = "Schema valid"
	ValidateOKTools         = "All tools have definitions"
	ValidateOKVersions      = "Version formats valid"
	ValidateOKDuplicates    = "No duplicates"
	ValidateOKToolsSkipped  = "Tool definitions not checked (no tools/ directory next to the manifest)"
	ValidateValidFmt        = "%s is valid."
	ValidateValidWarningFmt = "%s is valid (with warnings)."
	ValidateFailedFmt       = "%d error(s) found in %s"

	DiffHeaderFmt = "%s %s (%s) -> %s (%s)\n"
	DiffVerb      = "Diff"
	DiffSameTools = "Tool lists are identical."

	AgentsMDNoSnippetFmt = "Bottle '%s' has no AGENTS.md snippet."
	AgentsMDLoadFmt      = "failed to load AGENTS.md snippet: %w"

	HistoryDisabled      = "History is disabled (history.enabled = false in config.toml)."
	HistoryEmpty         = "No runs recorded yet."
	HistoryLineFmt       = "%s  %-8s %-12s %s  %d item(s)"
	HistoryFailedFmt     = ", %d failed"
	HistoryVersionFmt    = "%s -> %s"
	HistoryListFailedFmt = "failed to read history: %w"

	ProviderPlanNoBottle = "no bottle given and none installed"
)
