package messages

// UI messages for console rendering and prompts.
const (
	UIRequiresTerminal = "confirmation requires an interactive terminal; rerun with --yes"
	UIAborted          = "prompt aborted"

	UITransitionFmt     = "%s %s (%s)\n"
	UIPlanChangesHeader = "Changes:"
	UIPlanNoChanges     = "No tool changes needed."
	UIPlanAddFmt        = "  %s %-12s %s\n"
	UIPlanRemoveFmt     = "  %s %-12s\n"
	UIPlanMoveFmt       = "  %s %-12s %s -> %s\n"
	UIPlanUnchangedFmt  = "  %s %d tool(s) unchanged\n"

	UIOutcomeFmt        = "  %-12s %-10s %s\n"
	UIOutcomeFailed     = "failed"
	UIOutcomeInstalled  = "installed"
	UIOutcomeUpdated    = "updated"
	UIOutcomeRemoved    = "removed"
	UIOutcomeUntracked  = "kept installed"
	UIFailuresHeaderFmt = "%d item(s) failed:\n"
	UIFailureLineFmt    = "  - %s\n"

	UIDiffTruncatedFmt = "... (truncated to %d lines; rerun with --diff-lines <n> to see more)"
)
