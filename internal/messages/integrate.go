package messages

// Integrate messages for platform integrations.
const (
	IntegrateUnknownPlatform    = "unknown platform"
	IntegrateUnknownPlatformFmt = "%q (use claude_code, opencode, or codex)"

	IntegrateClaudeCodeName = "Claude Code"
	IntegrateOpenCodeName   = "OpenCode"
	IntegrateCodexName      = "Codex"

	IntegrateClaudeCodeInstallAction = "Install the bottle plugin with `claude plugin install`"
	IntegrateOpenCodeInstallAction   = "Add bottle ecosystem plugins to opencode.json (bottle, ba, wm, superego)"
	IntegrateCodexInstallAction      = "Create ~/.codex/skills/{bottle,ba,wm,sg}/SKILL.md"
	IntegrateClaudeCodeRemoveAction  = "Uninstall the bottle plugin with `claude plugin uninstall`"
	IntegrateOpenCodeRemoveAction    = "Remove bottle ecosystem plugins from opencode.json"
	IntegrateCodexRemoveAction       = "Remove ~/.codex/skills/{bottle,ba,wm,sg}/"

	IntegrateClaudeCodeNextStep = "The /bottle: plugin commands are now available."
	IntegrateOpenCodeNextStep   = "Restart OpenCode to load the bottle ecosystem plugins."
	IntegrateCodexNextStep      = "Use $bottle in Codex."

	IntegrateReadConfigFmt      = "failed to read %s: %w"
	IntegrateParseConfigFmt     = "failed to parse %s: %w"
	IntegrateConfigNotObjectFmt = "%s is not a JSON object"
	IntegratePluginNotArrayFmt  = "%s: plugin field is not an array"
	IntegrateEncodeConfigFmt    = "failed to encode %s: %w"
	IntegrateWriteConfigFmt     = "failed to write %s: %w"
	IntegrateCreateDirFmt       = "failed to create %s: %w"
	IntegrateRemoveDirFmt       = "failed to remove %s: %w"
	IntegrateReadSkillFmt       = "failed to read bundled skill %s: %w"
	IntegrateInvalidSkillFmt    = "bundled skill %s is invalid: %s"
	IntegrateWriteSkillFmt      = "failed to write %s: %w"

	IntegrateCodexConfigInvalidFmt  = "%s is not valid TOML (%v); Codex may not load skills"
	IntegrateCodexSkillsDisabledFmt = "skills are disabled in %s (features.skills = false); enable them to use the bottle skills"
)
