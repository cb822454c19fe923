package messages

// Skill validation messages.
const (
	SkillReadFmt                    = "read skill %s: %w"
	SkillEmptyFmt                   = "skill %s is empty"
	SkillMissingFrontMatterFmt      = "skill %s is missing YAML frontmatter"
	SkillUnterminatedFrontMatterFmt = "skill %s has unterminated YAML frontmatter"
	SkillParseFrontMatterFmt        = "parse frontmatter for %s: %w"
	SkillFrontMatterNotMapping      = "frontmatter must be a YAML mapping"
	SkillFieldNotStringFmt          = "frontmatter field %q must be a string scalar"
	SkillMetadataNotMapping         = "frontmatter field \"metadata\" must be a mapping of strings"

	SkillNotInstalled          = "skill is not installed"
	SkillUnknownFieldFmt       = "unknown frontmatter field %q"
	SkillNameMissing           = "missing required frontmatter field \"name\""
	SkillNameTooLongFmt        = "frontmatter field \"name\" exceeds %d characters (%d)"
	SkillNameInvalid           = "frontmatter field \"name\" must contain only lowercase letters, digits, and single hyphens"
	SkillNameMismatchFmt       = "frontmatter field \"name\" (%q) must match directory %q"
	SkillDescriptionMissing    = "missing required frontmatter field \"description\""
	SkillDescriptionTooLongFmt = "frontmatter field \"description\" exceeds %d characters (%d)"
	SkillTooLongFmt            = "SKILL.md is %d lines; keep skill instructions under %d lines"
)
