package messages

// Config messages for ~/.bottle/config.toml and ~/.bottle/.env.
const (
	ConfigResolveHomeFmt      = "failed to resolve home directory: %w"
	ConfigValidationFailed    = "config validation failed"
	ConfigReadFmt             = "failed to read config %s: %w"
	ConfigInvalidFmt          = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized config keys: %w"
	ConfigReadEnvFmt          = "failed to read env file %s: %w"
	ConfigInvalidEnvFmt       = "invalid env file %s: %w"

	ConfigInvalidBaseURLFmt       = "%s: manifest_base_url must be an http or https URL (got %q)"
	ConfigInvalidPreferFmt        = "%s: install.prefer contains unknown method %q (expected brew, cargo, npm or binary)"
	ConfigInvalidClaudeCommandFmt = "%s: claude_command must be a single executable name (got %q)"
)

// Envfile messages for .env parsing.
const (
	EnvfileLineErrorFmt            = "line %d: %w"
	EnvfileReadFailedFmt           = "failed to read env content: %w"
	EnvfileExpectedKeyValue        = "expected KEY=VALUE"
	EnvfileUnterminatedQuotedValue = "unterminated quoted value"
	EnvfileInvalidQuotedSuffix     = "unexpected characters after quoted value"
)
