package messages

// Manifest messages for parsing bottle manifests and tool definitions.
const (
	ManifestInvalid            = "invalid manifest"
	ManifestParseFmt           = "%s: %w"
	ManifestMissingFieldFmt    = "%s: missing required field %q"
	ManifestInvalidNameFmt     = "%s: %w"
	ManifestReadFmt            = "failed to read manifest %s: %w"
	ManifestEncodeFmt          = "failed to encode manifest: %w"
	ManifestUnknownToolTypeFmt = "%s: unknown tool type %q (expected binary or mcp)"
)

// Validate messages are report lines printed by `bottle validate`.
const (
	ValidateDecodeFailedFmt          = "Failed to parse manifest: %v"
	ValidateMissingFieldFmt          = "Missing required field: %s"
	ValidateInvalidNameFmt           = "Invalid name %q: use only letters, digits, '-' and '_'"
	ValidateVersionFormatFmt         = "Tool '%s' version '%s' doesn't look like semver (x.y.z)"
	ValidateDuplicatePluginFmt       = "Duplicate plugin: %s"
	ValidateMCPCommandMissingFmt     = "mcp server '%s' has no command"
	ValidateMCPScopeFmt              = "mcp server '%s' has invalid scope %q (expected user or project)"
	ValidateMCPEnvRefsFmt            = "mcp server '%s' references %s; set it in the environment or ~/.bottle/.env"
	ValidateCustomNoMethodsFmt       = "custom tool '%s' has no install methods"
	ValidateCustomBinaryURLFmt       = "custom tool '%s' binary method requires a url"
	ValidateCustomPackageFmt         = "custom tool '%s' %s method requires a package"
	ValidateCustomVersionFmt         = "custom tool '%s' has no version"
	ValidateToolDefinitionMissingFmt = "Tool '%s' has no definition at %s"
	ValidateToolDefinitionReadFmt    = "Tool '%s' definition is invalid: %v"
)

// Reconcile messages for per-item failures during plan execution.
const (
	ReconcileFailureFmt     = "%s %s: %v"
	ReconcileNotConfigured  = "no installer configured for this item"
	ReconcileResolveFmt     = "resolve tool definition for %s: %w"
	ReconcileInstallFmt     = "install %s@%s: %w"
	ReconcileUnregisterFmt  = "unregister %s: %w"
	ReconcileCustomFmt      = "install custom tool %s: %w"
	ReconcileMCPScopeFmt    = "mcp server %s has invalid scope %q"
	ReconcileMCPRegisterFmt = "register mcp server %s: %w"
	ReconcilePluginFmt      = "install plugin %s: %w"
)
