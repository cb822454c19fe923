package messages

// Install messages for package managers, MCP registration and binary downloads.
const (
	InstallPrerequisitesNotMet = "prerequisites not met"
	InstallHostMissing         = "agent host CLI not found on PATH"
	InstallPrereqMissingFmt    = "%s (%s)"
	InstallPrereqCargoHint     = "install Rust: https://rustup.rs"
	InstallPrereqNodeHint      = "install Node.js: https://nodejs.org"
	InstallNoBinaryStrategy    = "neither cargo nor brew found; install Rust or Homebrew"
	InstallUnknownToolTypeFmt  = "tool %s has unknown type %q"
	InstallCommandFailedFmt    = "%s %s: %w"
	InstallMCPMissingEnvFmt    = "mcp server %s needs environment variables that are not set: %s"

	InstallMethodUnavailableFmt = "%s: %s not found on PATH"
	InstallCustomNoMethodsFmt   = "custom tool %s has no install methods"
	InstallCustomFailedFmt      = "no install method succeeded for %s: %w"
	InstallVerifyFailedFmt      = "verify %s: %w"
	InstallNoDownloader         = "binary downloads are not configured"

	InstallBinaryNameFmt               = "invalid binary name %q"
	InstallBinaryNoNetworkFmt          = "cannot download %s: network access is disabled (BOTTLE_NO_NETWORK or no_network)"
	InstallCreateBinDirFmt             = "failed to create binary directory %s: %w"
	InstallCreateTempFileFmt           = "failed to create temp file: %w"
	InstallSyncTempFileFmt             = "failed to sync temp file: %w"
	InstallCloseTempFileFmt            = "failed to close temp file: %w"
	InstallTruncateTempFileFmt         = "failed to reset temp file: %w"
	InstallChmodBinaryFmt              = "failed to make binary executable: %w"
	InstallMoveBinaryFmt               = "failed to move binary into place: %w"
	InstallDownloadingFmt              = "Downloading %s from %s\n"
	InstallDownloadedFmt               = "Installed %s to %s\n"
	InstallDownloadFailedFmt           = "download %s failed: %w"
	InstallDownloadTimeoutFmt          = "download %s timed out"
	InstallDownloadUnexpectedStatusFmt = "download %s failed: unexpected status %s"
	InstallDownloadTooLargeFmt         = "download %s exceeds the %d byte limit"
	InstallRetryBudgetExhausted        = "retry budget exhausted"
	InstallOpenFileFmt                 = "failed to open %s: %w"
	InstallHashFileFmt                 = "failed to hash %s: %w"
	InstallChecksumMismatchFmt         = "checksum mismatch for %s: expected %s, got %s"
	InstallOpenLockFmt                 = "failed to open lock file %s: %w"
	InstallLockFmt                     = "failed to lock %s: %w"
	InstallLockTimeoutFmt              = "timed out after %s waiting for another bottle process"
)
