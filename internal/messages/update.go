package messages

// Update check messages.
const (
	UpdateCreateRequestErrFmt         = "failed to create update request: %w"
	UpdateFetchLatestReleaseErrFmt    = "failed to fetch latest release: %w"
	UpdateFetchLatestReleaseStatusFmt = "failed to fetch latest release: unexpected status %s"
	UpdateDecodeLatestReleaseErrFmt   = "failed to decode latest release: %w"
	UpdateLatestReleaseMissingTag     = "latest release missing tag_name"
	UpdateInvalidLatestReleaseTagFmt  = "invalid latest release tag %q: %w"
	UpdateInvalidCurrentVersionFmt    = "invalid current version %q: %w"
	UpdateRateLimitFmt                = "github api rate limit exceeded (%s, remaining=%s)"

	UpdateWarnCheckFailedFmt = "Warning: failed to check for updates: %v\n"
	UpdateWarnDevBuildFmt    = "Warning: running dev build; latest release is %s\n"
	UpdateWarnAvailableFmt   = "Warning: update available: %s (current %s). Download from %s\n"
)
