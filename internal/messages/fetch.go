package messages

// Fetch messages for manifest and tool definition resolution.
const (
	FetchNotFound             = "not found"
	FetchNotFoundFmt          = "%s '%s' not found"
	FetchInvalidNameFmt       = "invalid bottle or tool name %q: use letters, digits, '-' and '_'"
	FetchNoNetworkFmt         = "cannot fetch %s '%s': network access is disabled (BOTTLE_NO_NETWORK or no_network)"
	FetchReadFmt              = "failed to read %s: %w"
	FetchCreateRequestFmt     = "failed to create request: %w"
	FetchFailedFmt            = "fetch %s failed: %w"
	FetchUnexpectedStatusFmt  = "fetch %s failed: unexpected status %s"
	FetchTooLargeFmt          = "fetch %s: response exceeds %d bytes"
	FetchRetryBudgetExhausted = "retry budget exhausted"
)
