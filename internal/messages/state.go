package messages

// Version messages.
const (
	VersionRequired   = "version is required"
	VersionInvalidFmt = "invalid version %q: expected X.Y.Z or vX.Y.Z"
)

// Fsutil messages for atomic file writes.
const (
	FsutilCreateTempFmt = "create temp file for %s: %w"
	FsutilWriteTempFmt  = "write temp file for %s: %w"
	FsutilSyncTempFmt   = "sync temp file for %s: %w"
	FsutilCloseTempFmt  = "close temp file for %s: %w"
	FsutilChmodTempFmt  = "chmod temp file for %s: %w"
	FsutilRenameTempFmt = "rename temp file to %s: %w"
)

// State messages for the state store.
//
// Corruption is reported with %v, not %w, because CorruptedError unwraps
// the cause itself.
const (
	StateUnknownModeFmt   = "unknown mode %q"
	StateUnknownMethodFmt = "unknown install method %q"
	StateCorrupted        = "state record is corrupted"
	StateCorruptedFmt     = "state record %s is corrupted: %v"
	StateMemoryCorrupted  = "record marked corrupted"
	StateBottleRequired   = "state has no bottle name"
	StateInvalidName      = "invalid bottle name"
	StateInvalidNameFmt   = "%w %q: use only letters, digits, '-' and '_'"
	StateReadActiveFmt    = "failed to read active bottle pointer %s: %w"
	StateReadFmt          = "failed to read %s: %w"
	StateCreateDirFmt     = "failed to create directory %s: %w"
	StateWriteFmt         = "failed to write %s: %w"
	StateWriteActiveFmt   = "failed to write active bottle pointer %s: %w"
	StateEncodeFmt        = "failed to encode state: %w"
)
