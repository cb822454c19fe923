package messages

// History messages for the reconciliation ledger.
const (
	HistoryCreateDirFmt        = "create history dir: %w"
	HistoryOpenFmt             = "open history db: %w"
	HistoryPingFmt             = "ping history db: %w"
	HistoryChmodFmt            = "chmod history db: %w"
	HistoryCreateMigrationsFmt = "create schema_migrations: %w"
	HistoryCheckMigrationFmt   = "check migration %d: %w"
	HistoryBeginMigrationFmt   = "begin tx for migration %d: %w"
	HistoryApplyMigrationFmt   = "apply migration %d: %w"
	HistoryRecordMigrationFmt  = "record migration %d: %w"
	HistoryCommitMigrationFmt  = "commit migration %d: %w"
	HistoryRecordRunFmt        = "record run %s: %w"
	HistoryListRunsFmt         = "list runs: %w"
	HistoryListItemsFmt        = "list items for run %s: %w"
	HistoryParseTimeFmt        = "parse timestamp %q: %w"
)
