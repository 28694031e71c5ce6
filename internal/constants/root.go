package constants

const (
	AppName           = "readlit"
	DefaultConfigPath = "~/.config/readlit/readlit.db"
	Version           = "v0.1.0"

	// SnapshotKey is the key the whole ledger snapshot is stored under.
	SnapshotKey = "readingTrackerData.v1"

	// SnapshotVersion is the current snapshot schema version. Snapshots without
	// a version field are treated as version 1 (the boolean-flag book shape).
	SnapshotVersion = 2

	// Export constants
	DefaultExportFile = "data.json"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "readlit-"

	// Logging constants
	LogDirName    = "logs"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Dashboard list limits
	DashboardBehindLimit  = 6
	DashboardCurrentLimit = 8
	DashboardRecentLimit  = 10

	// Placeholders used when a log or progress entry does not resolve to a book.
	UnknownBookTitle = "Unknown book"
	NoBookTitle      = "—"
)
