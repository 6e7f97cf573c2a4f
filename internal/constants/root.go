package constants

const (
	AppName            = "taskometer"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/taskometer/taskometer.db"
	Version            = "v0.3.0"

	// EnvDBConnection overrides the stored PostgreSQL connection string
	EnvDBConnection = "TASKOMETER_DB_CONNECTION"

	// EnvLogLevel overrides the log level (debug, info, warn, error)
	EnvLogLevel = "TASKOMETER_LOG_LEVEL"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DateTimeFormat is used for printing scheduled placements
	DateTimeFormat = "2006-01-02 15:04"
)
