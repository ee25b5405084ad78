package config

const (
	// DefaultDatabasePath is the default path for the SQLite catalog database
	DefaultDatabasePath = "./music-library.db"

	// DefaultTasksDatabasePath is the default path for the task queue database
	DefaultTasksDatabasePath = "./music-library-tasks.db"

	// DefaultEnvFile is loaded into the environment before the config is read
	DefaultEnvFile = ".env"
)

const (
	DatabaseDriverSQLite = "sqlite"
	DatabaseDriverMySQL  = "mysql"
)
