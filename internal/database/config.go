package database

import "time"

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	defaultMaxIdleConns    = 10
	defaultMaxOpenConns    = 10
	defaultConnMaxLifetime = time.Hour
)

// Config holds database configuration settings
type Config struct {
	// Required settings
	Driver string
	DSN    string // file path for sqlite3, connection URL for postgres

	// Optional settings (will use defaults if not set)
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SkipMigrations  bool

	// SQLite only
	CacheSizeKB   int
	BusyTimeoutMS int
}

// NewConfig creates a new database configuration with default values
func NewConfig(driver, dsn string) *Config {
	return &Config{
		Driver:          driver,
		DSN:             dsn,
		ConnMaxLifetime: defaultConnMaxLifetime,
		CacheSizeKB:     -16000, // 16MB
		BusyTimeoutMS:   5000,
	}
}
