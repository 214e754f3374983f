package config

import "time"

// Constants defining default values for application configuration
const (
	DefaultDBDriver = "sqlite3"
	DefaultDBDSN    = "./site.db"
	DefaultCSVPath  = "./content.csv"

	DefaultServerPort = 8080
	DefaultServerHost = "" // Empty string means all interfaces

	DefaultAPIURL      = "http://localhost:8080"
	DefaultCORSOrigins = "*"
	DefaultCacheTTL    = 5 * time.Minute

	DefaultLogLevel = "info"
)
