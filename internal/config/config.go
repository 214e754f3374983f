package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	// Database settings
	DBDriver       string
	DBDSN          string
	SkipMigrations bool

	// File paths
	CSVPath string

	// Server settings
	ServerHost  string
	ServerPort  int
	APIKey      string
	CORSOrigins []string
	CacheTTL    time.Duration

	// Admin client settings
	APIURL string

	// Log settings
	LogLevel zerolog.Level
}

// DefaultConfig returns an initial configuration with hardcoded defaults.
func DefaultConfig() *Config {
	logLevel, _ := zerolog.ParseLevel(DefaultLogLevel)

	return &Config{
		DBDriver:       DefaultDBDriver,
		DBDSN:          DefaultDBDSN,
		SkipMigrations: GetEnvBool("SITE_SKIP_MIGRATIONS", false),
		CSVPath:        DefaultCSVPath,
		ServerHost:     DefaultServerHost,
		ServerPort:     DefaultServerPort,
		APIKey:         GetEnvString("SITE_API_KEY", ""),
		CORSOrigins:    GetEnvList("SITE_CORS_ORIGINS", []string{DefaultCORSOrigins}),
		CacheTTL:       GetEnvDuration("SITE_CACHE_TTL", DefaultCacheTTL),
		APIURL:         DefaultAPIURL,
		LogLevel:       GetEnvLogLevel("SITE_LOG_LEVEL", logLevel),
	}
}

// ListenAddr returns the formatted listen address for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}
