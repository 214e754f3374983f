package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigReadsEnvironment(t *testing.T) {
	t.Setenv("SITE_API_KEY", "k")
	t.Setenv("SITE_CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SITE_CACHE_TTL", "30s")
	t.Setenv("SITE_LOG_LEVEL", "warn")
	t.Setenv("SITE_SKIP_MIGRATIONS", "true")

	cfg := DefaultConfig()
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
	assert.True(t, cfg.SkipMigrations)
	assert.Equal(t, ":8080", cfg.ListenAddr())
}

func TestEnvHelpersFallBack(t *testing.T) {
	t.Setenv("SITE_TEST_INT", "nope")
	t.Setenv("SITE_TEST_DURATION", "3")
	t.Setenv("SITE_TEST_LIST", " , ")

	assert.Equal(t, 7, GetEnvInt("SITE_TEST_INT", 7))
	assert.Equal(t, 3*time.Minute, GetEnvDuration("SITE_TEST_DURATION", time.Hour), "bare numbers are minutes")
	assert.Equal(t, []string{"*"}, GetEnvList("SITE_TEST_LIST", []string{"*"}))
	assert.Equal(t, "fallback", GetEnvString("SITE_TEST_UNSET", "fallback"))
	assert.Equal(t, zerolog.InfoLevel, GetEnvLogLevel("SITE_TEST_UNSET", zerolog.InfoLevel))
}
