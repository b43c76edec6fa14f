package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.Verification.ProviderTimeout)
	assert.Equal(t, 15*time.Minute, cfg.Redis.CacheTTL)
	assert.Empty(t, cfg.Security.JWTSecret)
}

func TestLoadFile_EnvOverride(t *testing.T) {
	t.Setenv("DSV_SERVER_PORT", "9999")
	t.Setenv("DSV_REDIS_URL", "redis://cache.internal:6379")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "redis://cache.internal:6379", cfg.Redis.URL)
}

func TestLoadFile_YAMLOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 7070\nverification:\n  provider_timeout: 5s\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Verification.ProviderTimeout)
	// Untouched keys keep their defaults.
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}
