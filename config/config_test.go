package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/snapdex/core"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, core.DefaultSearchLimit, cfg.DefaultLimit)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapdex.yaml")
	body := "data_dir: /tmp/snapdex-test\ndefault_limit: 50\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/snapdex-test", cfg.DataDir)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SNAPDEX_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_InvalidLimitFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapdex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_limit: -3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultSearchLimit, cfg.DefaultLimit)
}
