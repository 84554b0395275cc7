package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetXDGDirs_HonorsEnv(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	dirs, err := GetXDGDirs()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/cfg", appName), dirs.ConfigHome)
	assert.Equal(t, filepath.Join("/tmp/state", appName), dirs.StateHome)

	logDir, err := GetLogDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/state", appName, "logs"), logDir)
}

func TestGetXDGDirs_Fallbacks(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("HOME", "/home/u")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")

	dirs, err := GetXDGDirs()
	require.NoError(t, err)
	assert.Equal(t, "/home/u/.config/tilegrid", dirs.ConfigHome)
	assert.Equal(t, "/home/u/.local/state/tilegrid", dirs.StateHome)
}

func TestResolveLogDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.LogDir = "/var/log/tilegrid"
	dir, err := cfg.ResolveLogDir()
	require.NoError(t, err)
	assert.Equal(t, "/var/log/tilegrid", dir)
}
