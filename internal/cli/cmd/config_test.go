package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tilegrid/internal/config"
)

func TestInitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	written, err := initConfigFile(path, false)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, toml.Unmarshal(data, &cfg))
	assert.Equal(t, *config.DefaultConfig(), cfg)
}

func TestInitConfigFile_KeepsExistingUnlessForced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("custom = true\n"), 0o600))

	_, err := initConfigFile(path, false)
	require.ErrorIs(t, err, os.ErrExist)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom = true\n", string(data))

	_, err = initConfigFile(path, true)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[layout]")
}

func TestWriteConfigTOML(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Layout.DividerPx = 9

	var out bytes.Buffer
	require.NoError(t, writeConfigTOML(&out, cfg))

	var decoded config.Config
	require.NoError(t, toml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 9, decoded.Layout.DividerPx)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "demo", "config", "logs", "version"} {
		assert.True(t, names[want], want)
	}
}
