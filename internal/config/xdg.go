package config

import (
	"os"
	"path/filepath"
)

const appName = "tilegrid"

// XDGDirs holds the per-application XDG base directories.
type XDGDirs struct {
	ConfigHome string // $XDG_CONFIG_HOME/tilegrid, default ~/.config/tilegrid
	StateHome  string // $XDG_STATE_HOME/tilegrid, default ~/.local/state/tilegrid
}

// GetXDGDirs resolves the application directories. With ENV=dev both point
// at ./.dev/tilegrid so a development build never touches the user's files.
func GetXDGDirs() (*XDGDirs, error) {
	if os.Getenv("ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dev := filepath.Join(cwd, ".dev", appName)
		return &XDGDirs{ConfigHome: dev, StateHome: dev}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &XDGDirs{
		ConfigHome: xdgBase("XDG_CONFIG_HOME", home, ".config"),
		StateHome:  xdgBase("XDG_STATE_HOME", home, ".local", "state"),
	}, nil
}

// xdgBase returns $env/tilegrid, falling back to home/fallback.../tilegrid.
func xdgBase(env, home string, fallback ...string) string {
	base := os.Getenv(env)
	if base == "" {
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	return filepath.Join(base, appName)
}

// GetConfigDir returns the directory holding config.toml.
func GetConfigDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.ConfigHome, nil
}

// GetLogDir returns the default session log directory.
func GetLogDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.StateHome, "logs"), nil
}

// ResolveLogDir returns the configured log directory, or the XDG default.
func (c *Config) ResolveLogDir() (string, error) {
	if c.Logging.LogDir != "" {
		return c.Logging.LogDir, nil
	}
	return GetLogDir()
}
