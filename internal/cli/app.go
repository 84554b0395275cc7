// Package cli provides CLI commands using Bubble Tea TUI.
package cli

import (
	"context"
	"os"

	"github.com/bnema/tilegrid/internal/cli/styles"
	"github.com/bnema/tilegrid/internal/config"
	"github.com/bnema/tilegrid/internal/logging"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo BuildInfo

	// Context with logger
	ctx context.Context
}

// NewApp loads the configuration and builds the CLI context. A broken
// config file falls back to defaults so read-only commands keep working.
func NewApp() (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	return NewAppWithManager(mgr), nil
}

// NewAppWithManager builds an App around an existing manager.
func NewAppWithManager(mgr *config.Manager) *App {
	cfg := config.DefaultConfig()
	loadErr := mgr.Load()
	if loadErr == nil {
		cfg = mgr.Get()
	}

	level := cfg.Logging.Level
	if envLevel := os.Getenv("TILEGRID_LOG_LEVEL"); envLevel != "" {
		level = envLevel
	}
	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(level),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	})
	if loadErr != nil {
		logger.Warn().Err(loadErr).Str("path", mgr.ConfigFile()).Msg("config not loaded, using defaults")
	}

	return &App{
		Config:  cfg,
		Manager: mgr,
		Theme:   styles.NewTheme(),
		ctx:     logging.WithContext(context.Background(), logger),
	}
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
