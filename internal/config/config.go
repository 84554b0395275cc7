// Package config provides configuration management for tilegrid with Viper integration.
package config

import (
	"time"

	"github.com/bnema/tilegrid/internal/application/usecase"
	"github.com/bnema/tilegrid/internal/ui/reconcile"
	"github.com/bnema/tilegrid/internal/ui/render"
)

// File permission constants
const (
	dirPerm  = 0755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0644 // Standard file permissions (rw-r--r--)
)

// Config represents the complete configuration for tilegrid.
type Config struct {
	// Layout controls split, resize and geometry tunables.
	Layout LayoutConfig `mapstructure:"layout" toml:"layout" json:"layout"`
	// Reconcile controls the geometry reconciliation poller.
	Reconcile ReconcileConfig `mapstructure:"reconcile" toml:"reconcile" json:"reconcile"`
	// Bridge controls the pipes between the layout context and the host.
	Bridge  BridgeConfig  `mapstructure:"bridge" toml:"bridge" json:"bridge"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging" json:"logging"`
	// Inspect exposes the read-only debug HTTP endpoint.
	Inspect InspectConfig `mapstructure:"inspect" toml:"inspect" json:"inspect"`
}

// LayoutConfig holds layout tree and render engine tunables.
type LayoutConfig struct {
	// SplitEpsilon bounds split fractions to [ε, 1-ε].
	SplitEpsilon float64 `mapstructure:"split_epsilon" toml:"split_epsilon" json:"split_epsilon" jsonschema:"exclusiveMinimum=0,exclusiveMaximum=0.5"`
	// MinShare keeps dragged breakpoints away from their neighbors.
	MinShare float64 `mapstructure:"min_share" toml:"min_share" json:"min_share" jsonschema:"exclusiveMinimum=0,exclusiveMaximum=0.5"`
	// DefaultSplitFraction is used when the split target was never measured.
	DefaultSplitFraction float64 `mapstructure:"default_split_fraction" toml:"default_split_fraction" json:"default_split_fraction" jsonschema:"exclusiveMinimum=0,exclusiveMaximum=1"`
	DividerPx            int     `mapstructure:"divider_px" toml:"divider_px" json:"divider_px" jsonschema:"minimum=0"`
	MinTilePx            int     `mapstructure:"min_tile_px" toml:"min_tile_px" json:"min_tile_px" jsonschema:"minimum=0"`
	// EditInsetPx shrinks every tile while edit mode is on.
	EditInsetPx int `mapstructure:"edit_inset_px" toml:"edit_inset_px" json:"edit_inset_px" jsonschema:"minimum=0"`
	// NudgeStep is the fraction moved by one keyboard resize.
	NudgeStep float64 `mapstructure:"nudge_step" toml:"nudge_step" json:"nudge_step" jsonschema:"exclusiveMinimum=0,exclusiveMaximum=0.5"`
}

// ReconcileConfig holds the reconciliation poller settings.
type ReconcileConfig struct {
	IntervalMs         int  `mapstructure:"interval_ms" toml:"interval_ms" json:"interval_ms" jsonschema:"minimum=1"`
	MaxTicks           int  `mapstructure:"max_ticks" toml:"max_ticks" json:"max_ticks" jsonschema:"minimum=1"`
	CapturePlaceholder bool `mapstructure:"capture_placeholder" toml:"capture_placeholder" json:"capture_placeholder"`
}

// BridgeConfig holds the message bridge settings.
type BridgeConfig struct {
	// BufferSize is the capacity of each direction's pipe.
	BufferSize       int `mapstructure:"buffer_size" toml:"buffer_size" json:"buffer_size" jsonschema:"minimum=1"`
	RequestTimeoutMs int `mapstructure:"request_timeout_ms" toml:"request_timeout_ms" json:"request_timeout_ms" jsonschema:"minimum=1"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	// LogDir defaults to $XDG_STATE_HOME/tilegrid/logs when empty.
	LogDir        string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir"`
	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
}

// InspectConfig holds the debug inspector settings.
type InspectConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	Addr    string `mapstructure:"addr" toml:"addr" json:"addr"`
}

// LayoutOptions converts the layout section for the layout usecases.
func (c *Config) LayoutOptions() usecase.LayoutOptions {
	return usecase.LayoutOptions{
		SplitEpsilon:         c.Layout.SplitEpsilon,
		MinShare:             c.Layout.MinShare,
		DefaultSplitFraction: c.Layout.DefaultSplitFraction,
	}
}

// RenderOptions converts the layout section for the render engine.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		DividerPx: c.Layout.DividerPx,
		MinTilePx: c.Layout.MinTilePx,
	}
}

// ReconcileOptions converts the reconcile section for the poller.
func (c *Config) ReconcileOptions() reconcile.Options {
	return reconcile.Options{
		Interval:           time.Duration(c.Reconcile.IntervalMs) * time.Millisecond,
		MaxTicks:           c.Reconcile.MaxTicks,
		CapturePlaceholder: c.Reconcile.CapturePlaceholder,
	}
}

// RequestTimeout returns the bridge request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Bridge.RequestTimeoutMs) * time.Millisecond
}
