package config

import (
	"github.com/bnema/tilegrid/internal/application/usecase"
	"github.com/bnema/tilegrid/internal/ui/reconcile"
	"github.com/bnema/tilegrid/internal/ui/render"
)

const (
	defaultEditInsetPx = 6
	defaultNudgeStep   = 0.05
	defaultBufferSize  = 256
	defaultTimeoutMs   = 2000
	defaultInspectAddr = "127.0.0.1:7878"
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
)

// DefaultConfig returns the default configuration values.
func DefaultConfig() *Config {
	renderOpts := render.DefaultOptions()
	reconcileOpts := reconcile.DefaultOptions()

	return &Config{
		Layout: LayoutConfig{
			SplitEpsilon:         usecase.DefaultSplitEpsilon,
			MinShare:             usecase.DefaultMinShare,
			DefaultSplitFraction: usecase.DefaultSplitFraction,
			DividerPx:            renderOpts.DividerPx,
			MinTilePx:            renderOpts.MinTilePx,
			EditInsetPx:          defaultEditInsetPx,
			NudgeStep:            defaultNudgeStep,
		},
		Reconcile: ReconcileConfig{
			IntervalMs:         int(reconcileOpts.Interval.Milliseconds()),
			MaxTicks:           reconcileOpts.MaxTicks,
			CapturePlaceholder: reconcileOpts.CapturePlaceholder,
		},
		Bridge: BridgeConfig{
			BufferSize:       defaultBufferSize,
			RequestTimeoutMs: defaultTimeoutMs,
		},
		Logging: LoggingConfig{
			Level:         defaultLogLevel,
			Format:        defaultLogFormat,
			EnableFileLog: true,
		},
		Inspect: InspectConfig{
			Enabled: false,
			Addr:    defaultInspectAddr,
		},
	}
}
