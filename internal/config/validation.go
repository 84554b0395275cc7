package config

import (
	"fmt"
	"strings"
)

// validateConfig checks every section and reports all problems at once.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLayout(config)...)
	validationErrors = append(validationErrors, validateReconcile(config)...)
	validationErrors = append(validationErrors, validateBridge(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateInspect(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateLayout(config *Config) []string {
	var validationErrors []string
	l := config.Layout
	if l.SplitEpsilon <= 0 || l.SplitEpsilon >= 0.5 {
		validationErrors = append(validationErrors, "layout.split_epsilon must be in (0, 0.5)")
	}
	if l.MinShare <= 0 || l.MinShare >= 0.5 {
		validationErrors = append(validationErrors, "layout.min_share must be in (0, 0.5)")
	}
	if l.DefaultSplitFraction <= 0 || l.DefaultSplitFraction >= 1 {
		validationErrors = append(validationErrors, "layout.default_split_fraction must be in (0, 1)")
	}
	if l.DividerPx < 0 {
		validationErrors = append(validationErrors, "layout.divider_px must be non-negative")
	}
	if l.MinTilePx < 0 {
		validationErrors = append(validationErrors, "layout.min_tile_px must be non-negative")
	}
	if l.EditInsetPx < 0 {
		validationErrors = append(validationErrors, "layout.edit_inset_px must be non-negative")
	}
	if l.NudgeStep <= 0 || l.NudgeStep >= 0.5 {
		validationErrors = append(validationErrors, "layout.nudge_step must be in (0, 0.5)")
	}
	return validationErrors
}

func validateReconcile(config *Config) []string {
	var validationErrors []string
	if config.Reconcile.IntervalMs < 1 {
		validationErrors = append(validationErrors, "reconcile.interval_ms must be at least 1")
	}
	if config.Reconcile.MaxTicks < 1 {
		validationErrors = append(validationErrors, "reconcile.max_ticks must be at least 1")
	}
	return validationErrors
}

func validateBridge(config *Config) []string {
	var validationErrors []string
	if config.Bridge.BufferSize < 1 {
		validationErrors = append(validationErrors, "bridge.buffer_size must be at least 1")
	}
	if config.Bridge.RequestTimeoutMs < 1 {
		validationErrors = append(validationErrors, "bridge.request_timeout_ms must be at least 1")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
		return nil
	default:
		return []string{fmt.Sprintf("logging.level %q must be one of trace, debug, info, warn, error", config.Logging.Level)}
	}
}

func validateInspect(config *Config) []string {
	if config.Inspect.Enabled && config.Inspect.Addr == "" {
		return []string{"inspect.addr is required when inspect.enabled is true"}
	}
	return nil
}
