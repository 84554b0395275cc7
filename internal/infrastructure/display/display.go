// Package display tracks the host display geometry and publishes changes to
// the layout context.
package display

import (
	"context"
	"sync"

	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/logging"
)

// Publisher pushes metrics across the bridge.
type Publisher interface {
	PublishDisplayMetrics(ctx context.Context, m entity.DisplayMetrics) error
}

// Monitor holds the current display metrics. It implements
// port.DisplayMetricsProvider.
type Monitor struct {
	mu        sync.RWMutex
	metrics   entity.DisplayMetrics
	publisher Publisher
}

// NewMonitor creates a monitor for a display of the given size with the
// whole display as work area.
func NewMonitor(width, height int) *Monitor {
	bounds := entity.Rect{W: width, H: height}
	return &Monitor{metrics: entity.DisplayMetrics{Bounds: bounds, WorkArea: bounds, ScaleFactor: 1}}
}

// SetPublisher wires the monitor to the bridge.
func (m *Monitor) SetPublisher(p Publisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publisher = p
}

// DisplayMetrics returns the current metrics.
func (m *Monitor) DisplayMetrics() entity.DisplayMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metrics
}

// Set replaces the metrics and publishes them when they changed.
func (m *Monitor) Set(ctx context.Context, metrics entity.DisplayMetrics) error {
	if metrics.ScaleFactor <= 0 {
		metrics.ScaleFactor = 1
	}

	m.mu.Lock()
	if m.metrics == metrics {
		m.mu.Unlock()
		return nil
	}
	m.metrics = metrics
	publisher := m.publisher
	m.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Int("work_w", metrics.WorkArea.W).
		Int("work_h", metrics.WorkArea.H).
		Float64("scale", metrics.ScaleFactor).
		Msg("display metrics changed")

	if publisher == nil {
		return nil
	}
	return publisher.PublishDisplayMetrics(ctx, metrics)
}

// Resize sets a new display size, keeping the work area equal to the bounds.
func (m *Monitor) Resize(ctx context.Context, width, height int) error {
	bounds := entity.Rect{W: width, H: height}
	return m.Set(ctx, entity.DisplayMetrics{Bounds: bounds, WorkArea: bounds, ScaleFactor: m.DisplayMetrics().ScaleFactor})
}
