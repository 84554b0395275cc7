package port

import (
	"context"

	"github.com/bnema/tilegrid/internal/domain/entity"
)

// DisplayMetricsProvider supplies display geometry on the host side.
// Metrics are consumed read-only.
type DisplayMetricsProvider interface {
	DisplayMetrics() entity.DisplayMetrics
}

// DisplayMetricsSource is the layout context's view of the display metrics
// channel.
type DisplayMetricsSource interface {
	GetDisplayMetrics(ctx context.Context) (entity.DisplayMetrics, error)
	// OnDisplayMetricsChanged registers a callback for host pushes.
	OnDisplayMetricsChanged(fn func(entity.DisplayMetrics))
}
