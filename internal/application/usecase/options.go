package usecase

import (
	"github.com/bnema/tilegrid/internal/domain/entity"
)

// IDGenerator is a function type for generating unique node IDs.
type IDGenerator func() entity.NodeID

const (
	// DefaultSplitFraction is used when the split target has never been
	// measured, so no pointer fraction can be derived. It places the new
	// divider near the start edge of the target.
	DefaultSplitFraction = 0.1

	// DefaultSplitEpsilon bounds split fractions to [ε, 1-ε].
	DefaultSplitEpsilon = 0.05

	// DefaultMinShare keeps a dragged breakpoint this far from its neighbors.
	DefaultMinShare = 0.05
)

// LayoutOptions are the tunables shared by the layout usecases.
type LayoutOptions struct {
	SplitEpsilon         float64
	MinShare             float64
	DefaultSplitFraction float64
}

// DefaultLayoutOptions returns the built-in tunables.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		SplitEpsilon:         DefaultSplitEpsilon,
		MinShare:             DefaultMinShare,
		DefaultSplitFraction: DefaultSplitFraction,
	}
}

func clampFloat64(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// ClampSplitFraction forbids zero-width or zero-height panes.
func ClampSplitFraction(f, epsilon float64) float64 {
	if epsilon <= 0 || epsilon >= 0.5 {
		epsilon = DefaultSplitEpsilon
	}
	return clampFloat64(f, epsilon, 1-epsilon)
}
