package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/logging"
)

var (
	// ErrBreakpointIndex is returned for a breakpoint index outside the container.
	ErrBreakpointIndex = errors.New("breakpoint index out of range")
	// ErrNothingToResize is returned when no ancestor runs along the requested axis.
	ErrNothingToResize = errors.New("nothing to resize")
)

// ResizeBreakpointUseCase moves container breakpoints.
type ResizeBreakpointUseCase struct {
	minShare float64
}

// NewResizeBreakpointUseCase creates a new resize use case.
func NewResizeBreakpointUseCase(minShare float64) *ResizeBreakpointUseCase {
	if minShare <= 0 || minShare >= 0.5 {
		minShare = DefaultMinShare
	}
	return &ResizeBreakpointUseCase{minShare: minShare}
}

// ResizeBreakpointInput contains parameters for moving one breakpoint.
type ResizeBreakpointInput struct {
	Tree        *entity.Tree
	ContainerID entity.NodeID
	Index       int
	// Fraction is the raw position along the container's main axis.
	Fraction float64
}

// Execute sets breakpoint Index to Fraction, clamped so that no child's
// share drops below the minimum. Returns the value actually applied.
func (uc *ResizeBreakpointUseCase) Execute(ctx context.Context, input ResizeBreakpointInput) (float64, error) {
	if input.Tree == nil {
		return 0, fmt.Errorf("tree is required")
	}
	container, ok := input.Tree.Container(input.ContainerID)
	if !ok {
		logging.FromContext(ctx).Warn().Str("container_id", string(input.ContainerID)).Msg("resize target not found")
		return 0, fmt.Errorf("resize %s: %w", input.ContainerID, entity.ErrContainerNotFound)
	}
	if input.Index < 0 || input.Index >= len(container.Breakpoints) {
		return 0, fmt.Errorf("resize %s[%d]: %w", input.ContainerID, input.Index, ErrBreakpointIndex)
	}

	old := container.Breakpoints[input.Index]
	applied := ClampBreakpoint(container.Breakpoints, input.Index, input.Fraction, uc.minShare)
	container.Breakpoints[input.Index] = applied

	logging.FromContext(ctx).Trace().
		Str("container_id", string(input.ContainerID)).
		Int("index", input.Index).
		Float64("old", old).
		Float64("raw", input.Fraction).
		Float64("new", applied).
		Msg("breakpoint moved")

	return applied, nil
}

// ClampBreakpoint bounds a new value for breakpoints[k] to stay minShare
// away from its neighbors (or from 0 and 1 at the edges).
func ClampBreakpoint(breakpoints []float64, k int, raw, minShare float64) float64 {
	if minShare <= 0 {
		minShare = DefaultMinShare
	}
	lo, hi := 0.0, 1.0
	if k > 0 {
		lo = breakpoints[k-1]
	}
	if k < len(breakpoints)-1 {
		hi = breakpoints[k+1]
	}
	lower, upper := lo+minShare, hi-minShare
	if lower > upper {
		// Neighbors are already closer than two minimum shares: park in
		// the middle rather than crossing either of them.
		return (lo + hi) / 2
	}
	return clampFloat64(raw, lower, upper)
}

// NudgeInput moves the nearest breakpoint next to a tile by a step.
type NudgeInput struct {
	Tree   *entity.Tree
	TileID entity.NodeID
	// Direction is the way the tile's trailing (or leading) divider moves.
	Direction entity.Direction
	Step      float64
}

// Nudge moves the divider adjacent to the tile, walking up to the nearest
// ancestor container on the direction's axis. Moving right/down grows the
// children before the divider.
func (uc *ResizeBreakpointUseCase) Nudge(ctx context.Context, input NudgeInput) (float64, error) {
	if input.Tree == nil {
		return 0, fmt.Errorf("tree is required")
	}
	node, ok := input.Tree.Tile(input.TileID)
	if !ok {
		return 0, fmt.Errorf("nudge %s: %w", input.TileID, entity.ErrTileNotFound)
	}

	axis := input.Direction.Axis()
	for node.Parent != nil {
		parent := node.Parent
		if parent.Axis() == axis {
			k := parent.IndexOf(node)
			// Use the divider after the node, or before it for the last child.
			if k >= len(parent.Breakpoints) {
				k = len(parent.Breakpoints) - 1
			}
			delta := input.Step
			if input.Direction.TowardStart() {
				delta = -delta
			}
			return uc.Execute(ctx, ResizeBreakpointInput{
				Tree:        input.Tree,
				ContainerID: parent.ID,
				Index:       k,
				Fraction:    parent.Breakpoints[k] + delta,
			})
		}
		node = parent
	}
	return 0, ErrNothingToResize
}
