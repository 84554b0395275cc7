package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/domain/projection"
	"github.com/bnema/tilegrid/internal/logging"
)

// SplitTileUseCase adds an empty tile next to an existing one.
type SplitTileUseCase struct {
	idGenerator IDGenerator
	opts        LayoutOptions
}

// NewSplitTileUseCase creates a new split use case.
func NewSplitTileUseCase(idGenerator IDGenerator, opts LayoutOptions) *SplitTileUseCase {
	if idGenerator == nil {
		idGenerator = entity.NewNodeID
	}
	return &SplitTileUseCase{
		idGenerator: idGenerator,
		opts:        opts,
	}
}

// SplitTileInput contains parameters for splitting a tile.
type SplitTileInput struct {
	Tree      *entity.Tree
	TileID    entity.NodeID
	Direction entity.Direction
	// Fraction places the divider explicitly, relative to the target.
	Fraction *float64
	// Pointer derives the fraction from the target's last measured rect.
	Pointer *entity.Point
}

// SplitTileOutput contains the result of a split operation.
type SplitTileOutput struct {
	NewTile *entity.Node
	// Container is the container the new tile lives in.
	Container *entity.Node
	// CreatedContainer is false when the tile was spliced into an existing
	// container running along the gesture axis.
	CreatedContainer bool
	// Fraction is the clamped split fraction relative to the target.
	Fraction float64
}

// Execute splits the target tile. An unknown target leaves the tree
// unchanged and returns entity.ErrTileNotFound.
func (uc *SplitTileUseCase) Execute(ctx context.Context, input SplitTileInput) (*SplitTileOutput, error) {
	log := logging.FromContext(ctx)

	if input.Tree == nil {
		return nil, fmt.Errorf("tree is required")
	}
	if !input.Direction.Valid() {
		return nil, fmt.Errorf("invalid split direction %q", input.Direction)
	}
	target, ok := input.Tree.Tile(input.TileID)
	if !ok {
		log.Warn().Str("tile_id", string(input.TileID)).Msg("split target not found")
		return nil, fmt.Errorf("split %s: %w", input.TileID, entity.ErrTileNotFound)
	}

	axis := input.Direction.Axis()
	f := ClampSplitFraction(uc.resolveFraction(ctx, target, axis, input), uc.opts.SplitEpsilon)

	newTile := &entity.Node{ID: uc.idGenerator(), Kind: entity.KindTile}
	out := &SplitTileOutput{NewTile: newTile, Fraction: f}

	parent := target.Parent
	if parent != nil && parent.Axis() == axis {
		uc.splice(parent, target, newTile, input.Direction, f)
		out.Container = parent
	} else {
		out.Container = uc.wrap(input.Tree, target, newTile, input.Direction, f)
		out.CreatedContainer = true
	}
	input.Tree.Register(newTile)

	log.Info().
		Str("target_id", string(target.ID)).
		Str("new_tile_id", string(newTile.ID)).
		Str("direction", string(input.Direction)).
		Float64("fraction", f).
		Bool("created_container", out.CreatedContainer).
		Msg("tile split completed")

	return out, nil
}

func (uc *SplitTileUseCase) resolveFraction(
	ctx context.Context,
	target *entity.Node,
	axis entity.Axis,
	input SplitTileInput,
) float64 {
	if input.Fraction != nil {
		return *input.Fraction
	}
	if input.Pointer != nil && target.Anchor != nil {
		if f, ok := projection.Fraction(*target.Anchor, *input.Pointer, axis); ok {
			return f
		}
	}

	fallback := uc.opts.DefaultSplitFraction
	if fallback <= 0 || fallback >= 1 {
		fallback = DefaultSplitFraction
	}
	logging.FromContext(ctx).Debug().
		Str("tile_id", string(target.ID)).
		Float64("fraction", fallback).
		Msg("split target not measured, using default fraction")
	return fallback
}

// splice inserts newTile next to target inside a parent already running
// along the gesture axis. The divider lands at f within the target's own
// interval, expressed in the parent's cumulative coordinates.
func (uc *SplitTileUseCase) splice(parent, target, newTile *entity.Node, dir entity.Direction, f float64) {
	i := parent.IndexOf(target)
	lo, hi := parent.Interval(i)
	bp := lo + f*(hi-lo)

	at := i + 1
	if dir.TowardStart() {
		at = i
	}
	parent.Children = slices.Insert(parent.Children, at, newTile)
	parent.Breakpoints = slices.Insert(parent.Breakpoints, i, bp)
	newTile.Parent = parent
}

// wrap replaces target with a new two-child container on the gesture axis.
func (uc *SplitTileUseCase) wrap(tree *entity.Tree, target, newTile *entity.Node, dir entity.Direction, f float64) *entity.Node {
	children := []*entity.Node{target, newTile}
	if dir.TowardStart() {
		children = []*entity.Node{newTile, target}
	}

	container := &entity.Node{
		ID:          uc.idGenerator(),
		Kind:        entity.KindForAxis(dir.Axis()),
		Children:    children,
		Breakpoints: []float64{f},
	}
	tree.Register(container)
	tree.ReplaceChild(target, container)
	for _, c := range children {
		c.Parent = container
	}
	return container
}
