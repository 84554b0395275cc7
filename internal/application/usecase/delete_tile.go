package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/bnema/tilegrid/internal/application/port"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/logging"
)

// ErrLastTile is returned when deleting the only tile of the tree.
var ErrLastTile = errors.New("cannot delete the last tile")

// DeleteTileUseCase removes a tile and collapses containers left with a
// single child.
type DeleteTileUseCase struct {
	host port.SurfaceHost
}

// NewDeleteTileUseCase creates a new delete use case. host may be nil when
// no surfaces are bound (tests, dry runs).
func NewDeleteTileUseCase(host port.SurfaceHost) *DeleteTileUseCase {
	return &DeleteTileUseCase{host: host}
}

// DeleteTileInput contains parameters for deleting a tile.
type DeleteTileInput struct {
	Tree   *entity.Tree
	TileID entity.NodeID
}

// DeleteTileOutput contains the result of a delete operation.
type DeleteTileOutput struct {
	Deleted *entity.Node
	// Promoted is the sibling that took the collapsed container's slot,
	// nil when the parent kept more than one child.
	Promoted *entity.Node
	// Collapsed is the container that was destroyed, if any.
	Collapsed *entity.Node
}

// Execute deletes the tile. Unknown ids leave the tree unchanged and return
// entity.ErrTileNotFound.
func (uc *DeleteTileUseCase) Execute(ctx context.Context, input DeleteTileInput) (*DeleteTileOutput, error) {
	log := logging.FromContext(ctx)

	if input.Tree == nil {
		return nil, fmt.Errorf("tree is required")
	}
	target, ok := input.Tree.Tile(input.TileID)
	if !ok {
		log.Warn().Str("tile_id", string(input.TileID)).Msg("delete target not found")
		return nil, fmt.Errorf("delete %s: %w", input.TileID, entity.ErrTileNotFound)
	}

	parent := target.Parent
	if parent == nil {
		log.Warn().Str("tile_id", string(target.ID)).Msg("refusing to delete the last tile")
		return nil, fmt.Errorf("delete %s: %w", target.ID, ErrLastTile)
	}

	out := &DeleteTileOutput{Deleted: target}
	i := parent.IndexOf(target)

	if len(parent.Children) > 2 {
		// The neighbor after the target absorbs its interval; the last child
		// is absorbed by the one before it.
		bp := min(i, len(parent.Breakpoints)-1)
		parent.Children = slices.Delete(parent.Children, i, i+1)
		parent.Breakpoints = slices.Delete(parent.Breakpoints, bp, bp+1)
	} else {
		sibling := parent.Children[1-i]
		input.Tree.ReplaceChild(parent, sibling)
		input.Tree.Unregister(parent)
		parent.Children = nil
		parent.Breakpoints = nil
		out.Promoted = sibling
		out.Collapsed = parent
	}

	target.Parent = nil
	input.Tree.Unregister(target)

	uc.destroySurface(ctx, target.ID)

	ev := log.Info().Str("deleted_tile_id", string(target.ID))
	if out.Promoted != nil {
		ev = ev.Str("promoted_id", string(out.Promoted.ID)).Str("collapsed_id", string(out.Collapsed.ID))
	}
	ev.Msg("tile deleted")

	return out, nil
}

func (uc *DeleteTileUseCase) destroySurface(ctx context.Context, id entity.NodeID) {
	if uc.host == nil {
		return
	}
	if err := uc.host.DeleteSurface(ctx, id); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("tile_id", string(id)).Msg("delete surface failed")
	}
}
