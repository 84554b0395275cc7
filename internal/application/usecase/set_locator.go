package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/tilegrid/internal/application/port"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/logging"
)

// SetLocatorUseCase provisions a tile with content.
type SetLocatorUseCase struct {
	host port.SurfaceHost
}

// NewSetLocatorUseCase creates a new set-locator use case.
func NewSetLocatorUseCase(host port.SurfaceHost) *SetLocatorUseCase {
	return &SetLocatorUseCase{host: host}
}

// SetLocatorInput contains parameters for setting a tile's locator.
type SetLocatorInput struct {
	Tree    *entity.Tree
	TileID  entity.NodeID
	Locator string
}

// Execute records the locator on the tile and forwards it to the host.
func (uc *SetLocatorUseCase) Execute(ctx context.Context, input SetLocatorInput) error {
	if input.Tree == nil {
		return fmt.Errorf("tree is required")
	}
	tile, ok := input.Tree.Tile(input.TileID)
	if !ok {
		logging.FromContext(ctx).Warn().Str("tile_id", string(input.TileID)).Msg("set locator target not found")
		return fmt.Errorf("set locator %s: %w", input.TileID, entity.ErrTileNotFound)
	}

	locator := strings.TrimSpace(input.Locator)
	if locator == "" {
		return fmt.Errorf("locator is required")
	}
	tile.Locator = locator

	if uc.host != nil {
		if err := uc.host.SetSurfaceLocator(ctx, tile.ID, locator); err != nil {
			return fmt.Errorf("set surface locator: %w", err)
		}
	}

	logging.FromContext(ctx).Debug().
		Str("tile_id", string(tile.ID)).
		Str("locator", locator).
		Msg("tile locator set")
	return nil
}
