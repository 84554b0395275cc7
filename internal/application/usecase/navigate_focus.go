package usecase

import (
	"context"
	"sort"

	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/logging"
)

// TileRect pairs a tile with its measured rect.
type TileRect struct {
	ID   entity.NodeID
	Rect entity.Rect
}

// NavigateFocusInput contains parameters for geometric focus navigation.
type NavigateFocusInput struct {
	ActiveID  entity.NodeID
	Rects     []TileRect
	Direction entity.Direction
}

// NavigateFocus finds the nearest tile in direction from the active one.
// Candidates overlapping the active tile on the perpendicular axis always
// win over those that don't; among them the primary distance dominates.
func NavigateFocus(ctx context.Context, input NavigateFocusInput) (entity.NodeID, bool) {
	var active *TileRect
	for i := range input.Rects {
		if input.Rects[i].ID == input.ActiveID {
			active = &input.Rects[i]
			break
		}
	}
	if active == nil {
		logging.FromContext(ctx).Debug().Str("active", string(input.ActiveID)).Msg("active tile rect not found")
		return "", false
	}

	const noOverlapPenalty = 10_000_000

	type candidate struct {
		id    entity.NodeID
		score int
	}
	var candidates []candidate

	acx, acy := active.Rect.Center()
	for _, r := range input.Rects {
		if r.ID == active.ID {
			continue
		}
		cx, cy := r.Rect.Center()
		dx, dy := cx-acx, cy-acy

		var inDirection, overlap bool
		var primary, perp int
		switch input.Direction {
		case entity.DirectionLeft:
			inDirection, primary, perp, overlap = dx < 0, abs(dx), abs(dy), overlapsVertically(active.Rect, r.Rect)
		case entity.DirectionRight:
			inDirection, primary, perp, overlap = dx > 0, abs(dx), abs(dy), overlapsVertically(active.Rect, r.Rect)
		case entity.DirectionUp:
			inDirection, primary, perp, overlap = dy < 0, abs(dy), abs(dx), overlapsHorizontally(active.Rect, r.Rect)
		case entity.DirectionDown:
			inDirection, primary, perp, overlap = dy > 0, abs(dy), abs(dx), overlapsHorizontally(active.Rect, r.Rect)
		}
		if !inDirection {
			continue
		}
		score := primary*1000 + perp
		if !overlap {
			score += noOverlapPenalty
		}
		candidates = append(candidates, candidate{r.ID, score})
	}

	if len(candidates) == 0 {
		return "", false
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score < candidates[j].score })
	return candidates[0].id, true
}

func overlapsVertically(a, b entity.Rect) bool {
	return a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

func overlapsHorizontally(a, b entity.Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
