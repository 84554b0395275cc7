// Package messaging decodes gesture triggers and dispatches them to the
// layout service.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/logging"
	"github.com/bnema/tilegrid/internal/ui/coordinator"
)

// Gesture types.
const (
	TypeSplit      = "split"
	TypeDelete     = "delete"
	TypeSetLocator = "setLocator"
	TypeEditMode   = "editMode"
	TypeResize     = "resize"
	TypeNudge      = "nudge"
)

// ErrUnknownGesture is returned for unsupported gesture types.
var ErrUnknownGesture = errors.New("unknown gesture type")

// LayoutController is the subset of the layout service gestures drive.
type LayoutController interface {
	Split(ctx context.Context, req coordinator.SplitRequest) (entity.NodeID, error)
	Delete(ctx context.Context, id entity.NodeID) error
	SetLocator(ctx context.Context, id entity.NodeID, locator string) error
	SetEditMode(ctx context.Context, on bool)
	EditMode() bool
	ResizeBreakpoint(ctx context.Context, containerID entity.NodeID, index int, fraction float64) (float64, error)
	Nudge(ctx context.Context, id entity.NodeID, dir entity.Direction, step float64) error
}

var _ LayoutController = (*coordinator.LayoutService)(nil)

// Gesture is one decoded trigger.
type Gesture struct {
	Type        string           `json:"type"`
	RequestID   string           `json:"requestId,omitempty"`
	TileID      entity.NodeID    `json:"tileId,omitempty"`
	ContainerID entity.NodeID    `json:"containerId,omitempty"`
	Index       int              `json:"index,omitempty"`
	Direction   entity.Direction `json:"direction,omitempty"`
	Pointer     *entity.Point    `json:"pointer,omitempty"`
	Fraction    *float64         `json:"fraction,omitempty"`
	Locator     string           `json:"locator,omitempty"`
	// Enabled selects edit mode on or off; absent toggles it.
	Enabled *bool   `json:"enabled,omitempty"`
	Step    float64 `json:"step,omitempty"`
}

// Result reports what a gesture produced.
type Result struct {
	Type     string        `json:"type"`
	TileID   entity.NodeID `json:"tileId,omitempty"`
	Fraction float64       `json:"fraction,omitempty"`
	EditMode bool          `json:"editMode,omitempty"`
	Skipped  bool          `json:"skipped,omitempty"`
}

// Handler dispatches gestures.
type Handler struct {
	layout LayoutController
	dedup  *Deduplicator
}

// NewHandler creates a handler driving layout.
func NewHandler(layout LayoutController) *Handler {
	return &Handler{layout: layout, dedup: NewDeduplicator()}
}

// Decode parses a gesture payload.
func Decode(payload []byte) (Gesture, error) {
	var g Gesture
	if err := json.Unmarshal(payload, &g); err != nil {
		return Gesture{}, fmt.Errorf("decode gesture: %w", err)
	}
	if g.Type == "" {
		return Gesture{}, errors.New("decode gesture: missing type")
	}
	return g, nil
}

// HandleJSON decodes payload and dispatches it.
func (h *Handler) HandleJSON(ctx context.Context, payload []byte) (Result, error) {
	g, err := Decode(payload)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to decode gesture")
		return Result{}, err
	}
	return h.Handle(ctx, g)
}

// Handle dispatches one gesture. Repeated request ids inside the debounce
// window are skipped.
func (h *Handler) Handle(ctx context.Context, g Gesture) (Result, error) {
	log := logging.FromContext(ctx)

	if dup, reason := h.dedup.IsDuplicate(g.RequestID); dup {
		log.Debug().Str("type", g.Type).Str("reason", reason).Msg("gesture skipped")
		return Result{Type: g.Type, Skipped: true}, nil
	}

	switch g.Type {
	case TypeSplit:
		if !g.Direction.Valid() {
			return Result{}, fmt.Errorf("split: invalid direction %q", g.Direction)
		}
		id, err := h.layout.Split(ctx, coordinator.SplitRequest{
			TileID:    g.TileID,
			Direction: g.Direction,
			Pointer:   g.Pointer,
			Fraction:  g.Fraction,
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Type: g.Type, TileID: id}, nil

	case TypeDelete:
		if err := h.layout.Delete(ctx, g.TileID); err != nil {
			return Result{}, err
		}
		return Result{Type: g.Type, TileID: g.TileID}, nil

	case TypeSetLocator:
		if err := h.layout.SetLocator(ctx, g.TileID, g.Locator); err != nil {
			return Result{}, err
		}
		return Result{Type: g.Type, TileID: g.TileID}, nil

	case TypeEditMode:
		on := !h.layout.EditMode()
		if g.Enabled != nil {
			on = *g.Enabled
		}
		h.layout.SetEditMode(ctx, on)
		return Result{Type: g.Type, EditMode: on}, nil

	case TypeResize:
		if g.Fraction == nil {
			return Result{}, errors.New("resize: fraction is required")
		}
		applied, err := h.layout.ResizeBreakpoint(ctx, g.ContainerID, g.Index, *g.Fraction)
		if err != nil {
			return Result{}, err
		}
		return Result{Type: g.Type, Fraction: applied}, nil

	case TypeNudge:
		if !g.Direction.Valid() {
			return Result{}, fmt.Errorf("nudge: invalid direction %q", g.Direction)
		}
		if err := h.layout.Nudge(ctx, g.TileID, g.Direction, g.Step); err != nil {
			return Result{}, err
		}
		return Result{Type: g.Type, TileID: g.TileID}, nil

	default:
		log.Warn().Str("type", g.Type).Msg("unknown gesture")
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownGesture, g.Type)
	}
}
