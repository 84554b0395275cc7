package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/tilegrid/internal/application/usecase"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/domain/projection"
)

var (
	// ErrDragActive is returned when a second divider drag starts, or a
	// structural change is requested, while a drag is in progress.
	ErrDragActive = errors.New("divider drag already active")
	// ErrNoDrag is returned by Move and End without an active drag.
	ErrNoDrag = errors.New("no active divider drag")
	// ErrNoHandle is returned by BeginAt when no divider is under the pointer.
	ErrNoHandle = errors.New("no divider at pointer")
)

type dragState struct {
	containerID entity.NodeID
	index       int
	pending     *float64
}

// DragController drives one divider drag at a time. While a drag is active
// every surface is hidden and tiles render statically, so only the weight
// layout runs per frame; the host sees a single commit on release.
type DragController struct {
	svc *LayoutService
}

// NewDragController creates a drag controller for svc.
func NewDragController(svc *LayoutService) *DragController {
	return &DragController{svc: svc}
}

// Active reports whether a drag is in progress.
func (d *DragController) Active() bool {
	d.svc.mu.Lock()
	defer d.svc.mu.Unlock()
	return d.svc.drag != nil
}

// Handle returns the container and breakpoint index being dragged.
func (d *DragController) Handle() (entity.NodeID, int, bool) {
	d.svc.mu.Lock()
	defer d.svc.mu.Unlock()
	if d.svc.drag == nil {
		return "", 0, false
	}
	return d.svc.drag.containerID, d.svc.drag.index, true
}

// BeginAt starts dragging the divider under p.
func (d *DragController) BeginAt(ctx context.Context, p entity.Point) error {
	h, ok := d.svc.engine.HandleAt(p)
	if !ok {
		return ErrNoHandle
	}
	return d.Begin(ctx, h.ContainerID, h.Index)
}

// Begin starts dragging breakpoint index of a container.
func (d *DragController) Begin(ctx context.Context, containerID entity.NodeID, index int) error {
	s := d.svc
	s.mu.Lock()
	if s.drag != nil {
		s.mu.Unlock()
		s.logger.Debug().Str("container_id", string(containerID)).Msg("drag suppressed, another handle is active")
		return ErrDragActive
	}
	c, ok := s.tree.Container(containerID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("drag %s: %w", containerID, entity.ErrContainerNotFound)
	}
	if index < 0 || index >= len(c.Breakpoints) {
		s.mu.Unlock()
		return fmt.Errorf("drag %s[%d]: %w", containerID, index, usecase.ErrBreakpointIndex)
	}
	s.drag = &dragState{containerID: containerID, index: index}
	tiles := s.tree.Tiles()
	ids := make([]entity.NodeID, 0, len(tiles))
	for _, tile := range tiles {
		tile.Static = true
		ids = append(ids, tile.ID)
	}
	s.mu.Unlock()

	s.poller.StopAll()
	s.hideSurfaces(ctx, ids)
	s.logger.Debug().Str("container_id", string(containerID)).Int("index", index).Msg("drag started")
	s.notify()
	return nil
}

// Move records the latest raw breakpoint position and requests a frame.
// Moves between frames are coalesced; only the latest value is applied.
func (d *DragController) Move(ctx context.Context, raw float64) error {
	s := d.svc
	s.mu.Lock()
	if s.drag == nil {
		s.mu.Unlock()
		return ErrNoDrag
	}
	s.drag.pending = &raw
	s.mu.Unlock()

	s.frames.RequestFrame(func() { d.applyFrame(ctx) })
	return nil
}

// MoveTo converts a pointer position into a breakpoint position along the
// dragged container's axis.
func (d *DragController) MoveTo(ctx context.Context, p entity.Point) error {
	s := d.svc
	s.mu.Lock()
	if s.drag == nil {
		s.mu.Unlock()
		return ErrNoDrag
	}
	c, ok := s.tree.Container(s.drag.containerID)
	s.mu.Unlock()
	if !ok {
		return ErrNoDrag
	}

	rect, ok := s.engine.Measure(c.ID)
	if !ok {
		return nil
	}
	f, ok := projection.Fraction(rect, p, c.Axis())
	if !ok {
		return nil
	}
	return d.Move(ctx, f)
}

func (d *DragController) applyFrame(ctx context.Context) {
	s := d.svc
	s.mu.Lock()
	if s.drag == nil {
		s.mu.Unlock()
		return
	}
	d.applyPending(ctx)
	s.relayout()
	s.mu.Unlock()
	s.notify()
}

// applyPending applies the pending value. Caller holds mu.
func (d *DragController) applyPending(ctx context.Context) {
	s := d.svc
	drag := s.drag
	if drag.pending == nil {
		return
	}
	raw := *drag.pending
	drag.pending = nil
	if _, err := s.resizeUC.Execute(ctx, usecase.ResizeBreakpointInput{
		Tree:        s.tree,
		ContainerID: drag.containerID,
		Index:       drag.index,
		Fraction:    raw,
	}); err != nil {
		s.logger.Debug().Err(err).Msg("drag value not applied")
	}
}

// End applies the last value, restores every surface and commits the final
// geometry once.
func (d *DragController) End(ctx context.Context) error {
	s := d.svc
	s.mu.Lock()
	if s.drag == nil {
		s.mu.Unlock()
		return ErrNoDrag
	}
	d.applyPending(ctx)
	s.drag = nil
	editing := s.editMode
	for _, tile := range s.tree.Tiles() {
		tile.Static = editing
	}
	s.relayout()
	commits := s.allRects()
	s.mu.Unlock()

	// Edit mode keeps holding the surfaces until it is left.
	if !editing {
		ids := make([]entity.NodeID, 0, len(commits))
		for _, c := range commits {
			ids = append(ids, c.id)
		}
		s.unhideSurfaces(ctx, ids)
	}
	s.commit(ctx, commits)
	s.logger.Debug().Int("tiles", len(commits)).Msg("drag ended")
	s.notify()
	return nil
}
