package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/tilegrid/internal/application/port"
	"github.com/bnema/tilegrid/internal/application/usecase"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/logging"
	"github.com/bnema/tilegrid/internal/ui/reconcile"
	"github.com/bnema/tilegrid/internal/ui/render"
)

// Config holds the collaborators of a LayoutService.
type Config struct {
	Host   port.SurfaceHost
	Engine *render.Engine
	Frames port.FrameScheduler

	Layout      usecase.LayoutOptions
	Reconcile   reconcile.Options
	EditInsetPx int
	IDGenerator usecase.IDGenerator
}

// LayoutService owns one layout tree for the lifetime of a session. Every
// mutation goes through it; a single mutex makes it the one logical thread
// of the layout context. Host calls are made after the lock is released.
type LayoutService struct {
	host   port.SurfaceHost
	engine *render.Engine
	frames port.FrameScheduler
	poller *reconcile.Poller
	logger zerolog.Logger

	splitUC   *usecase.SplitTileUseCase
	deleteUC  *usecase.DeleteTileUseCase
	resizeUC  *usecase.ResizeBreakpointUseCase
	locatorUC *usecase.SetLocatorUseCase
	gen       usecase.IDGenerator

	mu        sync.Mutex
	tree      *entity.Tree
	area      entity.Rect
	committed map[entity.NodeID]entity.Rect
	editMode  bool
	editInset int
	drag      *dragState
	onChange  []func()
}

// NewLayoutService creates a service whose tree is a single empty tile.
func NewLayoutService(ctx context.Context, cfg Config) *LayoutService {
	if cfg.Engine == nil {
		cfg.Engine = render.NewEngine(ctx, render.DefaultOptions())
	}
	if cfg.Frames == nil {
		cfg.Frames = render.NewFrameTicker(render.DefaultFrameInterval)
	}
	gen := cfg.IDGenerator
	if gen == nil {
		gen = entity.NewNodeID
	}

	s := &LayoutService{
		host:      cfg.Host,
		engine:    cfg.Engine,
		frames:    cfg.Frames,
		poller:    reconcile.NewPoller(cfg.Host, cfg.Engine, cfg.Reconcile),
		logger:    logging.FromContext(ctx).With().Str("component", "layout-service").Logger(),
		splitUC:   usecase.NewSplitTileUseCase(gen, cfg.Layout),
		deleteUC:  usecase.NewDeleteTileUseCase(cfg.Host),
		resizeUC:  usecase.NewResizeBreakpointUseCase(cfg.Layout.MinShare),
		locatorUC: usecase.NewSetLocatorUseCase(cfg.Host),
		gen:       gen,
		committed: make(map[entity.NodeID]entity.Rect),
		editInset: cfg.EditInsetPx,
	}

	root := &entity.Node{ID: gen(), Kind: entity.KindTile}
	s.tree = entity.NewTree(root)
	s.tree.OnRootChanged(func(n *entity.Node) {
		s.logger.Debug().Str("root_id", string(n.ID)).Str("kind", n.Kind.String()).Msg("root changed")
	})
	s.poller.OnPlaceholder(s.setPlaceholder)
	s.poller.OnMissing(s.surfaceOptions)
	return s
}

// Poller exposes the reconciliation poller for teardown.
func (s *LayoutService) Poller() *reconcile.Poller {
	return s.poller
}

// Engine returns the render engine.
func (s *LayoutService) Engine() *render.Engine {
	return s.engine
}

// OnChange registers fn to run after every state change.
func (s *LayoutService) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

func (s *LayoutService) notify() {
	s.mu.Lock()
	hooks := append([]func(){}, s.onChange...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// Mount lays the tree out in area and creates the root surface.
func (s *LayoutService) Mount(ctx context.Context, area entity.Rect) error {
	s.mu.Lock()
	s.area = area
	s.relayout()
	root := s.tree.Root()
	var creates []surfaceCreate
	for _, tile := range s.tree.Tiles() {
		creates = append(creates, s.pendingCreate(tile))
	}
	s.mu.Unlock()

	for _, c := range creates {
		if err := s.createSurface(ctx, c); err != nil {
			return err
		}
	}
	s.logger.Info().Str("root_id", string(root.ID)).Str("area", area.String()).Msg("layout mounted")
	s.notify()
	return nil
}

type surfaceCreate struct {
	id   entity.NodeID
	opts entity.SurfaceOptions
}

func (s *LayoutService) pendingCreate(tile *entity.Node) surfaceCreate {
	rect, _ := s.engine.Measure(tile.ID)
	s.committed[tile.ID] = rect
	return surfaceCreate{id: tile.ID, opts: entity.SurfaceOptions{Locator: tile.Locator, Rect: rect}}
}

func (s *LayoutService) createSurface(ctx context.Context, c surfaceCreate) error {
	if s.host == nil {
		return nil
	}
	if err := s.host.CreateSurface(ctx, c.id, c.opts); err != nil {
		return fmt.Errorf("create surface %s: %w", c.id, err)
	}
	return nil
}

// SplitRequest describes a split gesture.
type SplitRequest struct {
	TileID    entity.NodeID
	Direction entity.Direction
	Pointer   *entity.Point
	Fraction  *float64
}

// Split splits a tile and creates the new tile's surface. It returns the
// new tile's id.
func (s *LayoutService) Split(ctx context.Context, req SplitRequest) (entity.NodeID, error) {
	s.mu.Lock()
	if s.drag != nil {
		s.mu.Unlock()
		return "", ErrDragActive
	}
	out, err := s.splitUC.Execute(ctx, usecase.SplitTileInput{
		Tree:      s.tree,
		TileID:    req.TileID,
		Direction: req.Direction,
		Fraction:  req.Fraction,
		Pointer:   req.Pointer,
	})
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	editing := s.editMode
	if editing {
		out.NewTile.Style.Inset = s.editInset
		out.NewTile.Static = true
	}
	s.relayout()
	create := s.pendingCreate(out.NewTile)
	commits := s.changedRects()
	s.mu.Unlock()

	if err := s.createSurface(ctx, create); err != nil {
		s.logger.Warn().Err(err).Str("tile_id", string(create.id)).Msg("surface creation failed, reconciling")
	} else if editing {
		s.hideSurfaces(ctx, []entity.NodeID{create.id})
	}
	s.commit(ctx, commits)
	s.reconcile(ctx, create.id)
	s.notify()
	return out.NewTile.ID, nil
}

// Delete removes a tile and destroys its surface.
func (s *LayoutService) Delete(ctx context.Context, id entity.NodeID) error {
	s.mu.Lock()
	if s.drag != nil {
		s.mu.Unlock()
		return ErrDragActive
	}
	if _, err := s.deleteUC.Execute(ctx, usecase.DeleteTileInput{Tree: s.tree, TileID: id}); err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.committed, id)
	s.relayout()
	commits := s.changedRects()
	s.mu.Unlock()

	s.poller.Stop(id)
	s.commit(ctx, commits)
	s.notify()
	return nil
}

// SetLocator provisions a tile with content.
func (s *LayoutService) SetLocator(ctx context.Context, id entity.NodeID, locator string) error {
	s.mu.Lock()
	err := s.locatorUC.Execute(ctx, usecase.SetLocatorInput{Tree: s.tree, TileID: id, Locator: locator})
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// ResizeBreakpoint moves breakpoint index of a container to fraction.
func (s *LayoutService) ResizeBreakpoint(ctx context.Context, containerID entity.NodeID, index int, fraction float64) (float64, error) {
	s.mu.Lock()
	if s.drag != nil {
		s.mu.Unlock()
		return 0, ErrDragActive
	}
	applied, err := s.resizeUC.Execute(ctx, usecase.ResizeBreakpointInput{
		Tree:        s.tree,
		ContainerID: containerID,
		Index:       index,
		Fraction:    fraction,
	})
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.relayout()
	commits := s.changedRects()
	s.mu.Unlock()

	s.commit(ctx, commits)
	s.notify()
	return applied, nil
}

// Nudge moves the divider next to a tile by step.
func (s *LayoutService) Nudge(ctx context.Context, id entity.NodeID, dir entity.Direction, step float64) error {
	s.mu.Lock()
	if s.drag != nil {
		s.mu.Unlock()
		return ErrDragActive
	}
	_, err := s.resizeUC.Nudge(ctx, usecase.NudgeInput{Tree: s.tree, TileID: id, Direction: dir, Step: step})
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, usecase.ErrNothingToResize) {
			return nil
		}
		return err
	}
	s.relayout()
	commits := s.changedRects()
	s.mu.Unlock()

	s.commit(ctx, commits)
	s.notify()
	return nil
}

// GeometryChanged relays a new workspace area, e.g. a window resize.
func (s *LayoutService) GeometryChanged(ctx context.Context, area entity.Rect) {
	s.mu.Lock()
	if area == s.area {
		s.mu.Unlock()
		return
	}
	s.area = area
	s.relayout()
	commits := s.changedRects()
	dragging := s.drag != nil
	s.mu.Unlock()

	if !dragging {
		s.commit(ctx, commits)
	}
	s.notify()
}

// DisplayMetricsChanged relays the work area of new display metrics.
func (s *LayoutService) DisplayMetricsChanged(ctx context.Context, m entity.DisplayMetrics) {
	s.logger.Debug().
		Str("work_area", m.WorkArea.String()).
		Float64("scale", m.ScaleFactor).
		Msg("display metrics changed")
	s.GeometryChanged(ctx, m.WorkArea)
}

// SetEditMode insets every tile for edit chrome and moves every surface
// into the holding area. Leaving edit mode restores the surfaces and
// reconciles their bounds, unless a drag still holds them.
func (s *LayoutService) SetEditMode(ctx context.Context, on bool) {
	s.mu.Lock()
	if s.editMode == on {
		s.mu.Unlock()
		return
	}
	s.editMode = on
	dragging := s.drag != nil
	inset := 0
	if on {
		inset = s.editInset
	}
	tiles := s.tree.Tiles()
	ids := make([]entity.NodeID, 0, len(tiles))
	for _, tile := range tiles {
		tile.Style.Inset = inset
		tile.Static = on || dragging
		ids = append(ids, tile.ID)
	}
	s.relayout()
	var commits []rectCommit
	switch {
	case on:
		commits = s.changedRects()
	case !dragging:
		commits = s.allRects()
	}
	s.mu.Unlock()

	s.logger.Debug().Bool("edit_mode", on).Msg("edit mode toggled")
	if on {
		s.poller.StopAll()
		s.hideSurfaces(ctx, ids)
	} else if !dragging {
		s.unhideSurfaces(ctx, ids)
	}
	s.commit(ctx, commits)
	s.notify()
}

func (s *LayoutService) hideSurfaces(ctx context.Context, ids []entity.NodeID) {
	if s.host == nil {
		return
	}
	for _, id := range ids {
		if err := s.host.HideSurface(ctx, id); err != nil {
			s.logger.Debug().Err(err).Str("tile_id", string(id)).Msg("hide not sent")
		}
	}
}

func (s *LayoutService) unhideSurfaces(ctx context.Context, ids []entity.NodeID) {
	if s.host == nil {
		return
	}
	for _, id := range ids {
		if err := s.host.UnhideSurface(ctx, id); err != nil {
			s.logger.Debug().Err(err).Str("tile_id", string(id)).Msg("unhide not sent")
		}
	}
}

// Options are the tunables that may change while a session runs.
type Options struct {
	Layout      usecase.LayoutOptions
	Render      render.Options
	Reconcile   reconcile.Options
	EditInsetPx int
}

// SetOptions swaps the tunables and relays out the tree with them.
func (s *LayoutService) SetOptions(ctx context.Context, opts Options) {
	s.engine.SetOptions(opts.Render)
	s.poller.SetOptions(opts.Reconcile)

	s.mu.Lock()
	s.splitUC = usecase.NewSplitTileUseCase(s.gen, opts.Layout)
	s.resizeUC = usecase.NewResizeBreakpointUseCase(opts.Layout.MinShare)
	s.editInset = opts.EditInsetPx
	if s.editMode {
		for _, tile := range s.tree.Tiles() {
			tile.Style.Inset = s.editInset
		}
	}
	s.relayout()
	commits := s.changedRects()
	dragging := s.drag != nil
	s.mu.Unlock()

	s.logger.Debug().
		Int("divider_px", opts.Render.DividerPx).
		Float64("min_share", opts.Layout.MinShare).
		Msg("layout options updated")
	if !dragging {
		s.commit(ctx, commits)
	}
	s.notify()
}

// EditMode reports whether edit mode is on.
func (s *LayoutService) EditMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editMode
}

// relayout runs the render pass and records each tile's measured anchor.
// Caller holds mu.
func (s *LayoutService) relayout() {
	s.engine.Layout(s.tree.Root(), s.area)
	for _, tile := range s.tree.Tiles() {
		if rect, ok := s.engine.Measure(tile.ID); ok {
			tile.Anchor = &rect
		}
	}
}

type rectCommit struct {
	id   entity.NodeID
	rect entity.Rect
}

// changedRects returns tiles whose measured rect differs from the last
// commit and records the new values. Caller holds mu.
func (s *LayoutService) changedRects() []rectCommit {
	var out []rectCommit
	for _, tile := range s.tree.Tiles() {
		rect, ok := s.engine.Measure(tile.ID)
		if !ok {
			continue
		}
		if prev, seen := s.committed[tile.ID]; seen && prev == rect {
			continue
		}
		s.committed[tile.ID] = rect
		out = append(out, rectCommit{id: tile.ID, rect: rect})
	}
	return out
}

// allRects returns every tile's measured rect. Caller holds mu.
func (s *LayoutService) allRects() []rectCommit {
	out := make([]rectCommit, 0, s.tree.TileCount())
	for _, tile := range s.tree.Tiles() {
		if rect, ok := s.engine.Measure(tile.ID); ok {
			s.committed[tile.ID] = rect
			out = append(out, rectCommit{id: tile.ID, rect: rect})
		}
	}
	return out
}

// commit pushes rects to the host and starts reconciling each tile.
func (s *LayoutService) commit(ctx context.Context, commits []rectCommit) {
	if s.host == nil {
		return
	}
	for _, c := range commits {
		if err := s.host.SetSurfaceRect(ctx, c.id, c.rect); err != nil {
			s.logger.Debug().Err(err).Str("tile_id", string(c.id)).Msg("rect commit not sent")
		}
		s.reconcile(ctx, c.id)
	}
}

// reconcile starts verifying the host-committed bounds of id.
func (s *LayoutService) reconcile(ctx context.Context, id entity.NodeID) {
	if s.host != nil {
		s.poller.Start(ctx, id)
	}
}

func (s *LayoutService) setPlaceholder(id entity.NodeID, frame []byte) {
	s.mu.Lock()
	tile, ok := s.tree.Tile(id)
	if ok {
		tile.Placeholder = frame
	}
	s.mu.Unlock()
	if ok {
		s.notify()
	}
}

// surfaceOptions describes the surface a tile still in the tree should have.
func (s *LayoutService) surfaceOptions(id entity.NodeID) (entity.SurfaceOptions, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tile, ok := s.tree.Tile(id)
	if !ok {
		return entity.SurfaceOptions{}, false
	}
	return entity.SurfaceOptions{Locator: tile.Locator}, true
}

// Close stops every reconciliation timer.
func (s *LayoutService) Close() {
	s.poller.StopAll()
}
