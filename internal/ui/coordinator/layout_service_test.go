package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tilegrid/internal/application/usecase"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/infrastructure/surface"
	"github.com/bnema/tilegrid/internal/ui/reconcile"
	"github.com/bnema/tilegrid/internal/ui/render"
)

// localHost applies surface commands directly to a registry.
type localHost struct {
	reg *surface.Registry

	mu          sync.Mutex
	dropRects   int
	failCreates int
}

func (h *localHost) CreateSurface(ctx context.Context, id entity.NodeID, opts entity.SurfaceOptions) error {
	h.mu.Lock()
	if h.failCreates > 0 {
		h.failCreates--
		h.mu.Unlock()
		return errors.New("host unreachable")
	}
	h.mu.Unlock()
	err := h.reg.Create(ctx, id, opts)
	if errors.Is(err, surface.ErrSurfaceExists) {
		return nil
	}
	return err
}

func (h *localHost) SetSurfaceRect(ctx context.Context, id entity.NodeID, rect entity.Rect) error {
	h.mu.Lock()
	if h.dropRects > 0 {
		h.dropRects--
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()
	_ = h.reg.SetRect(ctx, id, rect.Raw())
	return nil
}

func (h *localHost) SetSurfaceLocator(ctx context.Context, id entity.NodeID, locator string) error {
	return h.reg.SetLocator(ctx, id, locator)
}

func (h *localHost) DeleteSurface(ctx context.Context, id entity.NodeID) error {
	return h.reg.Delete(ctx, id)
}

func (h *localHost) HideSurface(ctx context.Context, id entity.NodeID) error {
	return h.reg.Hide(ctx, id)
}

func (h *localHost) UnhideSurface(ctx context.Context, id entity.NodeID) error {
	return h.reg.Unhide(ctx, id)
}

func (h *localHost) GetSurfaceSnapshot(_ context.Context) (entity.SurfaceSnapshot, error) {
	return h.reg.Snapshot(), nil
}

func (h *localHost) CaptureSurfaceFrame(ctx context.Context, id entity.NodeID, rect entity.Rect) ([]byte, error) {
	return h.reg.Capture(ctx, id, rect)
}

type fixture struct {
	svc    *LayoutService
	drag   *DragController
	host   *localHost
	frames *render.ManualScheduler
}

func seqIDs() usecase.IDGenerator {
	n := 0
	return func() entity.NodeID {
		n++
		return entity.NodeID(fmt.Sprintf("n%d", n))
	}
}

func newFixture(t *testing.T, area entity.Rect) *fixture {
	t.Helper()
	ctx := context.Background()
	host := &localHost{reg: surface.NewRegistry(surface.NewHeadlessBackend())}
	frames := render.NewManualScheduler()

	svc := NewLayoutService(ctx, Config{
		Host:        host,
		Engine:      render.NewEngine(ctx, render.Options{}),
		Frames:      frames,
		Layout:      usecase.DefaultLayoutOptions(),
		Reconcile:   reconcile.Options{Interval: time.Millisecond, MaxTicks: 50},
		EditInsetPx: 5,
		IDGenerator: seqIDs(),
	})
	t.Cleanup(svc.Close)
	require.NoError(t, svc.Mount(ctx, area))

	return &fixture{svc: svc, drag: NewDragController(svc), host: host, frames: frames}
}

func (f *fixture) committed(t *testing.T, id entity.NodeID) entity.Rect {
	t.Helper()
	state, ok := f.host.reg.Snapshot()[id]
	require.True(t, ok, "no surface for %s", id)
	return state.Rect
}

func half() *float64 {
	v := 0.5
	return &v
}

func TestLayoutService_MountCreatesRootSurface(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 100, H: 50})

	assert.Equal(t, entity.NodeID("n1"), f.svc.RootID())
	assert.Equal(t, entity.Rect{W: 100, H: 50}, f.committed(t, "n1"))
}

func TestLayoutService_SplitCommitsBothTiles(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 100, H: 50})
	ctx := context.Background()

	id, err := f.svc.Split(ctx, SplitRequest{TileID: "n1", Direction: entity.DirectionRight, Fraction: half()})
	require.NoError(t, err)
	assert.Equal(t, entity.NodeID("n2"), id)

	tree := f.svc.Describe()
	assert.Equal(t, "row", tree.Kind)
	assert.Equal(t, []float64{0.5}, tree.Breakpoints)
	require.NoError(t, f.svc.Validate())

	assert.Equal(t, entity.Rect{X: 0, W: 50, H: 50}, f.committed(t, "n1"))
	assert.Equal(t, entity.Rect{X: 50, W: 50, H: 50}, f.committed(t, "n2"))
}

func TestLayoutService_SplitUsesPointerAgainstMeasuredAnchor(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 200, H: 100})

	_, err := f.svc.Split(context.Background(), SplitRequest{
		TileID:    "n1",
		Direction: entity.DirectionDown,
		Pointer:   &entity.Point{X: 10, Y: 25},
	})
	require.NoError(t, err)

	tree := f.svc.Describe()
	assert.Equal(t, "column", tree.Kind)
	require.Len(t, tree.Breakpoints, 1)
	assert.InDelta(t, 0.25, tree.Breakpoints[0], 1e-9)
}

func TestLayoutService_SplitUnknownTileLeavesTreeUnchanged(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 100, H: 50})
	before := f.svc.Describe()

	_, err := f.svc.Split(context.Background(), SplitRequest{TileID: "nope", Direction: entity.DirectionLeft})

	require.ErrorIs(t, err, entity.ErrTileNotFound)
	assert.Equal(t, before, f.svc.Describe())
}

func TestLayoutService_DeleteRestoresSurvivor(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 100, H: 50})
	ctx := context.Background()
	_, err := f.svc.Split(ctx, SplitRequest{TileID: "n1", Direction: entity.DirectionRight, Fraction: half()})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, "n2"))

	assert.Equal(t, entity.NodeID("n1"), f.svc.RootID())
	assert.Equal(t, entity.Rect{W: 100, H: 50}, f.committed(t, "n1"))
	_, ok := f.host.reg.Snapshot()["n2"]
	assert.False(t, ok)
	assert.False(t, f.svc.Poller().Active("n2"))

	err = f.svc.Delete(ctx, "n1")
	require.ErrorIs(t, err, usecase.ErrLastTile)
}

func TestLayoutService_SetLocator(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 100, H: 50})

	require.NoError(t, f.svc.SetLocator(context.Background(), "n1", "https://example.com"))

	assert.Equal(t, "https://example.com", f.host.reg.Snapshot()["n1"].Locator)
	assert.Equal(t, "https://example.com", f.svc.Tiles()[0].Locator)
}

func TestLayoutService_EditModeInsetsTiles(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 100, H: 50})
	ctx := context.Background()
	require.NoError(t, f.svc.SetLocator(ctx, "n1", "docs"))

	f.svc.SetEditMode(ctx, true)
	assert.True(t, f.svc.EditMode())
	assert.Equal(t, entity.Rect{X: 5, Y: 5, W: 90, H: 40}, f.committed(t, "n1"))
	rec, _ := f.host.reg.Record("n1")
	assert.False(t, rec.Visible)
	assert.True(t, rec.HiddenForEdit)
	assert.True(t, f.svc.Tiles()[0].Static)

	// Tiles created during edit mode get the inset and stay held too.
	id, err := f.svc.Split(ctx, SplitRequest{TileID: "n1", Direction: entity.DirectionRight, Fraction: half()})
	require.NoError(t, err)
	require.NoError(t, f.svc.SetLocator(ctx, id, "logs"))
	assert.Equal(t, entity.Rect{X: 55, Y: 5, W: 40, H: 40}, f.committed(t, id))
	rec, _ = f.host.reg.Record(id)
	assert.False(t, rec.Visible)

	f.svc.SetEditMode(ctx, false)
	assert.Equal(t, entity.Rect{X: 0, W: 50, H: 50}, f.committed(t, "n1"))
	for _, tile := range f.svc.Tiles() {
		assert.False(t, tile.Static, tile.ID)
		rec, _ := f.host.reg.Record(tile.ID)
		assert.True(t, rec.Visible, tile.ID)
		assert.False(t, rec.HiddenForEdit, tile.ID)
	}
	require.Eventually(t, func() bool {
		return !f.svc.Poller().Active("n1") && !f.svc.Poller().Active(id)
	}, time.Second, time.Millisecond)
}

func TestLayoutService_DragEndKeepsEditModeSurfacesHeld(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 100, H: 50})
	ctx := context.Background()
	require.NoError(t, f.svc.SetLocator(ctx, "n1", "docs"))
	_, err := f.svc.Split(ctx, SplitRequest{TileID: "n1", Direction: entity.DirectionRight, Fraction: half()})
	require.NoError(t, err)

	f.svc.SetEditMode(ctx, true)
	require.NoError(t, f.drag.Begin(ctx, f.svc.RootID(), 0))
	require.NoError(t, f.drag.End(ctx))

	rec, _ := f.host.reg.Record("n1")
	assert.False(t, rec.Visible)
	assert.True(t, f.svc.Tiles()[0].Static)

	f.svc.SetEditMode(ctx, false)
	rec, _ = f.host.reg.Record("n1")
	assert.True(t, rec.Visible)
}

func TestLayoutService_GeometryChanged(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 100, H: 50})

	f.svc.DisplayMetricsChanged(context.Background(), entity.DisplayMetrics{
		Bounds:      entity.Rect{W: 300, H: 100},
		WorkArea:    entity.Rect{Y: 20, W: 300, H: 80},
		ScaleFactor: 1,
	})

	assert.Equal(t, entity.Rect{Y: 20, W: 300, H: 80}, f.committed(t, "n1"))
}

func TestLayoutService_ReconcilesLostCommit(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 100, H: 50})
	f.host.mu.Lock()
	f.host.dropRects = 1
	f.host.mu.Unlock()

	f.svc.GeometryChanged(context.Background(), entity.Rect{W: 200, H: 50})

	require.Eventually(t, func() bool {
		return f.host.reg.Snapshot()["n1"].Rect == entity.Rect{W: 200, H: 50}
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return !f.svc.Poller().Active("n1") }, time.Second, time.Millisecond)
}

func TestLayoutService_RecreatesSurfaceAfterFailedCreate(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 100, H: 50})
	ctx := context.Background()
	require.NoError(t, f.svc.SetLocator(ctx, "n1", "docs"))
	f.host.mu.Lock()
	f.host.failCreates = 1
	f.host.mu.Unlock()

	id, err := f.svc.Split(ctx, SplitRequest{TileID: "n1", Direction: entity.DirectionRight, Fraction: half()})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		state, ok := f.host.reg.Snapshot()[id]
		return ok && state.Rect == entity.Rect{X: 50, W: 50, H: 50}
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return !f.svc.Poller().Active(id) }, time.Second, time.Millisecond)
}

func TestLayoutService_NudgeAndResize(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 100, H: 50})
	ctx := context.Background()
	_, err := f.svc.Split(ctx, SplitRequest{TileID: "n1", Direction: entity.DirectionRight, Fraction: half()})
	require.NoError(t, err)

	require.NoError(t, f.svc.Nudge(ctx, "n1", entity.DirectionRight, 0.1))
	assert.InDelta(t, 0.6, f.svc.Describe().Breakpoints[0], 1e-9)
	assert.Equal(t, 60, f.committed(t, "n1").W)

	// No vertical ancestor: nothing to do.
	require.NoError(t, f.svc.Nudge(ctx, "n1", entity.DirectionDown, 0.1))

	applied, err := f.svc.ResizeBreakpoint(ctx, "n3", 0, 0.99)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, applied, 1e-9)
}

func TestLayoutService_Neighbor(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 100, H: 50})
	ctx := context.Background()
	id, err := f.svc.Split(ctx, SplitRequest{TileID: "n1", Direction: entity.DirectionRight, Fraction: half()})
	require.NoError(t, err)

	got, ok := f.svc.Neighbor(ctx, "n1", entity.DirectionRight)
	require.True(t, ok)
	assert.Equal(t, id, got)

	got, ok = f.svc.TileAt(entity.Point{X: 10, Y: 10})
	require.True(t, ok)
	assert.Equal(t, entity.NodeID("n1"), got)
}

func TestLayoutService_SetOptionsRelayouts(t *testing.T) {
	f := newFixture(t, entity.Rect{W: 104, H: 50})
	ctx := context.Background()
	_, err := f.svc.Split(ctx, SplitRequest{TileID: "n1", Direction: entity.DirectionRight, Fraction: half()})
	require.NoError(t, err)
	f.svc.SetEditMode(ctx, true)

	f.svc.SetOptions(ctx, Options{
		Layout:      usecase.DefaultLayoutOptions(),
		Render:      render.Options{DividerPx: 4},
		Reconcile:   reconcile.Options{Interval: time.Millisecond, MaxTicks: 50},
		EditInsetPx: 2,
	})

	assert.Equal(t, entity.Rect{X: 2, Y: 2, W: 46, H: 46}, f.committed(t, "n1"))
	assert.Equal(t, entity.Rect{X: 56, Y: 2, W: 46, H: 46}, f.committed(t, "n2"))
}
