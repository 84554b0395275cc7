package render

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tilegrid/internal/domain/entity"
)

func tile(id string) *entity.Node {
	return &entity.Node{ID: entity.NodeID(id), Kind: entity.KindTile}
}

func container(id string, kind entity.NodeKind, bps []float64, children ...*entity.Node) *entity.Node {
	n := &entity.Node{ID: entity.NodeID(id), Kind: kind, Children: children, Breakpoints: bps}
	for _, c := range children {
		c.Parent = n
	}
	return n
}

func measure(t *testing.T, e *Engine, id string) entity.Rect {
	t.Helper()
	r, ok := e.Measure(entity.NodeID(id))
	require.True(t, ok, "node %s not measured", id)
	return r
}

func TestEngine_DividerTakesSpace(t *testing.T) {
	e := NewEngine(context.Background(), Options{DividerPx: 4})
	root := container("R", entity.KindRow, []float64{0.5}, tile("a"), tile("b"))

	e.Layout(root, entity.Rect{W: 100, H: 50})

	assert.Equal(t, entity.Rect{X: 0, W: 48, H: 50}, measure(t, e, "a"))
	assert.Equal(t, entity.Rect{X: 52, W: 48, H: 50}, measure(t, e, "b"))
	assert.Equal(t, entity.Rect{W: 100, H: 50}, measure(t, e, "R"))

	handles := e.Handles()
	require.Len(t, handles, 1)
	assert.Equal(t, Handle{
		ContainerID: "R",
		Index:       0,
		Axis:        entity.AxisHorizontal,
		Rect:        entity.Rect{X: 48, W: 4, H: 50},
	}, handles[0])
}

func TestEngine_SetOptionsClampsNegatives(t *testing.T) {
	e := NewEngine(context.Background(), Options{DividerPx: 4})
	e.SetOptions(Options{DividerPx: -6, MinTilePx: -1})
	root := container("R", entity.KindRow, []float64{0.5}, tile("a"), tile("b"))

	e.Layout(root, entity.Rect{W: 100, H: 50})

	a, b := measure(t, e, "a"), measure(t, e, "b")
	assert.Equal(t, entity.Rect{X: 0, W: 50, H: 50}, a)
	assert.Equal(t, entity.Rect{X: 50, W: 50, H: 50}, b)
}

func TestEngine_RemainderRounding(t *testing.T) {
	e := NewEngine(context.Background(), Options{})
	root := container("C", entity.KindColumn, []float64{1.0 / 3, 2.0 / 3}, tile("a"), tile("b"), tile("c"))

	e.Layout(root, entity.Rect{X: 10, Y: 10, W: 80, H: 100})

	a, b, c := measure(t, e, "a"), measure(t, e, "b"), measure(t, e, "c")
	assert.Equal(t, 100, a.H+b.H+c.H)
	assert.Equal(t, a.Y+a.H, b.Y)
	assert.Equal(t, b.Y+b.H, c.Y)
	assert.Equal(t, 10, a.Y)
	assert.Equal(t, 80, c.W)
}

func TestEngine_MinTileSize(t *testing.T) {
	e := NewEngine(context.Background(), Options{MinTilePx: 24})
	root := container("R", entity.KindRow, []float64{0.05}, tile("a"), tile("b"))

	e.Layout(root, entity.Rect{W: 200, H: 10})

	assert.Equal(t, 24, measure(t, e, "a").W)
	assert.Equal(t, 176, measure(t, e, "b").W)
}

func TestEngine_MinTileSizeIgnoredWhenNoRoom(t *testing.T) {
	e := NewEngine(context.Background(), Options{MinTilePx: 24})
	root := container("R", entity.KindRow, []float64{0.25}, tile("a"), tile("b"))

	e.Layout(root, entity.Rect{W: 40, H: 10})

	assert.Equal(t, 10, measure(t, e, "a").W)
	assert.Equal(t, 30, measure(t, e, "b").W)
}

func TestEngine_TileInset(t *testing.T) {
	e := NewEngine(context.Background(), Options{})
	a := tile("a")
	a.Style.Inset = 5
	root := container("R", entity.KindRow, []float64{0.5}, a, tile("b"))

	e.Layout(root, entity.Rect{W: 100, H: 50})

	assert.Equal(t, entity.Rect{X: 5, Y: 5, W: 40, H: 40}, measure(t, e, "a"))
}

func TestEngine_NestedAndHandleAt(t *testing.T) {
	e := NewEngine(context.Background(), Options{DividerPx: 2})
	col := container("C", entity.KindColumn, []float64{0.5}, tile("b"), tile("c"))
	root := container("R", entity.KindRow, []float64{0.5}, tile("a"), col)

	e.Layout(root, entity.Rect{W: 102, H: 102})

	assert.Equal(t, entity.Rect{X: 52, Y: 0, W: 50, H: 50}, measure(t, e, "b"))
	assert.Equal(t, entity.Rect{X: 52, Y: 52, W: 50, H: 50}, measure(t, e, "c"))

	h, ok := e.HandleAt(entity.Point{X: 51, Y: 20})
	require.True(t, ok)
	assert.Equal(t, entity.NodeID("R"), h.ContainerID)

	h, ok = e.HandleAt(entity.Point{X: 80, Y: 50})
	require.True(t, ok)
	assert.Equal(t, entity.NodeID("C"), h.ContainerID)

	_, ok = e.HandleAt(entity.Point{X: 20, Y: 20})
	assert.False(t, ok)
}

func TestEngine_RelayoutForgetsRemovedNodes(t *testing.T) {
	e := NewEngine(context.Background(), Options{})
	e.Layout(container("R", entity.KindRow, []float64{0.5}, tile("a"), tile("b")), entity.Rect{W: 10, H: 10})
	e.Layout(tile("a"), entity.Rect{W: 10, H: 10})

	_, ok := e.Measure("b")
	assert.False(t, ok)
	assert.Empty(t, e.Handles())
}

func TestManualScheduler_Coalesces(t *testing.T) {
	s := NewManualScheduler()
	var last int
	for i := 1; i <= 3; i++ {
		s.RequestFrame(func() { last = i })
	}

	assert.True(t, s.Pending())
	assert.True(t, s.Flush())
	assert.Equal(t, 3, last)
	assert.False(t, s.Flush())
}

func TestFrameTicker_Coalesces(t *testing.T) {
	ticker := NewFrameTicker(5 * time.Millisecond)
	var calls, last atomic.Int32
	for i := int32(1); i <= 5; i++ {
		ticker.RequestFrame(func() {
			calls.Add(1)
			last.Store(i)
		})
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(5), last.Load())
}
