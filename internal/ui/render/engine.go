// Package render is the measured layout pass. It turns the weight
// projection of a tree into integer rectangles the way a box-model engine
// would: dividers take space, cells have a minimum size, and rounding
// remainders are handed out one pixel at a time.
package render

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/tilegrid/internal/application/port"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/domain/projection"
	"github.com/bnema/tilegrid/internal/logging"
)

var _ port.LayoutEngine = (*Engine)(nil)

// Options tune the box model.
type Options struct {
	// DividerPx is the thickness of the drag handle between siblings.
	DividerPx int
	// MinTilePx is the smallest extent a child gets along its parent's
	// axis when there is room for it.
	MinTilePx int
}

// DefaultOptions returns the stock box model.
func DefaultOptions() Options {
	return Options{DividerPx: 4, MinTilePx: 24}
}

// Handle is the divider between child Index and child Index+1 of a container.
type Handle struct {
	ContainerID entity.NodeID `json:"containerId"`
	Index       int           `json:"index"`
	Axis        entity.Axis   `json:"axis"`
	Rect        entity.Rect   `json:"rect"`
}

// Engine runs layout passes and remembers what it measured.
type Engine struct {
	opts   Options
	logger zerolog.Logger

	mu       sync.RWMutex
	area     entity.Rect
	measured map[entity.NodeID]entity.Rect
	handles  []Handle
}

// NewEngine creates a layout engine.
func NewEngine(ctx context.Context, opts Options) *Engine {
	return &Engine{
		opts:     opts.normalized(),
		logger:   logging.FromContext(ctx).With().Str("component", "render-engine").Logger(),
		measured: make(map[entity.NodeID]entity.Rect),
	}
}

// SetOptions replaces the box model used by the next pass.
func (e *Engine) SetOptions(opts Options) {
	e.mu.Lock()
	e.opts = opts.normalized()
	e.mu.Unlock()
}

func (o Options) normalized() Options {
	o.DividerPx = max(o.DividerPx, 0)
	o.MinTilePx = max(o.MinTilePx, 0)
	return o
}

// Layout measures every node under root inside area.
func (e *Engine) Layout(root *entity.Node, area entity.Rect) {
	weights := projection.Weights(root)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.area = area
	e.measured = make(map[entity.NodeID]entity.Rect, len(weights))
	e.handles = e.handles[:0]
	if root == nil {
		return
	}
	e.place(root, area, weights)

	e.logger.Trace().
		Str("area", area.String()).
		Int("nodes", len(e.measured)).
		Msg("layout pass complete")
}

func (e *Engine) place(n *entity.Node, area entity.Rect, weights map[entity.NodeID]projection.Weight) {
	switch n.Kind {
	case entity.KindTile:
		e.measured[n.ID] = area.Inset(n.Style.Inset)
	case entity.KindRow, entity.KindColumn:
		e.measured[n.ID] = area
		axis := n.Axis()
		shares := make([]float64, len(n.Children))
		for i, c := range n.Children {
			shares[i] = weights[c.ID].Main
		}

		sizes := e.distribute(area.Extent(axis), shares)
		offset := 0
		for i, c := range n.Children {
			e.place(c, projection.Slice(area, axis, offset, sizes[i]), weights)
			offset += sizes[i]
			if i < len(n.Children)-1 {
				e.handles = append(e.handles, Handle{
					ContainerID: n.ID,
					Index:       i,
					Axis:        axis,
					Rect:        projection.Slice(area, axis, offset, e.opts.DividerPx),
				})
				offset += e.opts.DividerPx
			}
		}
	}
}

// distribute splits extent minus dividers between children proportionally
// to shares using largest-remainder rounding, then raises undersized
// children to MinTilePx by borrowing from the largest ones.
func (e *Engine) distribute(extent int, shares []float64) []int {
	n := len(shares)
	if n == 0 {
		return nil
	}
	avail := extent - (n-1)*e.opts.DividerPx
	if avail < 0 {
		avail = 0
	}

	sizes := make([]int, n)
	type rem struct {
		i int
		r float64
	}
	rems := make([]rem, n)
	used := 0
	for i, s := range shares {
		exact := s * float64(avail)
		sizes[i] = int(math.Floor(exact))
		used += sizes[i]
		rems[i] = rem{i: i, r: exact - float64(sizes[i])}
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].r > rems[b].r })
	for k := 0; used < avail; k = (k + 1) % n {
		sizes[rems[k].i]++
		used++
	}

	minPx := e.opts.MinTilePx
	if minPx <= 0 || avail < n*minPx {
		return sizes
	}
	for i := range sizes {
		for sizes[i] < minPx {
			donor := largest(sizes)
			if sizes[donor] <= minPx {
				break
			}
			take := min(minPx-sizes[i], sizes[donor]-minPx)
			sizes[donor] -= take
			sizes[i] += take
		}
	}
	return sizes
}

func largest(sizes []int) int {
	best := 0
	for i, s := range sizes {
		if s > sizes[best] {
			best = i
		}
	}
	return best
}

// Measure returns the rect produced by the last pass.
func (e *Engine) Measure(id entity.NodeID) (entity.Rect, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.measured[id]
	return r, ok
}

// Area returns the area of the last pass.
func (e *Engine) Area() entity.Rect {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.area
}

// Handles returns the dividers of the last pass in document order.
func (e *Engine) Handles() []Handle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Handle(nil), e.handles...)
}

// HandleAt returns the divider under p. Thin dividers are given a couple of
// pixels of slop on each side.
func (e *Engine) HandleAt(p entity.Point) (Handle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, h := range e.handles {
		hit := h.Rect
		if h.Axis == entity.AxisHorizontal {
			hit.X -= 2
			hit.W += 4
		} else {
			hit.Y -= 2
			hit.H += 4
		}
		if hit.Contains(p) {
			return h, true
		}
	}
	return Handle{}, false
}
