// Package projection converts a layout tree into relative weights for the
// render pass and into analytic pixel rectangles.
//
// Weights drive rendering. The rectangles computed here are an arithmetic
// estimate only: what gets committed to the host is the geometry measured
// after the render pass, because the render engine's box model and rounding
// need not match this projection.
package projection

import (
	"math"

	"github.com/bnema/tilegrid/internal/domain/entity"
)

// Weight is a node's relative size inside its parent container.
type Weight struct {
	// Axis is the parent's main axis. The root reports horizontal.
	Axis entity.Axis
	// Main is the share along the parent's main axis (breakpoint delta).
	Main float64
	// Cross is the share along the cross axis; always the full extent.
	Cross float64
}

// Weights returns the weight of every node under root. The root itself
// occupies the whole available area.
func Weights(root *entity.Node) map[entity.NodeID]Weight {
	out := make(map[entity.NodeID]Weight)
	if root == nil {
		return out
	}
	out[root.ID] = Weight{Axis: entity.AxisHorizontal, Main: 1, Cross: 1}
	collectWeights(root, out)
	return out
}

func collectWeights(n *entity.Node, out map[entity.NodeID]Weight) {
	switch n.Kind {
	case entity.KindTile:
		return
	case entity.KindRow, entity.KindColumn:
		axis := n.Axis()
		for i, child := range n.Children {
			out[child.ID] = Weight{Axis: axis, Main: n.Share(i), Cross: 1}
			collectWeights(child, out)
		}
	}
}

// Shares converts cumulative breakpoints into per-child shares.
func Shares(breakpoints []float64) []float64 {
	shares := make([]float64, 0, len(breakpoints)+1)
	prev := 0.0
	for _, bp := range breakpoints {
		shares = append(shares, bp-prev)
		prev = bp
	}
	return append(shares, 1-prev)
}

// Breakpoints converts per-child shares back into cumulative breakpoints.
// Shares are normalized by their sum, so pixel extents can be passed as is.
func Breakpoints(shares []float64) []float64 {
	if len(shares) < 2 {
		return nil
	}
	total := 0.0
	for _, s := range shares {
		total += s
	}
	if total <= 0 {
		return nil
	}
	bps := make([]float64, 0, len(shares)-1)
	acc := 0.0
	for _, s := range shares[:len(shares)-1] {
		acc += s
		bps = append(bps, acc/total)
	}
	return bps
}

// Rects projects every node under root onto area. Edges are rounded from
// the cumulative breakpoints so siblings tile the parent without gaps.
func Rects(root *entity.Node, area entity.Rect) map[entity.NodeID]entity.Rect {
	out := make(map[entity.NodeID]entity.Rect)
	if root == nil {
		return out
	}
	project(root, area, out)
	return out
}

func project(n *entity.Node, area entity.Rect, out map[entity.NodeID]entity.Rect) {
	out[n.ID] = area
	switch n.Kind {
	case entity.KindTile:
		return
	case entity.KindRow, entity.KindColumn:
		axis := n.Axis()
		extent := area.Extent(axis)
		for i, child := range n.Children {
			lo, hi := n.Interval(i)
			start := edge(lo, extent)
			end := edge(hi, extent)
			project(child, Slice(area, axis, start, end-start), out)
		}
	}
}

// Slice returns the part of area starting at offset along axis with the
// given length, spanning the full cross extent.
func Slice(area entity.Rect, axis entity.Axis, offset, length int) entity.Rect {
	if axis == entity.AxisHorizontal {
		return entity.Rect{X: area.X + offset, Y: area.Y, W: length, H: area.H}
	}
	return entity.Rect{X: area.X, Y: area.Y + offset, W: area.W, H: length}
}

func edge(fraction float64, extent int) int {
	return int(math.Round(fraction * float64(extent)))
}

// Fraction returns where p falls inside r along axis, in [0,1].
// ok is false when r has no extent on that axis.
func Fraction(r entity.Rect, p entity.Point, axis entity.Axis) (f float64, ok bool) {
	var offset, extent float64
	if axis == entity.AxisHorizontal {
		offset, extent = p.X-float64(r.X), float64(r.W)
	} else {
		offset, extent = p.Y-float64(r.Y), float64(r.H)
	}
	if extent <= 0 {
		return 0, false
	}
	return math.Min(1, math.Max(0, offset/extent)), true
}
