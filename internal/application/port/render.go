package port

import (
	"github.com/bnema/tilegrid/internal/domain/entity"
)

// LayoutEngine runs the render pass. It consumes the weight projection of a
// tree and reports the geometry it actually produced; measured rects are
// the ground truth committed to the host.
type LayoutEngine interface {
	// Layout lays out the subtree under root inside area.
	Layout(root *entity.Node, area entity.Rect)
	// Measure returns the last measured rect of a node.
	Measure(id entity.NodeID) (entity.Rect, bool)
}

// FrameScheduler runs a callback on the next rendering frame. Requests made
// before the frame fires are coalesced into one callback.
type FrameScheduler interface {
	RequestFrame(fn func())
}
