// Package entity contains the layout domain: the tile tree, geometry and
// surface records. These types are pure Go with no infrastructure
// dependencies.
package entity

import "github.com/google/uuid"

// NodeID uniquely identifies a node. Tile ids double as surface ids.
type NodeID string

// NewNodeID returns a fresh opaque id.
func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// NodeKind tags the variant a Node holds.
type NodeKind int

const (
	KindTile   NodeKind = iota // Leaf pane backed by one surface
	KindRow                    // Container laid out along the horizontal axis
	KindColumn                 // Container laid out along the vertical axis
)

func (k NodeKind) String() string {
	switch k {
	case KindTile:
		return "tile"
	case KindRow:
		return "row"
	case KindColumn:
		return "column"
	default:
		return "unknown"
	}
}

// KindForAxis returns the container kind running along axis.
func KindForAxis(axis Axis) NodeKind {
	if axis == AxisVertical {
		return KindColumn
	}
	return KindRow
}

// NodeStyle carries per-node geometry overrides.
type NodeStyle struct {
	// Root is set only on the tree root; root-only hooks key off it.
	Root bool
	// Inset shrinks the rendered anchor on every side (edit chrome).
	Inset int
}

// Node is one position in the layout tree.
//
// Tile fields are meaningful only when Kind == KindTile, container fields
// only for KindRow and KindColumn.
type Node struct {
	ID     NodeID
	Kind   NodeKind
	Parent *Node // non-owning; nil for the root
	Style  NodeStyle

	// Tile
	Locator     string // empty means unprovisioned
	Anchor      *Rect  // last measured rect; nil until mounted
	Placeholder []byte // encoded still frame shown while geometry converges
	Static      bool   // surface suppressed, show a static representation

	// Container
	Children    []*Node
	Breakpoints []float64
}

// NewTile creates an empty tile with a fresh id.
func NewTile() *Node {
	return &Node{ID: NewNodeID(), Kind: KindTile}
}

// NewContainer creates a container along axis owning children.
// The caller supplies len(children)-1 breakpoints.
func NewContainer(axis Axis, children []*Node, breakpoints []float64) *Node {
	n := &Node{
		ID:          NewNodeID(),
		Kind:        KindForAxis(axis),
		Children:    children,
		Breakpoints: breakpoints,
	}
	for _, c := range children {
		c.Parent = n
	}
	return n
}

// IsTile reports whether n is a leaf.
func (n *Node) IsTile() bool {
	return n.Kind == KindTile
}

// IsContainer reports whether n is a row or column.
func (n *Node) IsContainer() bool {
	return n.Kind == KindRow || n.Kind == KindColumn
}

// Axis returns the container's main axis. Tiles report horizontal.
func (n *Node) Axis() Axis {
	if n.Kind == KindColumn {
		return AxisVertical
	}
	return AxisHorizontal
}

// IndexOf returns the position of child in n, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// Interval returns the cumulative bounds [lo, hi] of child i along the main
// axis, using the implicit boundary values 0 and 1.
func (n *Node) Interval(i int) (lo, hi float64) {
	lo, hi = 0, 1
	if i > 0 && i-1 < len(n.Breakpoints) {
		lo = n.Breakpoints[i-1]
	}
	if i < len(n.Breakpoints) {
		hi = n.Breakpoints[i]
	}
	return lo, hi
}

// Share returns child i's relative share along the main axis.
func (n *Node) Share(i int) float64 {
	lo, hi := n.Interval(i)
	return hi - lo
}

// Walk traverses the subtree in document order calling fn for each node.
// Returns early if fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// FirstTile returns the first leaf of the subtree.
func (n *Node) FirstTile() *Node {
	cur := n
	for cur.IsContainer() && len(cur.Children) > 0 {
		cur = cur.Children[0]
	}
	return cur
}
