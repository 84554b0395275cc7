package entity

import (
	"fmt"
)

// Tree is the layout arena. It owns the root node and keeps id lookups for
// tiles and containers in sync with the node graph.
//
// Only the layout usecases mutate a Tree; callers must not hold on to the
// lookup results across a mutation.
type Tree struct {
	root       *Node
	tiles      map[NodeID]*Node
	containers map[NodeID]*Node
	rootHooks  []func(root *Node)
}

// NewTree creates a tree rooted at root and indexes the whole subtree.
func NewTree(root *Node) *Tree {
	t := &Tree{
		tiles:      make(map[NodeID]*Node),
		containers: make(map[NodeID]*Node),
	}
	t.Register(root)
	t.SetRoot(root)
	return t
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Tile resolves a tile id.
func (t *Tree) Tile(id NodeID) (*Node, bool) {
	n, ok := t.tiles[id]
	return n, ok
}

// Container resolves a container id.
func (t *Tree) Container(id NodeID) (*Node, bool) {
	n, ok := t.containers[id]
	return n, ok
}

// Node resolves any id.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	if n, ok := t.tiles[id]; ok {
		return n, true
	}
	n, ok := t.containers[id]
	return n, ok
}

// TileCount returns the number of leaves.
func (t *Tree) TileCount() int {
	return len(t.tiles)
}

// Tiles returns every leaf in document order.
func (t *Tree) Tiles() []*Node {
	out := make([]*Node, 0, len(t.tiles))
	if t.root == nil {
		return out
	}
	t.root.Walk(func(n *Node) bool {
		if n.IsTile() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Walk traverses the whole tree in document order.
func (t *Tree) Walk(fn func(*Node) bool) {
	if t.root != nil {
		t.root.Walk(fn)
	}
}

// OnRootChanged registers a hook invoked every time a node becomes root,
// including the initial root. Root-only behavior is attached here.
func (t *Tree) OnRootChanged(fn func(root *Node)) {
	t.rootHooks = append(t.rootHooks, fn)
	if t.root != nil {
		fn(t.root)
	}
}

// SetRoot makes n the root and re-attaches root-only style and hooks.
func (t *Tree) SetRoot(n *Node) {
	if t.root != nil && t.root != n {
		t.root.Style.Root = false
	}
	t.root = n
	n.Parent = nil
	n.Style.Root = true
	for _, hook := range t.rootHooks {
		hook(n)
	}
}

// Register indexes n and its subtree.
func (t *Tree) Register(n *Node) {
	n.Walk(func(node *Node) bool {
		switch node.Kind {
		case KindTile:
			t.tiles[node.ID] = node
		case KindRow, KindColumn:
			t.containers[node.ID] = node
		}
		return true
	})
}

// Unregister drops n (not its children) from the lookups.
func (t *Tree) Unregister(n *Node) {
	switch n.Kind {
	case KindTile:
		delete(t.tiles, n.ID)
	case KindRow, KindColumn:
		delete(t.containers, n.ID)
	}
}

// ReplaceChild puts replacement in old's slot. When old is the root,
// replacement becomes the new root.
func (t *Tree) ReplaceChild(old, replacement *Node) {
	parent := old.Parent
	if parent == nil {
		t.SetRoot(replacement)
		return
	}
	if i := parent.IndexOf(old); i >= 0 {
		parent.Children[i] = replacement
	}
	replacement.Parent = parent
	old.Parent = nil
}

// Validate checks every structural invariant of the tree.
func (t *Tree) Validate() error {
	if t.root == nil {
		return fmt.Errorf("%w: nil root", ErrInvalidTree)
	}
	if t.root.Parent != nil {
		return fmt.Errorf("%w: root %s has a parent", ErrInvalidTree, t.root.ID)
	}

	seen := make(map[NodeID]bool)
	tiles, containers := 0, 0
	var err error
	t.root.Walk(func(n *Node) bool {
		if seen[n.ID] {
			err = fmt.Errorf("%w: id %s appears twice", ErrInvalidTree, n.ID)
			return false
		}
		seen[n.ID] = true

		switch n.Kind {
		case KindTile:
			tiles++
			if len(n.Children) > 0 {
				err = fmt.Errorf("%w: tile %s has children", ErrInvalidTree, n.ID)
			} else if t.tiles[n.ID] != n {
				err = fmt.Errorf("%w: tile %s not indexed", ErrInvalidTree, n.ID)
			}
		case KindRow, KindColumn:
			containers++
			err = t.validateContainer(n)
		default:
			err = fmt.Errorf("%w: node %s has unknown kind %d", ErrInvalidTree, n.ID, n.Kind)
		}
		return err == nil
	})
	if err != nil {
		return err
	}
	if tiles != len(t.tiles) || containers != len(t.containers) {
		return fmt.Errorf("%w: lookup holds %d tiles/%d containers, tree has %d/%d",
			ErrInvalidTree, len(t.tiles), len(t.containers), tiles, containers)
	}
	return nil
}

func (t *Tree) validateContainer(n *Node) error {
	if t.containers[n.ID] != n {
		return fmt.Errorf("%w: container %s not indexed", ErrInvalidTree, n.ID)
	}
	if len(n.Children) < 2 {
		return fmt.Errorf("%w: container %s has %d children", ErrInvalidTree, n.ID, len(n.Children))
	}
	if len(n.Children) != len(n.Breakpoints)+1 {
		return fmt.Errorf("%w: container %s has %d children and %d breakpoints",
			ErrInvalidTree, n.ID, len(n.Children), len(n.Breakpoints))
	}
	prev := 0.0
	for i, bp := range n.Breakpoints {
		if bp <= prev || bp >= 1 {
			return fmt.Errorf("%w: container %s breakpoint %d = %v out of order", ErrInvalidTree, n.ID, i, bp)
		}
		prev = bp
	}
	for _, c := range n.Children {
		if c.Parent != n {
			return fmt.Errorf("%w: child %s of %s has wrong parent", ErrInvalidTree, c.ID, n.ID)
		}
	}
	return nil
}
