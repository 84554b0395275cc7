package coordinator

import (
	"context"

	"github.com/bnema/tilegrid/internal/application/usecase"
	"github.com/bnema/tilegrid/internal/domain/entity"
)

// TileView is a read-only copy of one tile's render state.
type TileView struct {
	ID             entity.NodeID `json:"id"`
	Rect           entity.Rect   `json:"rect"`
	Locator        string        `json:"locator,omitempty"`
	Static         bool          `json:"static,omitempty"`
	HasPlaceholder bool          `json:"hasPlaceholder,omitempty"`
	Reconciling    bool          `json:"reconciling,omitempty"`
}

// NodeView is a read-only copy of the layout tree.
type NodeView struct {
	ID          entity.NodeID `json:"id"`
	Kind        string        `json:"kind"`
	Rect        entity.Rect   `json:"rect"`
	Locator     string        `json:"locator,omitempty"`
	Breakpoints []float64     `json:"breakpoints,omitempty"`
	Children    []NodeView    `json:"children,omitempty"`
}

// Tiles returns every tile in document order.
func (s *LayoutService) Tiles() []TileView {
	s.mu.Lock()
	tiles := s.tree.Tiles()
	out := make([]TileView, 0, len(tiles))
	for _, tile := range tiles {
		rect, _ := s.engine.Measure(tile.ID)
		out = append(out, TileView{
			ID:             tile.ID,
			Rect:           rect,
			Locator:        tile.Locator,
			Static:         tile.Static,
			HasPlaceholder: len(tile.Placeholder) > 0,
		})
	}
	s.mu.Unlock()

	for i := range out {
		out[i].Reconciling = s.poller.Active(out[i].ID)
	}
	return out
}

// Describe returns a copy of the whole tree.
func (s *LayoutService) Describe() NodeView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.describe(s.tree.Root())
}

func (s *LayoutService) describe(n *entity.Node) NodeView {
	rect, _ := s.engine.Measure(n.ID)
	v := NodeView{ID: n.ID, Kind: n.Kind.String(), Rect: rect}
	switch n.Kind {
	case entity.KindTile:
		v.Locator = n.Locator
	case entity.KindRow, entity.KindColumn:
		v.Breakpoints = append([]float64(nil), n.Breakpoints...)
		for _, c := range n.Children {
			v.Children = append(v.Children, s.describe(c))
		}
	}
	return v
}

// Validate checks the tree invariants.
func (s *LayoutService) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Validate()
}

// RootID returns the current root's id.
func (s *LayoutService) RootID() entity.NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Root().ID
}

// FirstTileID returns the first tile in document order.
func (s *LayoutService) FirstTileID() entity.NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Root().FirstTile().ID
}

// HasTile reports whether id is a tile of the tree.
func (s *LayoutService) HasTile(id entity.NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tree.Tile(id)
	return ok
}

// TileAt returns the tile whose measured rect contains p.
func (s *LayoutService) TileAt(p entity.Point) (entity.NodeID, bool) {
	for _, t := range s.Tiles() {
		if t.Rect.Contains(p) {
			return t.ID, true
		}
	}
	return "", false
}

// Neighbor returns the nearest tile in dir from id.
func (s *LayoutService) Neighbor(ctx context.Context, id entity.NodeID, dir entity.Direction) (entity.NodeID, bool) {
	tiles := s.Tiles()
	rects := make([]usecase.TileRect, 0, len(tiles))
	for _, t := range tiles {
		rects = append(rects, usecase.TileRect{ID: t.ID, Rect: t.Rect})
	}
	return usecase.NavigateFocus(ctx, usecase.NavigateFocusInput{ActiveID: id, Rects: rects, Direction: dir})
}

// Placeholder returns the captured frame shown for a tile, if any.
func (s *LayoutService) Placeholder(id entity.NodeID) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tile, ok := s.tree.Tile(id); ok {
		return tile.Placeholder
	}
	return nil
}
