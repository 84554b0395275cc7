package model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tilegrid/internal/cli/styles"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/ui/coordinator"
	"github.com/bnema/tilegrid/internal/ui/render"
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellDivider
	cellDividerActive
	cellBorder
	cellBorderFocused
	cellFill
	cellStatic
	cellPending
)

type cell struct {
	r    rune
	kind cellKind
}

// canvas is a character grid where one cell stands for one pixel of the
// workspace.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, kind cellKind) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, kind: kind}
}

func (c *canvas) fill(rect entity.Rect, r rune, kind cellKind) {
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			c.set(x, y, r, kind)
		}
	}
}

func (c *canvas) text(x, y, maxW int, s string, kind cellKind) {
	i := 0
	for _, r := range s {
		if i >= maxW {
			return
		}
		c.set(x+i, y, r, kind)
		i++
	}
}

func (c *canvas) box(rect entity.Rect, kind cellKind) {
	if rect.W < 2 || rect.H < 2 {
		c.fill(rect, '▪', kind)
		return
	}
	right, bottom := rect.X+rect.W-1, rect.Y+rect.H-1
	for x := rect.X + 1; x < right; x++ {
		c.set(x, rect.Y, '─', kind)
		c.set(x, bottom, '─', kind)
	}
	for y := rect.Y + 1; y < bottom; y++ {
		c.set(rect.X, y, '│', kind)
		c.set(right, y, '│', kind)
	}
	c.set(rect.X, rect.Y, '┌', kind)
	c.set(right, rect.Y, '┐', kind)
	c.set(rect.X, bottom, '└', kind)
	c.set(right, bottom, '┘', kind)
}

// canvasState is everything drawn in one frame.
type canvasState struct {
	width, height int
	tiles         []coordinator.TileView
	handles       []render.Handle
	focused       entity.NodeID
	dragContainer entity.NodeID
	dragIndex     int
	dragging      bool
}

func drawWorkspace(st canvasState) *canvas {
	c := newCanvas(st.width, st.height)

	for _, h := range st.handles {
		kind := cellDivider
		if st.dragging && h.ContainerID == st.dragContainer && h.Index == st.dragIndex {
			kind = cellDividerActive
		}
		r := '│'
		if h.Axis == entity.AxisVertical {
			r = '─'
		}
		c.fill(h.Rect, r, kind)
	}

	for i, t := range st.tiles {
		border := cellBorder
		if t.ID == st.focused {
			border = cellBorderFocused
		}
		inner := entity.Rect{X: t.Rect.X + 1, Y: t.Rect.Y + 1, W: t.Rect.W - 2, H: t.Rect.H - 2}

		switch {
		case t.Static:
			c.fill(t.Rect, '░', cellStatic)
		case t.Reconciling:
			c.fill(inner, '·', cellPending)
		}
		c.box(t.Rect, border)

		if inner.W <= 0 || inner.H <= 0 {
			continue
		}
		c.text(inner.X, inner.Y, inner.W, tileLabel(i, t), cellFill)
		if inner.H > 1 {
			c.text(inner.X, inner.Y+1, inner.W, fmt.Sprintf("%dx%d", t.Rect.W, t.Rect.H), cellStatic)
		}
	}
	return c
}

func tileLabel(i int, t coordinator.TileView) string {
	label := fmt.Sprintf("#%d", i+1)
	switch {
	case t.Locator != "":
		label += " " + t.Locator
	default:
		label += " (empty)"
	}
	return label
}

func (c *canvas) render(theme *styles.Theme) string {
	styleFor := map[cellKind]lipgloss.Style{
		cellEmpty:         lipgloss.NewStyle(),
		cellDivider:       theme.Divider,
		cellDividerActive: theme.DividerActive,
		cellBorder:        theme.TileBorder,
		cellBorderFocused: theme.TileBorderFocused,
		cellFill:          theme.TileFill,
		cellStatic:        theme.TileStatic,
		cellPending:       theme.TilePending,
	}

	var sb strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		row := c.cells[y*c.w : (y+1)*c.w]
		for x := 0; x < len(row); {
			kind := row[x].kind
			run.Reset()
			for x < len(row) && row[x].kind == kind {
				run.WriteRune(row[x].r)
				x++
			}
			sb.WriteString(styleFor[kind].Render(run.String()))
		}
	}
	return sb.String()
}

// plain returns the grid without styling.
func (c *canvas) plain() string {
	var sb strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, cl := range c.cells[y*c.w : (y+1)*c.w] {
			sb.WriteRune(cl.r)
		}
	}
	return sb.String()
}
