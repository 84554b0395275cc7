// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tilegrid/internal/app/messaging"
	"github.com/bnema/tilegrid/internal/cli/styles"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/logging"
	"github.com/bnema/tilegrid/internal/ui/coordinator"
	"github.com/bnema/tilegrid/internal/ui/render"
)

const (
	defaultTickInterval = 33 * time.Millisecond
	statusRows          = 2
)

// DisplayResizer receives terminal size changes as display geometry.
type DisplayResizer interface {
	Resize(ctx context.Context, width, height int) error
}

// WorkspaceModelConfig holds the collaborators of the workspace model.
type WorkspaceModelConfig struct {
	Layout   *coordinator.LayoutService
	Drag     *coordinator.DragController
	Gestures *messaging.Handler
	// Frames is flushed on every tick; the terminal redraw is the frame.
	Frames  *render.ManualScheduler
	Display DisplayResizer

	NudgeStep    float64
	TickInterval time.Duration
}

// WorkspaceModel is the Bubble Tea model for the interactive workspace.
// Terminal cells stand in for pixels.
type WorkspaceModel struct {
	help     help.Model
	keys     styles.WorkspaceKeyMap
	input    textinput.Model
	theme    *styles.Theme
	inputing bool

	focused entity.NodeID
	width   int
	height  int
	status  string
	err     error

	ctx      context.Context
	layout   *coordinator.LayoutService
	drag     *coordinator.DragController
	gestures *messaging.Handler
	frames   *render.ManualScheduler
	display  DisplayResizer
	step     float64
	interval time.Duration
}

// NewWorkspaceModel creates the workspace model.
func NewWorkspaceModel(ctx context.Context, theme *styles.Theme, cfg WorkspaceModelConfig) WorkspaceModel {
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = defaultTickInterval
	}
	step := cfg.NudgeStep
	if step <= 0 {
		step = 0.05
	}

	return WorkspaceModel{
		help:     styles.NewStyledHelp(theme),
		keys:     styles.DefaultWorkspaceKeyMap(),
		input:    styles.NewLocatorInput(theme),
		theme:    theme,
		focused:  cfg.Layout.FirstTileID(),
		width:    80,
		height:   24,
		ctx:      ctx,
		layout:   cfg.Layout,
		drag:     cfg.Drag,
		gestures: cfg.Gestures,
		frames:   cfg.Frames,
		display:  cfg.Display,
		step:     step,
		interval: interval,
	}
}

// LayoutChangedMsg asks for a redraw after a layout change made outside
// the model.
type LayoutChangedMsg struct{}

// frameMsg drives frame flushes and redraws.
type frameMsg time.Time

func (m WorkspaceModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Init implements tea.Model.
func (m WorkspaceModel) Init() tea.Cmd {
	return m.tick()
}

// Focused returns the focused tile id.
func (m WorkspaceModel) Focused() entity.NodeID {
	return m.focused
}

// Update implements tea.Model.
func (m WorkspaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if m.frames != nil {
			m.frames.Flush()
		}
		m.ensureFocus()
		return m, m.tick()

	case LayoutChangedMsg:
		m.ensureFocus()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.display != nil {
			if err := m.display.Resize(m.ctx, m.width, m.canvasHeight()); err != nil {
				m.setErr(err)
			}
		}
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if m.inputing {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m WorkspaceModel) canvasHeight() int {
	return max(m.height-statusRows, 1)
}

func (m WorkspaceModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		locator := strings.TrimSpace(m.input.Value())
		m.inputing = false
		m.input.Blur()
		m.input.SetValue("")
		if locator != "" {
			m.gesture(messaging.Gesture{Type: messaging.TypeSetLocator, TileID: m.focused, Locator: locator})
		}
		return m, nil
	case tea.KeyEsc:
		m.inputing = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m WorkspaceModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.FocusLeft):
		m.moveFocus(entity.DirectionLeft)
	case key.Matches(msg, m.keys.FocusDown):
		m.moveFocus(entity.DirectionDown)
	case key.Matches(msg, m.keys.FocusUp):
		m.moveFocus(entity.DirectionUp)
	case key.Matches(msg, m.keys.FocusRight):
		m.moveFocus(entity.DirectionRight)
	case key.Matches(msg, m.keys.SplitRight):
		m.split(entity.DirectionRight)
	case key.Matches(msg, m.keys.SplitDown):
		m.split(entity.DirectionDown)
	case key.Matches(msg, m.keys.Delete):
		m.closeFocused()
	case key.Matches(msg, m.keys.GrowLeft):
		m.nudge(entity.DirectionLeft)
	case key.Matches(msg, m.keys.GrowDown):
		m.nudge(entity.DirectionDown)
	case key.Matches(msg, m.keys.GrowUp):
		m.nudge(entity.DirectionUp)
	case key.Matches(msg, m.keys.GrowRight):
		m.nudge(entity.DirectionRight)
	case key.Matches(msg, m.keys.EditMode):
		if res, ok := m.gesture(messaging.Gesture{Type: messaging.TypeEditMode}); ok {
			m.status = fmt.Sprintf("edit mode %s", onOff(res.EditMode))
		}
	case key.Matches(msg, m.keys.Locator):
		m.inputing = true
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

func (m *WorkspaceModel) handleMouse(msg tea.MouseMsg) {
	p := entity.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		err := m.drag.BeginAt(m.ctx, p)
		switch {
		case err == nil:
			m.status = "resizing"
		case errors.Is(err, coordinator.ErrNoHandle):
			if id, ok := m.layout.TileAt(p); ok {
				m.focused = id
			}
		default:
			m.setErr(err)
		}
	case tea.MouseActionMotion:
		if m.drag.Active() {
			if err := m.drag.MoveTo(m.ctx, p); err != nil {
				m.setErr(err)
			}
		}
	case tea.MouseActionRelease:
		if m.drag.Active() {
			if err := m.drag.End(m.ctx); err != nil {
				m.setErr(err)
				return
			}
			m.status = "resized"
		}
	}
}

func (m *WorkspaceModel) gesture(g messaging.Gesture) (messaging.Result, bool) {
	res, err := m.gestures.Handle(m.ctx, g)
	if err != nil {
		logging.FromContext(m.ctx).Debug().Err(err).Str("type", g.Type).Msg("gesture rejected")
		m.setErr(err)
		return res, false
	}
	m.err = nil
	return res, true
}

func (m *WorkspaceModel) split(dir entity.Direction) {
	g := messaging.Gesture{Type: messaging.TypeSplit, TileID: m.focused, Direction: dir}
	for _, t := range m.layout.Tiles() {
		if t.ID == m.focused {
			cx, cy := t.Rect.Center()
			g.Pointer = &entity.Point{X: float64(cx), Y: float64(cy)}
			break
		}
	}
	if res, ok := m.gesture(g); ok {
		m.focused = res.TileID
		m.status = fmt.Sprintf("split %s", dir)
	}
}

func (m *WorkspaceModel) closeFocused() {
	closing := m.focused
	next, hasNext := m.layout.Neighbor(m.ctx, closing, entity.DirectionLeft)
	if !hasNext {
		next, hasNext = m.layout.Neighbor(m.ctx, closing, entity.DirectionUp)
	}
	if _, ok := m.gesture(messaging.Gesture{Type: messaging.TypeDelete, TileID: closing}); !ok {
		return
	}
	if hasNext && m.layout.HasTile(next) {
		m.focused = next
	} else {
		m.focused = m.layout.FirstTileID()
	}
	m.status = "tile closed"
}

func (m *WorkspaceModel) nudge(dir entity.Direction) {
	m.gesture(messaging.Gesture{Type: messaging.TypeNudge, TileID: m.focused, Direction: dir, Step: m.step})
}

func (m *WorkspaceModel) moveFocus(dir entity.Direction) {
	if id, ok := m.layout.Neighbor(m.ctx, m.focused, dir); ok {
		m.focused = id
	}
}

func (m *WorkspaceModel) ensureFocus() {
	if !m.layout.HasTile(m.focused) {
		m.focused = m.layout.FirstTileID()
	}
}

func (m *WorkspaceModel) setErr(err error) {
	m.err = err
	m.status = ""
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// View implements tea.Model.
func (m WorkspaceModel) View() string {
	st := canvasState{
		width:   m.width,
		height:  m.canvasHeight(),
		tiles:   m.layout.Tiles(),
		handles: m.layout.Engine().Handles(),
		focused: m.focused,
	}
	if containerID, index, ok := m.drag.Handle(); ok {
		st.dragging = true
		st.dragContainer = containerID
		st.dragIndex = index
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		drawWorkspace(st).render(m.theme),
		m.statusLine(len(st.tiles)),
		m.footer(),
	)
}

func (m WorkspaceModel) statusLine(tiles int) string {
	parts := []string{
		m.theme.Badge.Render(styles.IconGrid + " tilegrid"),
		m.theme.BadgeMuted.Render(fmt.Sprintf("%d tiles", tiles)),
	}
	if m.layout.EditMode() {
		parts = append(parts, m.theme.Badge.Render("EDIT"))
	}
	switch {
	case m.err != nil:
		parts = append(parts, m.theme.ErrorStyle.Render(styles.IconX+" "+m.err.Error()))
	case m.status != "":
		parts = append(parts, m.theme.Subtle.Render(m.status))
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, " "))
}

func (m WorkspaceModel) footer() string {
	if m.inputing {
		return m.input.View()
	}
	return m.help.View(m.keys)
}
