package model

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tilegrid/internal/bootstrap"
	"github.com/bnema/tilegrid/internal/cli/styles"
	"github.com/bnema/tilegrid/internal/config"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/ui/coordinator"
	"github.com/bnema/tilegrid/internal/ui/render"
)

func newTestModel(t *testing.T) (WorkspaceModel, *bootstrap.Session) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Logging.EnableFileLog = false
	cfg.Layout.DividerPx = 1
	cfg.Layout.MinTilePx = 0
	frames := render.NewManualScheduler()

	s, ctx, err := bootstrap.NewSession(context.Background(), bootstrap.Options{
		Config: cfg,
		Width:  80,
		Height: 24,
		Frames: frames,
		Quiet:  true,
	})
	require.NoError(t, err)
	require.NoError(t, s.Start(ctx))
	t.Cleanup(s.Close)

	m := NewWorkspaceModel(ctx, styles.NewTheme(), WorkspaceModelConfig{
		Layout:    s.Layout,
		Drag:      s.Drag,
		Gestures:  s.Gestures,
		Frames:    frames,
		Display:   s.Display,
		NudgeStep: 0.1,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 26})
	return next.(WorkspaceModel), s
}

func press(t *testing.T, m WorkspaceModel, keys string) WorkspaceModel {
	t.Helper()
	for _, r := range keys {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(WorkspaceModel)
	}
	return m
}

func TestWorkspaceModel_SplitFocusesNewTile(t *testing.T) {
	m, s := newTestModel(t)
	root := m.Focused()

	m = press(t, m, "v")

	require.Len(t, s.Layout.Tiles(), 2)
	assert.NotEqual(t, root, m.Focused())
	assert.True(t, s.Layout.HasTile(m.Focused()))
	assert.Equal(t, "row", s.Layout.Describe().Kind)
}

func TestWorkspaceModel_FocusNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	left := m.Focused()
	m = press(t, m, "v")
	right := m.Focused()

	m = press(t, m, "h")
	assert.Equal(t, left, m.Focused())
	m = press(t, m, "l")
	assert.Equal(t, right, m.Focused())
}

func TestWorkspaceModel_CloseMovesFocus(t *testing.T) {
	m, s := newTestModel(t)
	left := m.Focused()
	m = press(t, m, "v")

	m = press(t, m, "x")

	assert.Len(t, s.Layout.Tiles(), 1)
	assert.Equal(t, left, m.Focused())

	m = press(t, m, "x")
	assert.Error(t, m.err)
	assert.Len(t, s.Layout.Tiles(), 1)
}

func TestWorkspaceModel_EditModeToggle(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "e")
	assert.True(t, s.Layout.EditMode())
	assert.Contains(t, m.View(), "EDIT")

	press(t, m, "e")
	assert.False(t, s.Layout.EditMode())
}

func TestWorkspaceModel_LocatorPrompt(t *testing.T) {
	m, s := newTestModel(t)
	id := m.Focused()

	m = press(t, m, "o")
	require.True(t, m.inputing)
	m = press(t, m, "docs")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(WorkspaceModel)

	assert.False(t, m.inputing)
	assert.Equal(t, "docs", s.Layout.Tiles()[0].Locator)
	assert.Eventually(t, func() bool {
		return s.Registry.Snapshot()[id].Locator == "docs"
	}, time.Second, 5*time.Millisecond)
}

func TestWorkspaceModel_WindowSizeResizesDisplay(t *testing.T) {
	m, s := newTestModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = next.(WorkspaceModel)

	assert.Eventually(t, func() bool {
		return s.Layout.Tiles()[0].Rect == entity.Rect{W: 60, H: 18}
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 18, m.canvasHeight())
}

func TestWorkspaceModel_MouseDragResizes(t *testing.T) {
	m, s := newTestModel(t)
	require.Eventually(t, func() bool {
		return s.Layout.Tiles()[0].Rect.W == 80
	}, time.Second, 5*time.Millisecond)
	m = press(t, m, "v")
	handles := s.Engine.Handles()
	require.Len(t, handles, 1)
	hx := handles[0].Rect.X

	next, _ := m.Update(tea.MouseMsg{X: hx, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(WorkspaceModel)
	require.True(t, s.Drag.Active())

	next, _ = m.Update(tea.MouseMsg{X: 20, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = next.(WorkspaceModel)
	next, _ = m.Update(frameMsg(time.Now()))
	m = next.(WorkspaceModel)
	next, _ = m.Update(tea.MouseMsg{X: 20, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = next.(WorkspaceModel)

	assert.False(t, s.Drag.Active())
	bp := s.Layout.Describe().Breakpoints
	require.Len(t, bp, 1)
	assert.InDelta(t, 0.25, bp[0], 0.01)
	assert.Equal(t, "resized", m.status)
}

func TestWorkspaceModel_ClickFocusesTile(t *testing.T) {
	m, s := newTestModel(t)
	require.Eventually(t, func() bool {
		return s.Layout.Tiles()[0].Rect.W == 80
	}, time.Second, 5*time.Millisecond)
	left := m.Focused()
	m = press(t, m, "v")

	next, _ := m.Update(tea.MouseMsg{X: 3, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(WorkspaceModel)

	assert.Equal(t, left, m.Focused())
	assert.False(t, s.Drag.Active())
}

func TestDrawWorkspace(t *testing.T) {
	c := drawWorkspace(canvasState{
		width:  9,
		height: 4,
		tiles: []coordinator.TileView{
			{ID: "a", Rect: entity.Rect{W: 4, H: 4}},
			{ID: "b", Rect: entity.Rect{X: 5, W: 4, H: 4}, Locator: "x"},
		},
		handles: []render.Handle{{ContainerID: "c", Axis: entity.AxisHorizontal, Rect: entity.Rect{X: 4, W: 1, H: 4}}},
		focused: "b",
	})

	lines := strings.Split(c.plain(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "┌──┐│┌──┐", lines[0])
	assert.Equal(t, "│#1│││#2│", lines[1])
	assert.Equal(t, "└──┘│└──┘", lines[3])
	assert.NotEmpty(t, c.render(styles.NewTheme()))
}
