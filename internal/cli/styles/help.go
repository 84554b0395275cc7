package styles

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap defines keybindings that can be rendered as help.
type KeyMap interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// WorkspaceKeyMap defines keybindings for the interactive workspace.
type WorkspaceKeyMap struct {
	FocusLeft  key.Binding
	FocusDown  key.Binding
	FocusUp    key.Binding
	FocusRight key.Binding
	SplitRight key.Binding
	SplitDown  key.Binding
	Delete     key.Binding
	GrowLeft   key.Binding
	GrowDown   key.Binding
	GrowUp     key.Binding
	GrowRight  key.Binding
	EditMode   key.Binding
	Locator    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k WorkspaceKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SplitRight, k.SplitDown, k.Delete, k.Locator, k.EditMode, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k WorkspaceKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusLeft, k.FocusDown, k.FocusUp, k.FocusRight},
		{k.GrowLeft, k.GrowDown, k.GrowUp, k.GrowRight},
		{k.SplitRight, k.SplitDown, k.Delete},
		{k.Locator, k.EditMode, k.Help, k.Quit},
	}
}

// DefaultWorkspaceKeyMap returns the default workspace keybindings.
func DefaultWorkspaceKeyMap() WorkspaceKeyMap {
	return WorkspaceKeyMap{
		FocusLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "focus left"),
		),
		FocusDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "focus down"),
		),
		FocusUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "focus up"),
		),
		FocusRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "focus right"),
		),
		SplitRight: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "split right"),
		),
		SplitDown: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "split down"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close tile"),
		),
		GrowLeft: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "move edge left"),
		),
		GrowDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "move edge down"),
		),
		GrowUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "move edge up"),
		),
		GrowRight: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "move edge right"),
		),
		EditMode: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit mode"),
		),
		Locator: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewStyledHelp creates a themed help model.
func NewStyledHelp(theme *Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.Text)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	return h
}
