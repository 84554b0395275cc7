package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/tilegrid/internal/bootstrap"
	"github.com/bnema/tilegrid/internal/cli/model"
	"github.com/bnema/tilegrid/internal/config"
	"github.com/bnema/tilegrid/internal/logging"
	"github.com/bnema/tilegrid/internal/ui/render"
)

var (
	runInspectAddr string
	runNoWatch     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the interactive workspace",
	Long: `Open the interactive tiling workspace in the terminal.

Terminal cells stand in for pixels. Drag dividers with the mouse, or use
the keyboard (press ? for the full key list). Config file edits are applied
while the workspace is open.

Examples:
  tilegrid run
  tilegrid run --inspect 127.0.0.1:7878`,
	RunE: runWorkspace,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runInspectAddr, "inspect", "", "serve the debug inspector on this address")
	runCmd.Flags().BoolVar(&runNoWatch, "no-watch", false, "do not reload the config file on change")
}

func runWorkspace(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	cfg := *app.Config
	if runInspectAddr != "" {
		cfg.Inspect.Enabled = true
		cfg.Inspect.Addr = runInspectAddr
	}

	ctx, stop := signal.NotifyContext(app.Ctx(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The real size arrives with the first WindowSizeMsg.
	frames := render.NewManualScheduler()
	session, ctx, err := bootstrap.NewSession(ctx, bootstrap.Options{
		Config: &cfg,
		Width:  80,
		Height: 24,
		Frames: frames,
		Quiet:  true,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Start(ctx); err != nil {
		return err
	}

	if !runNoWatch {
		watchConfig(ctx, app.Manager, session)
	}

	m := model.NewWorkspaceModel(ctx, app.Theme, model.WorkspaceModelConfig{
		Layout:    session.Layout,
		Drag:      session.Drag,
		Gestures:  session.Gestures,
		Frames:    frames,
		Display:   session.Display,
		NudgeStep: cfg.Layout.NudgeStep,
	})
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	// Send blocks while Update runs, and changes fire from inside Update.
	session.Layout.OnChange(func() { go p.Send(model.LayoutChangedMsg{}) })

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("workspace: %w", err)
	}
	return nil
}

func watchConfig(ctx context.Context, mgr *config.Manager, session *bootstrap.Session) {
	log := logging.FromContext(ctx)
	if mgr == nil {
		return
	}
	mgr.OnConfigChange(func(cfg *config.Config) {
		session.ApplyConfig(ctx, cfg)
	})
	if err := mgr.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watch not started")
	}
}
