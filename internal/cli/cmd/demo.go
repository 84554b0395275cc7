package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/tilegrid/internal/bootstrap"
	"github.com/bnema/tilegrid/internal/cli/styles"
	"github.com/bnema/tilegrid/internal/config"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/infrastructure/inspect"
	"github.com/bnema/tilegrid/internal/ui/coordinator"
	"github.com/bnema/tilegrid/internal/ui/render"
)

const settleTimeout = 2 * time.Second

var (
	demoWidth  int
	demoHeight int
	demoJSON   bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted headless session",
	Long: `Run a scripted session against the in-memory host and print the result.

The script splits, resizes, toggles edit mode, drags a divider and closes a
pane, then prints the final tree and the host surfaces.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		return runDemo(app.Ctx(), cmd.OutOrStdout(), demoOptions{
			Config: app.Config,
			Theme:  app.Theme,
			Width:  demoWidth,
			Height: demoHeight,
			JSON:   demoJSON,
		})
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().IntVar(&demoWidth, "width", 120, "display width")
	demoCmd.Flags().IntVar(&demoHeight, "height", 40, "display height")
	demoCmd.Flags().BoolVar(&demoJSON, "json", false, "print the result as JSON")
}

type demoOptions struct {
	Config        *config.Config
	Theme         *styles.Theme
	Width, Height int
	JSON          bool
}

// demoReport is the printed result of a demo run.
type demoReport struct {
	Layout   coordinator.NodeView `json:"layout"`
	Surfaces []inspect.Surface    `json:"surfaces"`
}

func runDemo(ctx context.Context, out io.Writer, opts demoOptions) error {
	cfg := *opts.Config
	cfg.Inspect.Enabled = false

	frames := render.NewManualScheduler()
	session, ctx, err := bootstrap.NewSession(ctx, bootstrap.Options{
		Config: &cfg,
		Width:  opts.Width,
		Height: opts.Height,
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

	if err := demoScript(ctx, session, frames); err != nil {
		return err
	}
	if err := session.Layout.Validate(); err != nil {
		return err
	}
	settle(session)

	report := demoReport{Layout: session.Layout.Describe()}
	for _, rec := range session.Registry.Records() {
		report.Surfaces = append(report.Surfaces, inspect.SurfaceFromRecord(rec))
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	fmt.Fprintln(out, theme.Title.Render("Layout"))
	writeTree(out, report.Layout, 1)
	fmt.Fprintln(out, theme.Title.Render("Surfaces"))
	for _, s := range report.Surfaces {
		fmt.Fprintf(out, "  %-8s %s visible=%t\n", orEmpty(s.Locator), s.Rect, s.Visible)
	}
	return nil
}

func demoScript(ctx context.Context, s *bootstrap.Session, frames *render.ManualScheduler) error {
	layout := s.Layout
	half := 0.5

	first := layout.FirstTileID()
	if err := layout.SetLocator(ctx, first, "docs"); err != nil {
		return err
	}
	second, err := layout.Split(ctx, coordinator.SplitRequest{TileID: first, Direction: entity.DirectionRight, Fraction: &half})
	if err != nil {
		return err
	}
	if err := layout.SetLocator(ctx, second, "logs"); err != nil {
		return err
	}
	third, err := layout.Split(ctx, coordinator.SplitRequest{TileID: second, Direction: entity.DirectionDown, Fraction: &half})
	if err != nil {
		return err
	}
	if err := layout.SetLocator(ctx, third, "shell"); err != nil {
		return err
	}

	root := layout.RootID()
	if _, err := layout.ResizeBreakpoint(ctx, root, 0, 0.3); err != nil {
		return err
	}

	layout.SetEditMode(ctx, true)
	layout.SetEditMode(ctx, false)

	if err := s.Drag.Begin(ctx, root, 0); err != nil {
		return err
	}
	for _, f := range []float64{0.4, 0.5, 0.6} {
		if err := s.Drag.Move(ctx, f); err != nil {
			return err
		}
		frames.Flush()
	}
	if err := s.Drag.End(ctx); err != nil {
		return err
	}

	return layout.Delete(ctx, third)
}

// settle waits until the host has caught up with the layout.
func settle(s *bootstrap.Session) {
	deadline := time.Now().Add(settleTimeout)
	for time.Now().Before(deadline) {
		if hostMatches(s) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func hostMatches(s *bootstrap.Session) bool {
	tiles := s.Layout.Tiles()
	if len(s.Registry.Records()) != len(tiles) {
		return false
	}
	for _, t := range tiles {
		rec, ok := s.Registry.Record(t.ID)
		if !ok || rec.Rect != t.Rect || rec.Locator != t.Locator {
			return false
		}
	}
	return true
}

func writeTree(out io.Writer, n coordinator.NodeView, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.Kind == entity.KindTile.String() {
		fmt.Fprintf(out, "%s%s %s\n", indent, orEmpty(n.Locator), n.Rect)
		return
	}
	fmt.Fprintf(out, "%s%s %v %s\n", indent, n.Kind, n.Breakpoints, n.Rect)
	for _, c := range n.Children {
		writeTree(out, c, depth+1)
	}
}

func orEmpty(locator string) string {
	if locator == "" {
		return "(empty)"
	}
	return locator
}
