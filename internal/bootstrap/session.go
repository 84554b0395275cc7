// Package bootstrap wires a layout session: the host context with its
// surface registry, the bridge between the two contexts and the layout
// context with its render engine, poller and gesture handler.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/tilegrid/internal/app/messaging"
	"github.com/bnema/tilegrid/internal/application/port"
	"github.com/bnema/tilegrid/internal/config"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/infrastructure/bridge"
	"github.com/bnema/tilegrid/internal/infrastructure/display"
	"github.com/bnema/tilegrid/internal/infrastructure/inspect"
	"github.com/bnema/tilegrid/internal/infrastructure/surface"
	"github.com/bnema/tilegrid/internal/logging"
	"github.com/bnema/tilegrid/internal/ui/coordinator"
	"github.com/bnema/tilegrid/internal/ui/render"
)

// ErrNotStarted is returned by Wait before Start.
var ErrNotStarted = errors.New("session not started")

// Options configure a session.
type Options struct {
	Config *config.Config
	// Width and Height size the display; the work area starts as the
	// whole display.
	Width, Height int
	// Frames defaults to a FrameTicker.
	Frames port.FrameScheduler
	// Backend defaults to an in-memory HeadlessBackend.
	Backend port.SurfaceBackend
	// Quiet keeps logs off stderr. The terminal front-end owns the screen.
	Quiet bool
}

// Session is one running layout session.
type Session struct {
	ID     string
	Config *config.Config
	Logger zerolog.Logger

	Link     bridge.Link
	Backend  port.SurfaceBackend
	Registry *surface.Registry
	Server   *bridge.Server
	Client   *bridge.Client
	Display  *display.Monitor

	Engine    *render.Engine
	Layout    *coordinator.LayoutService
	Drag      *coordinator.DragController
	Gestures  *messaging.Handler
	Inspector *inspect.Server

	logFile *os.File
	group   *errgroup.Group
	cancel  context.CancelFunc
}

// NewSession builds every component of a session without starting any
// goroutine. The returned context carries the session logger.
func NewSession(ctx context.Context, opts Options) (*Session, context.Context, error) {
	timer := NewStartupTimer()
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, ctx, fmt.Errorf("%w: display %dx%d", entity.ErrInvalidGeometry, opts.Width, opts.Height)
	}

	s := &Session{ID: logging.GenerateSessionID(), Config: cfg}
	logger, logFile, err := newSessionLogger(cfg, s.ID, opts.Quiet)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to open session log file")
	}
	s.Logger = logger.With().Str("session_id", s.ID).Logger()
	s.logFile = logFile
	ctx = logging.WithContext(ctx, s.Logger)
	timer.Mark("logger")

	// Host context.
	s.Backend = opts.Backend
	if s.Backend == nil {
		s.Backend = surface.NewHeadlessBackend()
	}
	s.Registry = surface.NewRegistry(s.Backend)
	s.Link = bridge.NewLink(cfg.Bridge.BufferSize)
	s.Server = bridge.NewServer(s.Link, s.Registry)
	s.Display = display.NewMonitor(opts.Width, opts.Height)
	s.Display.SetPublisher(s.Server)
	s.Server.SetDisplayMetricsProvider(s.Display)
	timer.Mark("host")

	// Layout context.
	s.Client = bridge.NewClient(s.Link, cfg.RequestTimeout())
	s.Engine = render.NewEngine(ctx, cfg.RenderOptions())
	s.Layout = coordinator.NewLayoutService(ctx, coordinator.Config{
		Host:        s.Client,
		Engine:      s.Engine,
		Frames:      opts.Frames,
		Layout:      cfg.LayoutOptions(),
		Reconcile:   cfg.ReconcileOptions(),
		EditInsetPx: cfg.Layout.EditInsetPx,
	})
	s.Drag = coordinator.NewDragController(s.Layout)
	s.Gestures = messaging.NewHandler(s.Layout)
	s.Client.OnDisplayMetricsChanged(func(m entity.DisplayMetrics) {
		s.Layout.DisplayMetricsChanged(ctx, m)
	})
	timer.Mark("layout")

	if cfg.Inspect.Enabled {
		s.Inspector = inspect.NewServer(cfg.Inspect.Addr, inspect.Sources{
			Layout:   func() any { return s.Layout.Describe() },
			Tiles:    func() any { return s.Layout.Tiles() },
			Surfaces: s.Registry.Records,
			Validate: s.Layout.Validate,
		})
	}
	timer.Mark("inspect")
	timer.LogDebug(ctx)

	return s, ctx, nil
}

func newSessionLogger(cfg *config.Config, sessionID string, quiet bool) (zerolog.Logger, *os.File, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	logCfg.Format = cfg.Logging.Format
	if quiet {
		logCfg.Output = io.Discard
	}

	if !cfg.Logging.EnableFileLog {
		return logging.New(logCfg), nil, nil
	}

	dir, err := cfg.ResolveLogDir()
	if err != nil {
		return logging.New(logCfg), nil, err
	}
	f, err := logging.OpenSessionFile(dir, sessionID)
	if err != nil {
		return logging.New(logCfg), nil, err
	}
	if quiet {
		logCfg.Output = f
	} else {
		logCfg.Output = io.MultiWriter(os.Stderr, f)
	}
	return logging.New(logCfg), f, nil
}

// Start launches the host server, the bridge client and the inspector,
// then mounts the tree in the display work area.
func (s *Session) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	s.group = g

	g.Go(func() error {
		return s.Server.Run(gctx)
	})
	g.Go(func() error {
		return s.Client.Run(gctx)
	})
	if s.Inspector != nil {
		g.Go(func() error {
			return s.Inspector.Run(logging.WithComponent(gctx, "inspect"))
		})
	}

	metrics, err := s.Client.GetDisplayMetrics(ctx)
	if err != nil {
		s.cancel()
		return fmt.Errorf("get display metrics: %w", err)
	}
	if err := s.Layout.Mount(ctx, metrics.WorkArea); err != nil {
		s.cancel()
		return fmt.Errorf("mount layout: %w", err)
	}

	s.Logger.Info().
		Str("work_area", metrics.WorkArea.String()).
		Bool("inspect", s.Inspector != nil).
		Msg("session started")
	return nil
}

// Wait blocks until every session goroutine returned.
func (s *Session) Wait() error {
	if s.group == nil {
		return ErrNotStarted
	}
	return s.group.Wait()
}

// Run starts the session and blocks until ctx is canceled.
func (s *Session) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	return s.Wait()
}

// ApplyConfig pushes a reloaded configuration into the running session.
// Pipe sizes and the inspector address only change on restart.
func (s *Session) ApplyConfig(ctx context.Context, cfg *config.Config) {
	s.Config = cfg
	s.Layout.SetOptions(ctx, coordinator.Options{
		Layout:      cfg.LayoutOptions(),
		Render:      cfg.RenderOptions(),
		Reconcile:   cfg.ReconcileOptions(),
		EditInsetPx: cfg.Layout.EditInsetPx,
	})
	s.Logger.Info().Msg("configuration reloaded")
}

// Close stops the session and releases its resources.
func (s *Session) Close() {
	s.Layout.Close()
	if s.cancel != nil {
		s.cancel()
	}
	s.Link.Close()
	if s.group != nil {
		_ = s.group.Wait()
	}
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
}
