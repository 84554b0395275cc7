package bridge

import (
	"context"
	"errors"
	"sync"

	"github.com/bnema/tilegrid/internal/application/port"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/infrastructure/surface"
	"github.com/bnema/tilegrid/internal/logging"
)

// Server is the host context's end of the bridge. Run handles one message at
// a time, so the registry sees a single writer.
type Server struct {
	link     Link
	registry *surface.Registry

	mu      sync.RWMutex
	metrics port.DisplayMetricsProvider
}

// NewServer creates a server applying messages to registry.
func NewServer(link Link, registry *surface.Registry) *Server {
	return &Server{link: link, registry: registry}
}

// SetDisplayMetricsProvider sets the source answering getDisplayMetrics.
func (s *Server) SetDisplayMetricsProvider(p port.DisplayMetricsProvider) {
	s.mu.Lock()
	s.metrics = p
	s.mu.Unlock()
}

// Run processes messages until ctx is done or the pipe closes.
func (s *Server) Run(ctx context.Context) error {
	ctx = logging.WithComponent(ctx, "bridge-server")
	log := logging.FromContext(ctx)
	log.Debug().Msg("bridge server started")

	for {
		env, err := s.link.ToHost.Receive(ctx)
		switch {
		case errors.Is(err, ErrClosed), errors.Is(err, context.Canceled):
			return nil
		case err != nil && ctx.Err() != nil:
			return nil
		case err != nil:
			log.Warn().Err(err).Msg("discarding malformed message")
			continue
		}
		s.dispatch(ctx, env)
	}
}

func (s *Server) dispatch(ctx context.Context, env Envelope) {
	log := logging.FromContext(ctx)

	switch env.Type {
	case TypeCreateSurface:
		var opts entity.SurfaceOptions
		if env.Options != nil {
			opts = *env.Options
		}
		err := s.registry.Create(ctx, env.ID, opts)
		if errors.Is(err, surface.ErrSurfaceExists) {
			err = nil
		}
		s.reply(ctx, env, Envelope{}, err)

	case TypeSetSurfaceRect:
		if env.Rect == nil {
			log.Warn().Str("surface_id", string(env.ID)).Msg("setSurfaceRect without rect")
			return
		}
		s.logFailure(ctx, env, s.registry.SetRect(ctx, env.ID, *env.Rect))

	case TypeSetSurfaceLocator:
		s.logFailure(ctx, env, s.registry.SetLocator(ctx, env.ID, env.Locator))

	case TypeDeleteSurface:
		s.logFailure(ctx, env, s.registry.Delete(ctx, env.ID))

	case TypeHideSurface:
		s.logFailure(ctx, env, s.registry.Hide(ctx, env.ID))

	case TypeUnhideSurface:
		s.logFailure(ctx, env, s.registry.Unhide(ctx, env.ID))

	case TypeGetSurfaceSnapshot:
		s.reply(ctx, env, Envelope{Snapshot: s.registry.Snapshot()}, nil)

	case TypeCaptureSurfaceFrame:
		var rect entity.Rect
		if env.Rect != nil {
			r, err := env.Rect.Rect()
			if err != nil {
				s.reply(ctx, env, Envelope{}, err)
				return
			}
			rect = r
		}
		frame, err := s.registry.Capture(ctx, env.ID, rect)
		s.reply(ctx, env, Envelope{Frame: frame}, err)

	case TypeGetDisplayMetrics:
		s.mu.RLock()
		provider := s.metrics
		s.mu.RUnlock()
		if provider == nil {
			s.reply(ctx, env, Envelope{}, errors.New("display metrics unavailable"))
			return
		}
		m := provider.DisplayMetrics()
		s.reply(ctx, env, Envelope{Metrics: &m}, nil)

	default:
		log.Warn().Str("type", env.Type).Msg("unknown message type")
		if env.RequestID != "" {
			s.reply(ctx, env, Envelope{}, errors.New("unknown message type "+env.Type))
		}
	}
}

func (s *Server) reply(ctx context.Context, req Envelope, resp Envelope, err error) {
	resp.Type = TypeReply
	resp.RequestID = req.RequestID
	resp.ID = req.ID
	if err != nil {
		resp.Error = err.Error()
		logging.FromContext(ctx).Debug().Err(err).Str("type", req.Type).Msg("request failed")
	}
	if sendErr := s.link.ToUI.Send(ctx, resp); sendErr != nil {
		logging.FromContext(ctx).Warn().Err(sendErr).Str("type", req.Type).Msg("failed to send reply")
	}
}

func (s *Server) logFailure(ctx context.Context, env Envelope, err error) {
	if err == nil {
		return
	}
	logging.FromContext(ctx).Warn().
		Err(err).
		Str("type", env.Type).
		Str("surface_id", string(env.ID)).
		Msg("surface command failed")
}

// PublishDisplayMetrics pushes new display metrics to the layout context.
func (s *Server) PublishDisplayMetrics(ctx context.Context, m entity.DisplayMetrics) error {
	if err := s.link.ToUI.TrySend(Envelope{Type: TypeDisplayMetricsChanged, Metrics: &m}); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to publish display metrics")
		return err
	}
	return nil
}
