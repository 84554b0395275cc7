package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/tilegrid/internal/application/port"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/logging"
)

// DefaultRequestTimeout bounds request/response calls without a deadline.
const DefaultRequestTimeout = 2 * time.Second

var (
	_ port.SurfaceHost          = (*Client)(nil)
	_ port.DisplayMetricsSource = (*Client)(nil)
)

// Client is the layout context's end of the bridge.
type Client struct {
	link    Link
	timeout time.Duration

	mu           sync.Mutex
	pending      map[string]chan Envelope
	metricsHooks []func(entity.DisplayMetrics)

	done     chan struct{}
	doneOnce sync.Once
}

// NewClient creates a client on link. Run must be started to receive replies.
func NewClient(link Link, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		link:    link,
		timeout: timeout,
		pending: make(map[string]chan Envelope),
		done:    make(chan struct{}),
	}
}

// Run reads host messages until ctx is done or the pipe closes.
func (c *Client) Run(ctx context.Context) error {
	log := logging.FromContext(ctx).With().Str("component", "bridge-client").Logger()
	defer c.shutdown()

	for {
		env, err := c.link.ToUI.Receive(ctx)
		switch {
		case errors.Is(err, ErrClosed), errors.Is(err, context.Canceled):
			return nil
		case err != nil && ctx.Err() != nil:
			return nil
		case err != nil:
			log.Warn().Err(err).Msg("discarding malformed host message")
			continue
		}

		switch env.Type {
		case TypeReply:
			c.deliver(env)
		case TypeDisplayMetricsChanged:
			if env.Metrics == nil {
				log.Warn().Msg("display metrics push without metrics")
				continue
			}
			c.notifyMetrics(*env.Metrics)
		default:
			log.Warn().Str("type", env.Type).Msg("unexpected host message")
		}
	}
}

func (c *Client) shutdown() {
	c.doneOnce.Do(func() { close(c.done) })
}

func (c *Client) deliver(env Envelope) {
	c.mu.Lock()
	ch, ok := c.pending[env.RequestID]
	delete(c.pending, env.RequestID)
	c.mu.Unlock()
	if ok {
		ch <- env
	}
}

func (c *Client) notifyMetrics(m entity.DisplayMetrics) {
	c.mu.Lock()
	hooks := append([]func(entity.DisplayMetrics){}, c.metricsHooks...)
	c.mu.Unlock()
	for _, fn := range hooks {
		fn(m)
	}
}

// request sends env and waits for the matching reply.
func (c *Client) request(ctx context.Context, env Envelope) (Envelope, error) {
	select {
	case <-c.done:
		return Envelope{}, ErrClosed
	default:
	}

	env.RequestID = uuid.NewString()
	ch := make(chan Envelope, 1)

	c.mu.Lock()
	c.pending[env.RequestID] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, env.RequestID)
		c.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.link.ToHost.Send(ctx, env); err != nil {
		return Envelope{}, fmt.Errorf("%s: %w", env.Type, err)
	}

	select {
	case reply := <-ch:
		if err := reply.Err(); err != nil {
			return reply, fmt.Errorf("%s: %w", env.Type, err)
		}
		return reply, nil
	case <-c.done:
		return Envelope{}, ErrClosed
	case <-ctx.Done():
		return Envelope{}, fmt.Errorf("%s: %w", env.Type, ctx.Err())
	}
}

// post sends a fire-and-forget message.
func (c *Client) post(ctx context.Context, env Envelope) error {
	if err := c.link.ToHost.TrySend(env); err != nil {
		if errors.Is(err, ErrDropped) {
			logging.FromContext(ctx).Warn().
				Str("type", env.Type).
				Str("surface_id", string(env.ID)).
				Msg("host pipe full, message dropped")
		}
		return fmt.Errorf("%s %s: %w", env.Type, env.ID, err)
	}
	return nil
}

func (c *Client) CreateSurface(ctx context.Context, id entity.NodeID, opts entity.SurfaceOptions) error {
	_, err := c.request(ctx, Envelope{Type: TypeCreateSurface, ID: id, Options: &opts})
	return err
}

func (c *Client) SetSurfaceRect(ctx context.Context, id entity.NodeID, rect entity.Rect) error {
	return c.post(ctx, Envelope{Type: TypeSetSurfaceRect, ID: id, Rect: rawRect(rect)})
}

func (c *Client) SetSurfaceLocator(ctx context.Context, id entity.NodeID, locator string) error {
	return c.post(ctx, Envelope{Type: TypeSetSurfaceLocator, ID: id, Locator: locator})
}

func (c *Client) DeleteSurface(ctx context.Context, id entity.NodeID) error {
	return c.post(ctx, Envelope{Type: TypeDeleteSurface, ID: id})
}

func (c *Client) HideSurface(ctx context.Context, id entity.NodeID) error {
	return c.post(ctx, Envelope{Type: TypeHideSurface, ID: id})
}

func (c *Client) UnhideSurface(ctx context.Context, id entity.NodeID) error {
	return c.post(ctx, Envelope{Type: TypeUnhideSurface, ID: id})
}

func (c *Client) GetSurfaceSnapshot(ctx context.Context) (entity.SurfaceSnapshot, error) {
	reply, err := c.request(ctx, Envelope{Type: TypeGetSurfaceSnapshot})
	if err != nil {
		return nil, err
	}
	if reply.Snapshot == nil {
		return entity.SurfaceSnapshot{}, nil
	}
	return reply.Snapshot, nil
}

func (c *Client) CaptureSurfaceFrame(ctx context.Context, id entity.NodeID, rect entity.Rect) ([]byte, error) {
	reply, err := c.request(ctx, Envelope{Type: TypeCaptureSurfaceFrame, ID: id, Rect: rawRect(rect)})
	if err != nil {
		return nil, err
	}
	return reply.Frame, nil
}

func (c *Client) GetDisplayMetrics(ctx context.Context) (entity.DisplayMetrics, error) {
	reply, err := c.request(ctx, Envelope{Type: TypeGetDisplayMetrics})
	if err != nil {
		return entity.DisplayMetrics{}, err
	}
	if reply.Metrics == nil {
		return entity.DisplayMetrics{}, fmt.Errorf("%s: empty reply", TypeGetDisplayMetrics)
	}
	return *reply.Metrics, nil
}

// OnDisplayMetricsChanged registers fn for host pushes. Callbacks run on the
// Run goroutine.
func (c *Client) OnDisplayMetricsChanged(fn func(entity.DisplayMetrics)) {
	c.mu.Lock()
	c.metricsHooks = append(c.metricsHooks, fn)
	c.mu.Unlock()
}
