// Package reconcile aligns host-committed surface bounds with the geometry
// the layout pass measured. Messages to the host may be lost or reordered;
// polling the host snapshot and re-sending the measured rect is how the
// two sides converge.
package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bnema/tilegrid/internal/application/port"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/logging"
)

// ErrTimeout is logged when a tile fails to converge within MaxTicks.
var ErrTimeout = errors.New("reconciliation did not converge")

const (
	DefaultInterval = 200 * time.Millisecond
	DefaultMaxTicks = 25
)

// Measurer reports the last measured rect of a tile.
type Measurer interface {
	Measure(id entity.NodeID) (entity.Rect, bool)
}

// PlaceholderFunc receives a captured frame for a tile. A nil frame clears
// the placeholder.
type PlaceholderFunc func(id entity.NodeID, frame []byte)

// SurfaceOptionsFunc reports how to recreate the surface of a tile the host
// does not know. ok is false once the tile has left the layout.
type SurfaceOptionsFunc func(id entity.NodeID) (opts entity.SurfaceOptions, ok bool)

// Options configure a Poller.
type Options struct {
	Interval           time.Duration
	MaxTicks           int
	CapturePlaceholder bool
}

// DefaultOptions polls at 5 Hz for at most five seconds.
func DefaultOptions() Options {
	return Options{
		Interval:           DefaultInterval,
		MaxTicks:           DefaultMaxTicks,
		CapturePlaceholder: true,
	}
}

// Poller runs at most one reconciliation timer per tile.
type Poller struct {
	host     port.SurfaceHost
	measurer Measurer
	opts     Options

	mu            sync.Mutex
	sessions      map[entity.NodeID]*session
	onPlaceholder PlaceholderFunc
	onMissing     SurfaceOptionsFunc
}

type session struct {
	ctx      context.Context
	timer    *time.Timer
	ticks    int
	captured bool
}

// NewPoller creates a poller comparing measurer's rects with host snapshots.
func NewPoller(host port.SurfaceHost, measurer Measurer, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.MaxTicks <= 0 {
		opts.MaxTicks = DefaultMaxTicks
	}
	return &Poller{
		host:     host,
		measurer: measurer,
		opts:     opts,
		sessions: make(map[entity.NodeID]*session),
	}
}

// SetOptions changes interval and limits for sessions started afterwards.
func (p *Poller) SetOptions(opts Options) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if opts.Interval > 0 {
		p.opts.Interval = opts.Interval
	}
	if opts.MaxTicks > 0 {
		p.opts.MaxTicks = opts.MaxTicks
	}
	p.opts.CapturePlaceholder = opts.CapturePlaceholder
}

// OnPlaceholder registers the callback receiving captured frames.
func (p *Poller) OnPlaceholder(fn PlaceholderFunc) {
	p.mu.Lock()
	p.onPlaceholder = fn
	p.mu.Unlock()
}

// OnMissing registers the lookup used to recreate surfaces missing from the
// host snapshot. Without one, missing surfaces only receive rects.
func (p *Poller) OnMissing(fn SurfaceOptionsFunc) {
	p.mu.Lock()
	p.onMissing = fn
	p.mu.Unlock()
}

// Start begins reconciling id. Starting a tile that is already being
// reconciled does nothing.
func (p *Poller) Start(ctx context.Context, id entity.NodeID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.sessions[id]; ok {
		return
	}
	s := &session{ctx: logging.WithTileID(ctx, string(id))}
	p.sessions[id] = s
	s.timer = time.AfterFunc(p.opts.Interval, func() { p.tick(id, s) })

	logging.FromContext(s.ctx).Trace().Msg("reconciliation started")
}

// Active reports whether id has a running timer.
func (p *Poller) Active(id entity.NodeID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.sessions[id]
	return ok
}

// Stop cancels reconciliation of id.
func (p *Poller) Stop(id entity.NodeID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[id]; ok {
		s.timer.Stop()
		delete(p.sessions, id)
	}
}

// StopAll cancels every running session.
func (p *Poller) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, s := range p.sessions {
		s.timer.Stop()
		delete(p.sessions, id)
	}
}

// current reports whether s is still the live session for id.
func (p *Poller) current(id entity.NodeID, s *session) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessions[id] == s
}

// finish removes s unless it was replaced meanwhile.
func (p *Poller) finish(id entity.NodeID, s *session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sessions[id] == s {
		delete(p.sessions, id)
	}
}

func (p *Poller) reschedule(id entity.NodeID, s *session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sessions[id] == s {
		s.timer = time.AfterFunc(p.opts.Interval, func() { p.tick(id, s) })
	}
}

func (p *Poller) tick(id entity.NodeID, s *session) {
	if !p.current(id, s) {
		return
	}
	ctx := s.ctx
	log := logging.FromContext(ctx)

	if ctx.Err() != nil {
		p.finish(id, s)
		return
	}

	p.mu.Lock()
	opts := p.opts
	onPlaceholder := p.onPlaceholder
	onMissing := p.onMissing
	p.mu.Unlock()

	s.ticks++

	measured, ok := p.measurer.Measure(id)
	if !ok {
		// Tile is gone; nothing to align.
		p.finish(id, s)
		return
	}

	snapshot, err := p.host.GetSurfaceSnapshot(ctx)
	if err != nil {
		log.Debug().Err(err).Int("tick", s.ticks).Msg("snapshot unavailable")
	} else {
		state, present := snapshot[id]
		if present && state.Rect == measured {
			if s.captured && onPlaceholder != nil {
				onPlaceholder(id, nil)
			}
			p.finish(id, s)
			log.Debug().Int("ticks", s.ticks).Str("rect", measured.String()).Msg("surface bounds converged")
			return
		}

		recreated := !present && onMissing != nil && p.recreate(ctx, id, measured, onMissing)
		if !recreated {
			if err := p.host.SetSurfaceRect(ctx, id, measured); err != nil {
				log.Debug().Err(err).Msg("corrective rect not sent")
			}
		}
		log.Debug().
			Str("committed", state.Rect.String()).
			Str("measured", measured.String()).
			Msg("surface bounds drifted")

		if present && opts.CapturePlaceholder && !s.captured {
			s.captured = true
			p.capture(ctx, id, measured, onPlaceholder)
		}
	}

	if s.ticks >= opts.MaxTicks {
		p.finish(id, s)
		if s.captured && onPlaceholder != nil {
			onPlaceholder(id, nil)
		}
		log.Warn().Err(ErrTimeout).Int("ticks", s.ticks).Msg("keeping last committed geometry")
		return
	}
	p.reschedule(id, s)
}

// recreate issues a create for a surface the host has lost. It reports
// whether the create was sent.
func (p *Poller) recreate(ctx context.Context, id entity.NodeID, rect entity.Rect, lookup SurfaceOptionsFunc) bool {
	log := logging.FromContext(ctx)
	opts, ok := lookup(id)
	if !ok {
		return false
	}
	opts.Rect = rect
	if err := p.host.CreateSurface(ctx, id, opts); err != nil {
		log.Debug().Err(err).Msg("surface recreate not sent")
		return false
	}
	log.Info().Str("rect", rect.String()).Msg("surface missing on host, recreated")
	return true
}

func (p *Poller) capture(ctx context.Context, id entity.NodeID, rect entity.Rect, onPlaceholder PlaceholderFunc) {
	frame, err := p.host.CaptureSurfaceFrame(ctx, id, rect)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("placeholder capture failed")
		return
	}
	if onPlaceholder != nil && len(frame) > 0 {
		onPlaceholder(id, frame)
	}
}
