package render

import (
	"sync"
	"time"

	"github.com/bnema/tilegrid/internal/application/port"
)

// DefaultFrameInterval is roughly one display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

var (
	_ port.FrameScheduler = (*FrameTicker)(nil)
	_ port.FrameScheduler = (*ManualScheduler)(nil)
)

// FrameTicker runs the most recently requested callback once per frame
// interval. Requests arriving while a frame is pending replace its callback.
type FrameTicker struct {
	interval time.Duration

	mu      sync.Mutex
	pending func()
	timer   *time.Timer
}

// NewFrameTicker creates a ticker firing interval after the first request.
func NewFrameTicker(interval time.Duration) *FrameTicker {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameTicker{interval: interval}
}

func (f *FrameTicker) RequestFrame(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = fn
	if f.timer != nil {
		return
	}
	f.timer = time.AfterFunc(f.interval, f.fire)
}

func (f *FrameTicker) fire() {
	f.mu.Lock()
	fn := f.pending
	f.pending = nil
	f.timer = nil
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Stop drops any pending frame.
func (f *FrameTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.pending = nil
}

// ManualScheduler holds the latest request until Flush is called. The
// terminal front-end flushes it on each redraw.
type ManualScheduler struct {
	mu      sync.Mutex
	pending func()
}

// NewManualScheduler creates an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) RequestFrame(fn func()) {
	m.mu.Lock()
	m.pending = fn
	m.mu.Unlock()
}

// Pending reports whether a frame is waiting.
func (m *ManualScheduler) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Flush runs the pending callback, if any. It reports whether one ran.
func (m *ManualScheduler) Flush() bool {
	m.mu.Lock()
	fn := m.pending
	m.pending = nil
	m.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}
