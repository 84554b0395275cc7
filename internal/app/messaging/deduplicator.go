package messaging

import (
	"fmt"
	"sync"
	"time"
)

// Deduplicator drops gestures replayed with the same request id, e.g. a
// trigger delivered twice by the embedding layer.
type Deduplicator struct {
	mu              sync.Mutex
	seen            map[string]time.Time
	window          time.Duration
	cleanupInterval time.Duration
	lastCleanup     time.Time
	now             func() time.Time
}

// NewDeduplicator creates a deduplicator with a 200ms window.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		seen:            make(map[string]time.Time),
		window:          200 * time.Millisecond,
		cleanupInterval: 5 * time.Second,
		lastCleanup:     time.Now(),
		now:             time.Now,
	}
}

// IsDuplicate reports whether requestID was seen inside the window. Empty
// ids are never duplicates.
func (d *Deduplicator) IsDuplicate(requestID string) (bool, string) {
	if requestID == "" {
		return false, ""
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if now.Sub(d.lastCleanup) > d.cleanupInterval {
		d.cleanup(now)
	}

	if at, ok := d.seen[requestID]; ok && now.Sub(at) < d.window {
		return true, fmt.Sprintf("duplicate request ID: %s (within %v)", requestID, now.Sub(at))
	}
	d.seen[requestID] = now
	return false, ""
}

func (d *Deduplicator) cleanup(now time.Time) {
	for id, at := range d.seen {
		if now.Sub(at) > d.window {
			delete(d.seen, id)
		}
	}
	d.lastCleanup = now
}
