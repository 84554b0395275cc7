package bridge

import (
	"context"
	"sync"
)

// Pipe is a bounded one-way FIFO of encoded envelopes.
type Pipe struct {
	ch        chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewPipe creates a pipe holding up to size pending messages.
func NewPipe(size int) *Pipe {
	if size <= 0 {
		size = 256
	}
	return &Pipe{
		ch:   make(chan []byte, size),
		done: make(chan struct{}),
	}
}

// TrySend queues env without blocking. A full pipe drops the message and
// returns ErrDropped.
func (p *Pipe) TrySend(env Envelope) error {
	data, err := env.Encode()
	if err != nil {
		return err
	}
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case p.ch <- data:
		return nil
	default:
		return ErrDropped
	}
}

// Send queues env, waiting for room until ctx is done.
func (p *Pipe) Send(ctx context.Context, env Envelope) error {
	data, err := env.Encode()
	if err != nil {
		return err
	}
	select {
	case p.ch <- data:
		return nil
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive waits for the next envelope. Malformed messages are returned as
// errors so the caller can log and continue.
func (p *Pipe) Receive(ctx context.Context) (Envelope, error) {
	select {
	case data := <-p.ch:
		return Decode(data)
	case <-p.done:
		return Envelope{}, ErrClosed
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	}
}

// Len returns the number of queued messages.
func (p *Pipe) Len() int {
	return len(p.ch)
}

// Close shuts the pipe down. Pending messages are discarded.
func (p *Pipe) Close() {
	p.closeOnce.Do(func() { close(p.done) })
}

// Link is the pair of pipes joining the two contexts.
type Link struct {
	ToHost *Pipe
	ToUI   *Pipe
}

// NewLink creates both directions with the same capacity.
func NewLink(size int) Link {
	return Link{ToHost: NewPipe(size), ToUI: NewPipe(size)}
}

// Close closes both directions.
func (l Link) Close() {
	l.ToHost.Close()
	l.ToUI.Close()
}
