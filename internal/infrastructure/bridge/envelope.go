// Package bridge carries surface commands between the layout context and the
// host context. Both sides exchange JSON envelopes over a pair of one-way
// pipes and share no other state.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/tilegrid/internal/domain/entity"
)

// Message types. Each type is one channel of the boundary.
const (
	TypeCreateSurface         = "createSurface"
	TypeSetSurfaceRect        = "setSurfaceRect"
	TypeSetSurfaceLocator     = "setSurfaceLocator"
	TypeDeleteSurface         = "deleteSurface"
	TypeHideSurface           = "hideSurface"
	TypeUnhideSurface         = "unhideSurface"
	TypeGetSurfaceSnapshot    = "getSurfaceSnapshot"
	TypeCaptureSurfaceFrame   = "captureSurfaceFrame"
	TypeGetDisplayMetrics     = "getDisplayMetrics"
	TypeDisplayMetricsChanged = "displayMetricsChanged"
	TypeReply                 = "reply"
)

var (
	// ErrClosed is returned once a pipe or client has been shut down.
	ErrClosed = errors.New("bridge closed")
	// ErrDropped is returned when a fire-and-forget message found the pipe full.
	ErrDropped = errors.New("bridge message dropped")
	// ErrRemote wraps an error reported by the other side.
	ErrRemote = errors.New("remote error")
)

// Envelope is one message on the wire.
type Envelope struct {
	Type      string                 `json:"type"`
	RequestID string                 `json:"requestId,omitempty"`
	ID        entity.NodeID          `json:"id,omitempty"`
	Rect      *entity.RawRect        `json:"rect,omitempty"`
	Locator   string                 `json:"locator,omitempty"`
	Options   *entity.SurfaceOptions `json:"options,omitempty"`
	Snapshot  entity.SurfaceSnapshot `json:"snapshot,omitempty"`
	Frame     []byte                 `json:"frame,omitempty"`
	Metrics   *entity.DisplayMetrics `json:"metrics,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Encode serializes the envelope.
func (e Envelope) Encode() ([]byte, error) {
	if e.Type == "" {
		return nil, errors.New("envelope type is required")
	}
	return json.Marshal(e)
}

// Decode parses one envelope.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, errors.New("decode envelope: missing type")
	}
	return env, nil
}

// Err converts the reply's error field.
func (e Envelope) Err() error {
	if e.Error == "" {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrRemote, e.Error)
}

func rawRect(r entity.Rect) *entity.RawRect {
	raw := r.Raw()
	return &raw
}
