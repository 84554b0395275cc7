// Package port defines application-layer interfaces for external capabilities.
// Ports abstract the host context and the render pass, allowing the layout
// layer to remain independent of specific implementations.
package port

import (
	"context"
	"image"

	"github.com/bnema/tilegrid/internal/domain/entity"
)

// SurfaceHost is the layout context's view of the host that owns the content
// surfaces. Every call crosses the context boundary.
//
// SetSurfaceRect, SetSurfaceLocator, DeleteSurface, HideSurface and
// UnhideSurface are fire-and-forget: a nil error means the message was
// queued, not that the host applied it. The remaining calls wait for a reply.
type SurfaceHost interface {
	// CreateSurface creates a surface for id, or does nothing if one exists.
	CreateSurface(ctx context.Context, id entity.NodeID, opts entity.SurfaceOptions) error
	// SetSurfaceRect commits new bounds for the surface.
	SetSurfaceRect(ctx context.Context, id entity.NodeID, rect entity.Rect) error
	// SetSurfaceLocator loads content into the surface.
	SetSurfaceLocator(ctx context.Context, id entity.NodeID, locator string) error
	// DeleteSurface destroys the surface. Unknown ids are ignored.
	DeleteSurface(ctx context.Context, id entity.NodeID) error
	// HideSurface moves the surface into the holding area.
	HideSurface(ctx context.Context, id entity.NodeID) error
	// UnhideSurface moves the surface back out of the holding area.
	UnhideSurface(ctx context.Context, id entity.NodeID) error
	// GetSurfaceSnapshot returns the host-committed state of every surface.
	GetSurfaceSnapshot(ctx context.Context) (entity.SurfaceSnapshot, error)
	// CaptureSurfaceFrame returns an encoded still image of the surface.
	CaptureSurfaceFrame(ctx context.Context, id entity.NodeID, rect entity.Rect) ([]byte, error)
}

// SurfaceBackend is the host-side engine that actually renders surfaces.
// Implementations run on the host context only.
type SurfaceBackend interface {
	Create(id entity.NodeID) error
	Load(id entity.NodeID, locator string) error
	SetBounds(id entity.NodeID, rect entity.Rect) error
	// Attach places the surface in the visible layer.
	Attach(id entity.NodeID) error
	// Detach moves the surface to the holding area; it stays alive.
	Detach(id entity.NodeID) error
	// Capture grabs the surface's current frame.
	Capture(id entity.NodeID) (image.Image, error)
	Destroy(id entity.NodeID) error
}
