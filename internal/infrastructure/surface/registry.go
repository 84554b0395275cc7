// Package surface holds the host-side record of every content surface.
package surface

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/tilegrid/internal/application/port"
	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/logging"
)

var (
	// ErrSurfaceExists is returned by Create for an id that already has a surface.
	ErrSurfaceExists = errors.New("surface already exists")
	// ErrSurfaceNotFound is returned for operations on an unknown id.
	ErrSurfaceNotFound = errors.New("surface not found")
)

// Registry is the authoritative table of surfaces on the host context.
//
// Mutations arrive from the bridge server goroutine. Snapshot may be read
// concurrently by diagnostics.
type Registry struct {
	backend port.SurfaceBackend

	mu      sync.RWMutex
	records map[entity.NodeID]*entity.SurfaceRecord
}

// NewRegistry creates a registry driving backend.
func NewRegistry(backend port.SurfaceBackend) *Registry {
	return &Registry{
		backend: backend,
		records: make(map[entity.NodeID]*entity.SurfaceRecord),
	}
}

// Create allocates a surface for id. An existing id is left untouched and
// ErrSurfaceExists is returned. An invalid initial rect is replaced with
// entity.SafeRect.
func (r *Registry) Create(ctx context.Context, id entity.NodeID, opts entity.SurfaceOptions) error {
	log := logging.FromContext(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; ok {
		log.Debug().Str("surface_id", string(id)).Msg("surface already exists")
		return fmt.Errorf("create %s: %w", id, ErrSurfaceExists)
	}

	if err := r.backend.Create(id); err != nil {
		return fmt.Errorf("create %s: %w", id, err)
	}

	rect, verr := opts.Rect.Raw().Rect()
	if verr != nil {
		log.Warn().Err(verr).Str("surface_id", string(id)).Msg("rejected initial rect, using safe rect")
	}
	rec := &entity.SurfaceRecord{ID: id, Rect: rect}
	if err := r.backend.SetBounds(id, rect); err != nil {
		log.Warn().Err(err).Str("surface_id", string(id)).Msg("failed to set initial bounds")
	}

	if opts.Locator == "" {
		rec.HiddenNoLocator = true
	} else {
		rec.Locator = opts.Locator
		if err := r.backend.Load(id, opts.Locator); err != nil {
			log.Warn().Err(err).Str("surface_id", string(id)).Msg("failed to load locator")
		}
		if err := r.backend.Attach(id); err != nil {
			log.Warn().Err(err).Str("surface_id", string(id)).Msg("failed to attach surface")
		}
		rec.Visible = true
	}

	r.records[id] = rec
	log.Debug().
		Str("surface_id", string(id)).
		Str("rect", rect.String()).
		Bool("visible", rec.Visible).
		Msg("surface created")
	return nil
}

// SetRect commits new bounds. Invalid geometry is logged and replaced with
// entity.SafeRect; the returned error wraps entity.ErrInvalidGeometry.
func (r *Registry) SetRect(ctx context.Context, id entity.NodeID, raw entity.RawRect) error {
	log := logging.FromContext(ctx)

	rect, verr := raw.Rect()
	if verr != nil {
		log.Warn().Err(verr).Str("surface_id", string(id)).Msg("rejected surface rect, using safe rect")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		log.Debug().Str("surface_id", string(id)).Msg("set rect on unknown surface")
		return fmt.Errorf("set rect %s: %w", id, ErrSurfaceNotFound)
	}

	if err := r.backend.SetBounds(id, rect); err != nil {
		return fmt.Errorf("set rect %s: %w", id, err)
	}
	rec.Rect = rect
	return verr
}

// SetLocator loads content into the surface. A surface hidden only because
// it had nothing to show becomes visible.
func (r *Registry) SetLocator(ctx context.Context, id entity.NodeID, locator string) error {
	log := logging.FromContext(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		log.Debug().Str("surface_id", string(id)).Msg("set locator on unknown surface")
		return fmt.Errorf("set locator %s: %w", id, ErrSurfaceNotFound)
	}

	if err := r.backend.Load(id, locator); err != nil {
		return fmt.Errorf("load %s: %w", id, err)
	}
	rec.Locator = locator

	if rec.HiddenNoLocator && locator != "" {
		rec.HiddenNoLocator = false
		if !rec.HiddenForEdit {
			if err := r.backend.Attach(id); err != nil {
				return fmt.Errorf("attach %s: %w", id, err)
			}
			rec.Visible = true
		}
	}
	return nil
}

// Delete destroys the surface. Unknown ids are a no-op.
func (r *Registry) Delete(ctx context.Context, id entity.NodeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return nil
	}
	delete(r.records, id)

	if err := r.backend.Destroy(id); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("surface_id", string(id)).Msg("backend destroy failed")
	}
	return nil
}

// Hide moves the surface into the holding area.
func (r *Registry) Hide(ctx context.Context, id entity.NodeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("hide %s: %w", id, ErrSurfaceNotFound)
	}
	rec.HiddenForEdit = true
	if !rec.Visible {
		return nil
	}
	if err := r.backend.Detach(id); err != nil {
		return fmt.Errorf("detach %s: %w", id, err)
	}
	rec.Visible = false
	logging.FromContext(ctx).Trace().Str("surface_id", string(id)).Msg("surface hidden")
	return nil
}

// Unhide reverses Hide. A surface without a locator stays hidden.
func (r *Registry) Unhide(ctx context.Context, id entity.NodeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("unhide %s: %w", id, ErrSurfaceNotFound)
	}
	rec.HiddenForEdit = false
	if rec.Visible || rec.HiddenNoLocator {
		return nil
	}
	if err := r.backend.Attach(id); err != nil {
		return fmt.Errorf("attach %s: %w", id, err)
	}
	rec.Visible = true
	logging.FromContext(ctx).Trace().Str("surface_id", string(id)).Msg("surface unhidden")
	return nil
}

// Snapshot returns the committed locator and rect of every surface.
func (r *Registry) Snapshot() entity.SurfaceSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(entity.SurfaceSnapshot, len(r.records))
	for id, rec := range r.records {
		out[id] = rec.State()
	}
	return out
}

// Record returns a copy of the record for id.
func (r *Registry) Record(id entity.NodeID) (entity.SurfaceRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return entity.SurfaceRecord{}, false
	}
	return *rec, true
}

// Records returns a copy of every record.
func (r *Registry) Records() []entity.SurfaceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.SurfaceRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out
}

// Capture grabs the surface's current frame and encodes it at rect's size.
func (r *Registry) Capture(ctx context.Context, id entity.NodeID, rect entity.Rect) ([]byte, error) {
	r.mu.RLock()
	_, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("capture %s: %w", id, ErrSurfaceNotFound)
	}

	img, err := r.backend.Capture(id)
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", id, err)
	}
	frame, err := EncodeFrame(img, rect)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", id, err)
	}
	logging.FromContext(ctx).Debug().
		Str("surface_id", string(id)).
		Int("bytes", len(frame)).
		Msg("surface frame captured")
	return frame, nil
}
