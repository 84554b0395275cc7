package surface

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/bnema/tilegrid/internal/domain/entity"
)

// HeadlessBackend renders surfaces in memory. Each surface paints a solid
// color derived from its locator, which is enough for placeholders and tests.
type HeadlessBackend struct {
	mu       sync.Mutex
	surfaces map[entity.NodeID]*headlessSurface
}

type headlessSurface struct {
	locator  string
	bounds   entity.Rect
	attached bool
}

// NewHeadlessBackend creates an empty backend.
func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{surfaces: make(map[entity.NodeID]*headlessSurface)}
}

func (b *HeadlessBackend) get(id entity.NodeID) (*headlessSurface, error) {
	s, ok := b.surfaces[id]
	if !ok {
		return nil, fmt.Errorf("backend %s: %w", id, ErrSurfaceNotFound)
	}
	return s, nil
}

func (b *HeadlessBackend) Create(id entity.NodeID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.surfaces[id]; ok {
		return fmt.Errorf("backend %s: %w", id, ErrSurfaceExists)
	}
	b.surfaces[id] = &headlessSurface{}
	return nil
}

func (b *HeadlessBackend) Load(id entity.NodeID, locator string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.get(id)
	if err != nil {
		return err
	}
	s.locator = locator
	return nil
}

func (b *HeadlessBackend) SetBounds(id entity.NodeID, rect entity.Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.get(id)
	if err != nil {
		return err
	}
	s.bounds = rect
	return nil
}

func (b *HeadlessBackend) Attach(id entity.NodeID) error {
	return b.setAttached(id, true)
}

func (b *HeadlessBackend) Detach(id entity.NodeID) error {
	return b.setAttached(id, false)
}

func (b *HeadlessBackend) setAttached(id entity.NodeID, attached bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.get(id)
	if err != nil {
		return err
	}
	s.attached = attached
	return nil
}

// Attached reports whether the surface is in the visible layer.
func (b *HeadlessBackend) Attached(id entity.NodeID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.surfaces[id]
	return ok && s.attached
}

// Bounds returns the bounds last applied to the surface.
func (b *HeadlessBackend) Bounds(id entity.NodeID) (entity.Rect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.surfaces[id]
	if !ok {
		return entity.Rect{}, false
	}
	return s.bounds, true
}

func (b *HeadlessBackend) Capture(id entity.NodeID) (image.Image, error) {
	b.mu.Lock()
	s, err := b.get(id)
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	bounds, locator := s.bounds, s.locator
	b.mu.Unlock()

	w, h := bounds.W, bounds.H
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	return imaging.New(w, h, LocatorColor(locator)), nil
}

func (b *HeadlessBackend) Destroy(id entity.NodeID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.surfaces, id)
	return nil
}

// LocatorColor derives a stable color for a locator.
func LocatorColor(locator string) color.NRGBA {
	if locator == "" {
		return color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(locator))
	sum := h.Sum32()
	return color.NRGBA{R: uint8(sum >> 16), G: uint8(sum >> 8), B: uint8(sum), A: 0xff}
}
