package entity

// SurfaceOptions are passed when a surface is created.
type SurfaceOptions struct {
	Locator string `json:"locator,omitempty"`
	Rect    Rect   `json:"rect"`
}

// SurfaceRecord is the host's authoritative state for one surface.
type SurfaceRecord struct {
	ID      NodeID
	Rect    Rect
	Locator string
	Visible bool
	// HiddenForEdit is set while the surface sits in the holding area for a
	// global suppression (edit mode, divider drag).
	HiddenForEdit bool
	// HiddenNoLocator is set while the surface has nothing to show.
	HiddenNoLocator bool
}

// State returns the snapshot view of the record.
func (r *SurfaceRecord) State() SurfaceState {
	return SurfaceState{Locator: r.Locator, Rect: r.Rect}
}

// SurfaceState is one entry of a host snapshot.
type SurfaceState struct {
	Locator string `json:"locator"`
	Rect    Rect   `json:"rect"`
}

// SurfaceSnapshot maps tile ids to the host-committed surface state.
type SurfaceSnapshot map[NodeID]SurfaceState
