package teleport

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Destination is the resolved teleport target for one frame.
// It is valid only when the terminal sample point collided with a surface
// and lies within snapping distance of navigable geometry.
type Destination struct {
	// Location is the projected navigable point. Zero when invalid.
	Location mgl64.Vec3

	// Valid reports whether Location may be teleported to.
	Valid bool

	// Reason is ErrNoHit, ErrOffNavMesh or ErrNoProvider when invalid.
	Reason error
}

// Resolver validates the terminal point of a sample against navigable
// geometry.
type Resolver struct {
	nav    Navigator
	extent mgl64.Vec3
}

// NewResolver creates a resolver that snaps within the given half extents.
// A nil navigator makes every resolution fail with ErrNoProvider.
func NewResolver(nav Navigator, extent mgl64.Vec3) *Resolver {
	return &Resolver{nav: nav, extent: extent}
}

// Resolve returns the destination for the sample. The result depends only
// on the sample and the navigator's current state.
func (r *Resolver) Resolve(sample Sample) Destination {
	point, ok := sample.Terminal()
	if !ok {
		return Destination{Reason: ErrNoHit}
	}
	if r.nav == nil {
		return Destination{Reason: ErrNoProvider}
	}

	projected, ok := r.nav.ProjectPointToNavigation(point, r.extent)
	if !ok {
		return Destination{Reason: ErrOffNavMesh}
	}
	return Destination{Location: projected, Valid: true}
}
