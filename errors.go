package teleport

import "errors"

// Reasons a destination can be invalid. They are reported through
// Destination.Reason and never returned from per-frame or trigger operations:
// every one of them degrades to "no destination".
var (
	// ErrNoHit means neither the ray nor the projectile intersected anything.
	ErrNoHit = errors.New("teleport: no hit")

	// ErrOffNavMesh means the intersection is not within snapping distance of
	// navigable geometry.
	ErrOffNavMesh = errors.New("teleport: off navigation mesh")

	// ErrNoProvider means the navigation service is unavailable.
	ErrNoProvider = errors.New("teleport: no navigation provider")
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("teleport: invalid config")
