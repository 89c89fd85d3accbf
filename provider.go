package teleport

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Provider is the base interface for the engine services the teleport
// subsystem queries.
type Provider interface {
	// Name returns a unique identifier for this provider (for logging/debugging).
	Name() string
}

// Hit describes where a trace struck a surface.
type Hit struct {
	// Location is the world-space impact point.
	Location mgl64.Vec3

	// Normal is the surface normal at the impact point. It may be zero when
	// the trace started inside geometry.
	Normal mgl64.Vec3

	// Distance is the distance travelled along the trace before impact.
	Distance float64
}

// ProjectileParams describes a ballistic path prediction request.
type ProjectileParams struct {
	// Start is the launch position.
	Start mgl64.Vec3

	// Velocity is the launch velocity.
	Velocity mgl64.Vec3

	// Radius is the radius of the simulated projectile.
	Radius float64

	// MaxSimTime bounds the simulated duration.
	MaxSimTime time.Duration

	// Gravity is the constant acceleration applied to the projectile.
	Gravity mgl64.Vec3

	// Channel filters what the projectile collides with.
	Channel Channel

	// TraceComplex asks the provider to collide against complex geometry
	// rather than simplified collision hulls.
	TraceComplex bool
}

// ProjectilePath is the result of a projectile prediction.
type ProjectilePath struct {
	// Points are the simulated waypoints in order, starting at launch.
	Points []mgl64.Vec3

	// Impact is the final hit. Only meaningful when the prediction hit.
	Impact Hit
}

// Tracer performs ray casts and ballistic trajectory prediction.
type Tracer interface {
	// LineTrace returns the first blocking hit between start and end.
	LineTrace(start, end mgl64.Vec3, ch Channel) (Hit, bool)

	// PredictProjectilePath simulates a projectile and reports whether it
	// struck anything within the simulated duration.
	PredictProjectilePath(params ProjectileParams) (ProjectilePath, bool)
}

// Navigator projects points onto navigable geometry.
type Navigator interface {
	// ProjectPointToNavigation returns the navigable point closest to point
	// within the box of the given half extents.
	ProjectPointToNavigation(point, extent mgl64.Vec3) (mgl64.Vec3, bool)
}

// SpatialQuery is the full set of spatial services a concrete engine binding
// provides.
type SpatialQuery interface {
	Provider
	Tracer
	Navigator
}
