package teleport

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a world-space origin and facing.
type Pose struct {
	Location mgl64.Vec3
	Forward  mgl64.Vec3
}

// PoseSource exposes the tracked poses of the character.
type PoseSource interface {
	// Head returns the camera pose.
	Head() Pose

	// RightHand returns the right motion controller pose.
	RightHand() Pose
}

// HandVisuals toggles the visual representation of both motion controllers.
type HandVisuals interface {
	SetHandsVisible(visible bool)
}

// Sample is the ordered sequence of world-space points describing the
// predicted path. It is empty when no valid path exists and is regenerated
// every frame.
type Sample struct {
	Points []mgl64.Vec3
}

// Empty reports whether the sample holds no points.
func (s Sample) Empty() bool {
	return len(s.Points) == 0
}

// Terminal returns the last point of the sample.
func (s Sample) Terminal() (mgl64.Vec3, bool) {
	if len(s.Points) == 0 {
		return mgl64.Vec3{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Segments returns the number of curve segments spanning the sample.
func (s Sample) Segments() int {
	if len(s.Points) < 2 {
		return 0
	}
	return len(s.Points) - 1
}

// Sampler turns the character's pose into a trajectory sample by delegating
// to a Tracer.
type Sampler struct {
	tracer Tracer
	hands  HandVisuals

	maxDistance float64
	speed       float64
	radius      float64
	simTime     time.Duration
	gravity     mgl64.Vec3
	complex     bool
	hideHands   bool
}

// NewSampler creates a sampler using the tuning in cfg. hands may be nil.
func NewSampler(tracer Tracer, hands HandVisuals, cfg Config) *Sampler {
	up := cfg.Up.Vec3()
	if up.Len() > 0 {
		up = up.Normalize()
	}
	return &Sampler{
		tracer:      tracer,
		hands:       hands,
		maxDistance: cfg.MaxDistance,
		speed:       cfg.Projectile.Speed,
		radius:      cfg.Projectile.Radius,
		simTime:     cfg.Projectile.SimulationTime,
		gravity:     up.Mul(-cfg.Projectile.Gravity),
		complex:     cfg.Projectile.TraceComplex,
		hideHands:   cfg.HideHandsInProjectileMode,
	}
}

// Sample predicts the path for the given mode starting at origin.
func (s *Sampler) Sample(mode Mode, origin Pose) Sample {
	switch mode {
	case ProjectileMode:
		s.setHandsVisible(!s.hideHands)
		return s.sampleProjectile(origin)
	default:
		s.setHandsVisible(true)
		return s.sampleRay(origin)
	}
}

// sampleRay casts a single visibility ray; the sample is the hit point alone.
func (s *Sampler) sampleRay(origin Pose) Sample {
	if s.tracer == nil || origin.Forward.Len() == 0 {
		return Sample{}
	}

	start := origin.Location
	end := start.Add(origin.Forward.Normalize().Mul(s.maxDistance))

	hit, ok := s.tracer.LineTrace(start, end, Visibility)
	if !ok {
		return Sample{}
	}
	return Sample{Points: []mgl64.Vec3{hit.Location}}
}

// sampleProjectile simulates an arc; the sample is every waypoint followed by
// the impact point.
func (s *Sampler) sampleProjectile(origin Pose) Sample {
	if s.tracer == nil || origin.Forward.Len() == 0 {
		return Sample{}
	}

	params := ProjectileParams{
		Start:        origin.Location,
		Velocity:     origin.Forward.Normalize().Mul(s.speed),
		Radius:       s.radius,
		MaxSimTime:   s.simTime,
		Gravity:      s.gravity,
		Channel:      Visibility,
		TraceComplex: s.complex,
	}

	path, ok := s.tracer.PredictProjectilePath(params)
	if !ok {
		return Sample{}
	}

	points := make([]mgl64.Vec3, 0, len(path.Points)+1)
	points = append(points, path.Points...)
	if len(points) == 0 || !points[len(points)-1].ApproxEqual(path.Impact.Location) {
		points = append(points, path.Impact.Location)
	}
	return Sample{Points: points}
}

func (s *Sampler) setHandsVisible(visible bool) {
	if s.hands != nil {
		s.hands.SetHandsVisible(visible)
	}
}
