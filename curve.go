package teleport

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Curve is a renderable spline whose control points live in the curve's own
// local frame.
type Curve interface {
	// ClearPoints removes every control point.
	ClearPoints()

	// AddPoint appends a control point given in local space.
	AddPoint(local mgl64.Vec3, kind PointType)

	// Update recomputes the curve geometry after points changed.
	Update()

	// NumPoints returns the number of control points.
	NumPoints() int

	// LocalLocationAndTangent returns the local location and tangent at
	// control point i.
	LocalLocationAndTangent(i int) (location, tangent mgl64.Vec3)

	// WorldToLocal converts a world-space position into the curve frame.
	WorldToLocal(world mgl64.Vec3) mgl64.Vec3

	// LocalToWorld converts a curve-frame position into world space.
	LocalToWorld(local mgl64.Vec3) mgl64.Vec3
}

type splinePoint struct {
	location mgl64.Vec3
	tangent  mgl64.Vec3
	kind     PointType
}

// Spline is an in-process Curve. Tangents of PointCurve points follow the
// neighbouring points (next minus previous, one-sided at the ends), so
// consecutive spans join smoothly when evaluated with Hermite.
type Spline struct {
	transform mgl64.Mat4
	inverse   mgl64.Mat4
	points    []splinePoint
	dirty     bool
}

// Compile-time check that Spline implements Curve.
var _ Curve = (*Spline)(nil)

// NewSpline creates an empty spline located at the world origin.
func NewSpline() *Spline {
	return &Spline{
		transform: mgl64.Ident4(),
		inverse:   mgl64.Ident4(),
	}
}

// SetTransform places the spline's local frame in the world.
// The matrix must be invertible.
func (s *Spline) SetTransform(m mgl64.Mat4) {
	s.transform = m
	s.inverse = m.Inv()
}

// Transform returns the local-to-world transform.
func (s *Spline) Transform() mgl64.Mat4 {
	return s.transform
}

// ClearPoints implements Curve.
func (s *Spline) ClearPoints() {
	s.points = s.points[:0]
	s.dirty = true
}

// AddPoint implements Curve.
func (s *Spline) AddPoint(local mgl64.Vec3, kind PointType) {
	s.points = append(s.points, splinePoint{location: local, kind: kind})
	s.dirty = true
}

// NumPoints implements Curve.
func (s *Spline) NumPoints() int {
	return len(s.points)
}

// Update implements Curve.
func (s *Spline) Update() {
	n := len(s.points)
	for i := range s.points {
		p := &s.points[i]
		prev := s.points[max(i-1, 0)].location
		next := s.points[min(i+1, n-1)].location

		switch p.kind {
		case PointCurve:
			p.tangent = next.Sub(prev)
		case PointLinear:
			if i < n-1 {
				p.tangent = next.Sub(p.location)
			} else {
				p.tangent = p.location.Sub(prev)
			}
		default:
			p.tangent = mgl64.Vec3{}
		}
	}
	s.dirty = false
}

// LocalLocationAndTangent implements Curve. Out of range indices return zero
// vectors.
func (s *Spline) LocalLocationAndTangent(i int) (location, tangent mgl64.Vec3) {
	if i < 0 || i >= len(s.points) {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	if s.dirty {
		s.Update()
	}
	return s.points[i].location, s.points[i].tangent
}

// WorldToLocal implements Curve.
func (s *Spline) WorldToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(world, s.inverse)
}

// LocalToWorld implements Curve.
func (s *Spline) LocalToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(local, s.transform)
}

// Evaluate returns the local position a fraction t (0..1) of the way along
// the span starting at control point i.
func (s *Spline) Evaluate(i int, t float64) mgl64.Vec3 {
	p0, t0 := s.LocalLocationAndTangent(i)
	if i+1 >= len(s.points) {
		return p0
	}
	p1, t1 := s.LocalLocationAndTangent(i + 1)
	return Hermite(p0, t0, p1, t1, t)
}

// Hermite evaluates the cubic Hermite span from p0 (tangent m0) to p1
// (tangent m1) at t in [0, 1].
func Hermite(p0, m0, p1, m1 mgl64.Vec3, t float64) mgl64.Vec3 {
	t2 := t * t
	t3 := t2 * t

	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	return p0.Mul(h00).
		Add(m0.Mul(h10)).
		Add(p1.Mul(h01)).
		Add(m1.Mul(h11))
}
