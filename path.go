package teleport

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Material is the look bound to a path segment.
type Material struct {
	Name   string `yaml:"name"`
	Colour Colour `yaml:"colour"`
}

// Mesh is the rigid segment mesh deformed along each curve span.
type Mesh struct {
	Name string `yaml:"name"`

	// Density is how many samples per unit of span length a renderer should
	// draw. Renderers that deform a real mesh may ignore it.
	Density float64 `yaml:"density"`
}

// Segment is a pooled visual that follows one span of a Curve.
type Segment interface {
	SetVisible(visible bool)
	SetStartAndEnd(startPos, startTangent, endPos, endTangent mgl64.Vec3)
	SetMaterial(m Material)
}

// SegmentFactory allocates new segments attached under the given curve.
type SegmentFactory interface {
	NewSegment(parent Curve, mesh Mesh) Segment
}

// SegmentFactoryFunc adapts a function to SegmentFactory.
type SegmentFactoryFunc func(parent Curve, mesh Mesh) Segment

// NewSegment implements SegmentFactory.
func (f SegmentFactoryFunc) NewSegment(parent Curve, mesh Mesh) Segment {
	return f(parent, mesh)
}

// PathBuilder renders a trajectory sample as a curve plus a pool of segment
// visuals. The pool only grows: entries unused in a frame are hidden and kept
// for reuse.
type PathBuilder struct {
	curve    Curve
	factory  SegmentFactory
	mesh     Mesh
	active   Material
	inactive Material

	pool    []Segment
	visible int
}

// NewPathBuilder creates a builder drawing onto curve.
func NewPathBuilder(curve Curve, factory SegmentFactory, mesh Mesh, active, inactive Material) *PathBuilder {
	return &PathBuilder{
		curve:    curve,
		factory:  factory,
		mesh:     mesh,
		active:   active,
		inactive: inactive,
	}
}

// Render rebuilds the curve from sample and shows one segment per span,
// bound to the active material when valid and the inactive one otherwise.
func (b *PathBuilder) Render(sample Sample, valid bool) {
	b.updateCurve(sample.Points)

	material := b.inactive
	if valid {
		material = b.active
	}

	n := sample.Segments()
	for i := 0; i < n; i++ {
		if i >= len(b.pool) {
			b.pool = append(b.pool, b.factory.NewSegment(b.curve, b.mesh))
		}

		seg := b.pool[i]
		seg.SetVisible(true)

		startPos, startTangent := b.curve.LocalLocationAndTangent(i)
		endPos, endTangent := b.curve.LocalLocationAndTangent(i + 1)
		seg.SetStartAndEnd(startPos, startTangent, endPos, endTangent)
		seg.SetMaterial(material)
	}

	for i := n; i < len(b.pool); i++ {
		b.pool[i].SetVisible(false)
	}
	b.visible = n
}

// updateCurve replaces every control point with the sample points converted
// into the curve's local frame.
func (b *PathBuilder) updateCurve(points []mgl64.Vec3) {
	b.curve.ClearPoints()
	for _, p := range points {
		b.curve.AddPoint(b.curve.WorldToLocal(p), PointCurve)
	}
	b.curve.Update()
}

// Hide hides every pooled segment and empties the curve.
func (b *PathBuilder) Hide() {
	b.Render(Sample{}, false)
}

// Len returns the pool length.
func (b *PathBuilder) Len() int {
	return len(b.pool)
}

// Visible returns how many pooled segments the last Render showed.
func (b *PathBuilder) Visible() int {
	return b.visible
}

// Segment returns the pooled segment at index i.
func (b *PathBuilder) Segment(i int) Segment {
	return b.pool[i]
}

// Curve returns the curve the builder draws onto.
func (b *PathBuilder) Curve() Curve {
	return b.curve
}
