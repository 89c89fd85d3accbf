package bedrock

import (
	"math"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/particle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/teleport"
)

// particleSink receives particles. *world.Tx implements it.
type particleSink interface {
	AddParticle(pos mgl64.Vec3, p world.Particle)
}

// ParticleSegment is a teleport.Segment drawn as dust particles sampled along
// its Hermite span. Samples are spaced by the mesh density, in particles per
// block.
type ParticleSegment struct {
	parent   teleport.Curve
	density  float64
	visible  bool
	material teleport.Material

	startPos, startTangent mgl64.Vec3
	endPos, endTangent     mgl64.Vec3
}

// Compile-time check that ParticleSegment implements teleport.Segment.
var _ teleport.Segment = (*ParticleSegment)(nil)

// SetVisible implements teleport.Segment.
func (s *ParticleSegment) SetVisible(visible bool) {
	s.visible = visible
}

// SetStartAndEnd implements teleport.Segment.
func (s *ParticleSegment) SetStartAndEnd(startPos, startTangent, endPos, endTangent mgl64.Vec3) {
	s.startPos, s.startTangent = startPos, startTangent
	s.endPos, s.endTangent = endPos, endTangent
}

// SetMaterial implements teleport.Segment.
func (s *ParticleSegment) SetMaterial(m teleport.Material) {
	s.material = m
}

// Visible reports whether the segment is drawn.
func (s *ParticleSegment) Visible() bool {
	return s.visible
}

// samples returns the world positions the segment draws at. The end point is
// only included when closing is set, so joined segments do not draw their
// shared point twice.
func (s *ParticleSegment) samples(closing bool) []mgl64.Vec3 {
	length := s.endPos.Sub(s.startPos).Len()
	n := int(math.Ceil(length * s.density))
	if n < 1 {
		n = 1
	}
	count := n
	if closing {
		count++
	}

	out := make([]mgl64.Vec3, 0, count)
	for i := 0; i < count; i++ {
		t := float64(i) / float64(n)
		local := teleport.Hermite(s.startPos, s.startTangent, s.endPos, s.endTangent, t)
		out = append(out, s.parent.LocalToWorld(local))
	}
	return out
}

func (s *ParticleSegment) draw(sink particleSink, closing bool) {
	if !s.visible {
		return
	}
	dust := particle.Dust{Colour: s.material.Colour.Color()}
	for _, pos := range s.samples(closing) {
		sink.AddParticle(pos, dust)
	}
}

// particleSegments is the segment factory of one session. It keeps every
// segment it created so they can be drawn each tick.
type particleSegments struct {
	segments []*ParticleSegment
}

// NewSegment implements teleport.SegmentFactory.
func (f *particleSegments) NewSegment(parent teleport.Curve, mesh teleport.Mesh) teleport.Segment {
	seg := &ParticleSegment{parent: parent, density: mesh.Density}
	f.segments = append(f.segments, seg)
	return seg
}

// draw draws every visible segment. The last visible one closes the path at
// its landing point.
func (f *particleSegments) draw(sink particleSink) {
	last := -1
	for i, seg := range f.segments {
		if seg.visible {
			last = i
		}
	}
	for i, seg := range f.segments {
		seg.draw(sink, i == last)
	}
}

// markerPoints is the number of particles in the marker ring.
const markerPoints = 12

// ParticleMarker is a teleport.Marker drawn as a ring of dust on the
// destination surface.
type ParticleMarker struct {
	visible  bool
	location mgl64.Vec3
	radius   float64
	colour   teleport.Colour
}

// Compile-time check that ParticleMarker implements teleport.Marker.
var _ teleport.Marker = (*ParticleMarker)(nil)

func newParticleMarker(radius float64, colour teleport.Colour) *ParticleMarker {
	return &ParticleMarker{radius: radius, colour: colour}
}

// SetMarkerVisible implements teleport.Marker.
func (m *ParticleMarker) SetMarkerVisible(visible bool) {
	m.visible = visible
}

// SetMarkerLocation implements teleport.Marker.
func (m *ParticleMarker) SetMarkerLocation(location mgl64.Vec3) {
	m.location = location
}

// Visible reports whether the marker is drawn.
func (m *ParticleMarker) Visible() bool {
	return m.visible
}

// Location returns the marker location.
func (m *ParticleMarker) Location() mgl64.Vec3 {
	return m.location
}

func (m *ParticleMarker) draw(sink particleSink) {
	if !m.visible {
		return
	}
	dust := particle.Dust{Colour: m.colour.Color()}
	// Lift the ring off the surface so it is not hidden inside the block.
	centre := m.location.Add(mgl64.Vec3{0, 0.05, 0})
	for i := 0; i < markerPoints; i++ {
		a := 2 * math.Pi * float64(i) / markerPoints
		sink.AddParticle(centre.Add(mgl64.Vec3{math.Cos(a) * m.radius, 0, math.Sin(a) * m.radius}), dust)
	}
}
