package bedrock

import (
	"image/color"
	"math"
	"testing"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/particle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/teleport"
)

type recordedParticle struct {
	pos mgl64.Vec3
	p   world.Particle
}

type fakeSink struct {
	particles []recordedParticle
}

func (s *fakeSink) AddParticle(pos mgl64.Vec3, p world.Particle) {
	s.particles = append(s.particles, recordedParticle{pos: pos, p: p})
}

func TestParticleSegmentDraw(t *testing.T) {
	curve := teleport.NewSpline()
	curve.SetTransform(mgl64.Translate3D(10, 64, -5))

	factory := &particleSegments{}
	seg := factory.NewSegment(curve, teleport.Mesh{Name: "arc", Density: 4}).(*ParticleSegment)

	red := teleport.Colour{R: 0xff, A: 0xff}
	start, end := mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 0}
	seg.SetStartAndEnd(start, end.Sub(start), end, end.Sub(start))
	seg.SetMaterial(teleport.Material{Name: "on", Colour: red})

	sink := &fakeSink{}
	factory.draw(sink)
	if len(sink.particles) != 0 {
		t.Fatalf("hidden segment drew %d particles", len(sink.particles))
	}

	seg.SetVisible(true)
	factory.draw(sink)

	if len(sink.particles) != 9 {
		t.Fatalf("expected 9 particles for 2 blocks at density 4 including the end, got %d", len(sink.particles))
	}
	for i, rp := range sink.particles {
		want := mgl64.Vec3{10 + float64(i)*0.25, 64, -5}
		if !near(rp.pos, want, 1e-9) {
			t.Errorf("particle %d: expected %v, got %v", i, want, rp.pos)
		}
		dust, ok := rp.p.(particle.Dust)
		if !ok || dust.Colour != (color.RGBA{R: 0xff, A: 0xff}) {
			t.Errorf("particle %d: expected red dust, got %#v", i, rp.p)
		}
	}
}

func TestParticleSegmentMinimumSample(t *testing.T) {
	seg := &ParticleSegment{parent: teleport.NewSpline(), density: 0, visible: true}
	seg.SetStartAndEnd(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})

	if got := len(seg.samples(false)); got != 1 {
		t.Errorf("expected a single sample, got %d", got)
	}
	if got := len(seg.samples(true)); got != 2 {
		t.Errorf("expected start and end samples when closing, got %d", got)
	}
}

func TestParticleSegmentsJoin(t *testing.T) {
	curve := teleport.NewSpline()
	factory := &particleSegments{}
	mesh := teleport.Mesh{Density: 2}

	pts := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
	for i := 0; i < len(pts)-1; i++ {
		seg := factory.NewSegment(curve, mesh).(*ParticleSegment)
		d := pts[i+1].Sub(pts[i])
		seg.SetStartAndEnd(pts[i], d, pts[i+1], d)
		seg.SetVisible(i < 2)
	}

	sink := &fakeSink{}
	factory.draw(sink)

	// Two visible unit segments at density 2, closed by the second's end.
	want := []mgl64.Vec3{{0, 0, 0}, {0.5, 0, 0}, {1, 0, 0}, {1.5, 0, 0}, {2, 0, 0}}
	if len(sink.particles) != len(want) {
		t.Fatalf("expected %d particles, got %d", len(want), len(sink.particles))
	}
	for i, rp := range sink.particles {
		if !near(rp.pos, want[i], 1e-9) {
			t.Errorf("particle %d: expected %v, got %v", i, want[i], rp.pos)
		}
	}
}

func TestParticleMarkerDraw(t *testing.T) {
	m := newParticleMarker(0.5, teleport.Colour{B: 0xff, A: 0xff})
	sink := &fakeSink{}

	m.SetMarkerLocation(mgl64.Vec3{3, 64, 3})
	m.draw(sink)
	if len(sink.particles) != 0 {
		t.Fatal("hidden marker drew particles")
	}

	m.SetMarkerVisible(true)
	m.draw(sink)
	if len(sink.particles) != markerPoints {
		t.Fatalf("expected %d particles, got %d", markerPoints, len(sink.particles))
	}
	centre := mgl64.Vec3{3, 64.05, 3}
	for i, rp := range sink.particles {
		if d := rp.pos.Sub(centre).Len(); math.Abs(d-0.5) > 1e-9 {
			t.Errorf("particle %d is %v from the centre", i, d)
		}
	}
}

func TestRightOf(t *testing.T) {
	tests := []struct {
		yaw  float64
		want mgl64.Vec3
	}{
		{0, mgl64.Vec3{-1, 0, 0}},
		{90, mgl64.Vec3{0, 0, -1}},
		{180, mgl64.Vec3{1, 0, 0}},
		{-90, mgl64.Vec3{0, 0, 1}},
	}
	for _, tt := range tests {
		got := rightOf(tt.yaw)
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Errorf("rightOf(%v) = %v, want %v", tt.yaw, got, tt.want)
				break
			}
		}
	}
}

func TestUnboundRig(t *testing.T) {
	r := newPlayerRig(teleport.Colour{A: 0xff})

	if r.Head() != (teleport.Pose{}) || r.RightHand() != (teleport.Pose{}) {
		t.Error("unbound rig must report zero poses")
	}
	r.SetLocation(mgl64.Vec3{1, 2, 3})
	r.StartFade(0, 1, 0)

	sink := &fakeSink{}
	r.draw(sink)
	if len(sink.particles) != 0 {
		t.Error("unbound rig drew hands")
	}
	if r.HalfHeight() != playerHalfHeight || r.UpVector() != (mgl64.Vec3{0, 1, 0}) {
		t.Error("unexpected body dimensions")
	}
}
