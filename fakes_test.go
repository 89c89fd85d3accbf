package teleport

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// fakeQuery is a scripted SpatialQuery.
type fakeQuery struct {
	rayHit  *Hit
	path    *ProjectilePath
	navOK   bool
	navSnap func(mgl64.Vec3) mgl64.Vec3

	lineTraces  int
	predictions int
	lastStart   mgl64.Vec3
	lastEnd     mgl64.Vec3
	lastChannel Channel
	lastParams  ProjectileParams
	lastExtent  mgl64.Vec3
	lastPoint   mgl64.Vec3
}

func (q *fakeQuery) Name() string { return "fake" }

func (q *fakeQuery) LineTrace(start, end mgl64.Vec3, ch Channel) (Hit, bool) {
	q.lineTraces++
	q.lastStart, q.lastEnd, q.lastChannel = start, end, ch
	if q.rayHit == nil {
		return Hit{}, false
	}
	return *q.rayHit, true
}

func (q *fakeQuery) PredictProjectilePath(params ProjectileParams) (ProjectilePath, bool) {
	q.predictions++
	q.lastParams = params
	if q.path == nil {
		return ProjectilePath{}, false
	}
	return *q.path, true
}

func (q *fakeQuery) ProjectPointToNavigation(point, extent mgl64.Vec3) (mgl64.Vec3, bool) {
	q.lastPoint, q.lastExtent = point, extent
	if !q.navOK {
		return mgl64.Vec3{}, false
	}
	if q.navSnap != nil {
		return q.navSnap(point), true
	}
	return point, true
}

type fakePoses struct {
	head  Pose
	right Pose
}

func (p *fakePoses) Head() Pose      { return p.head }
func (p *fakePoses) RightHand() Pose { return p.right }

type fakeHands struct {
	visible bool
	calls   int
}

func (h *fakeHands) SetHandsVisible(visible bool) {
	h.visible = visible
	h.calls++
}

type fakeSegment struct {
	parent   Curve
	mesh     Mesh
	visible  bool
	start    mgl64.Vec3
	startTan mgl64.Vec3
	end      mgl64.Vec3
	endTan   mgl64.Vec3
	material Material
}

func (s *fakeSegment) SetVisible(visible bool) { s.visible = visible }

func (s *fakeSegment) SetStartAndEnd(startPos, startTangent, endPos, endTangent mgl64.Vec3) {
	s.start, s.startTan, s.end, s.endTan = startPos, startTangent, endPos, endTangent
}

func (s *fakeSegment) SetMaterial(m Material) { s.material = m }

type fakeFactory struct {
	created []*fakeSegment
}

func (f *fakeFactory) NewSegment(parent Curve, mesh Mesh) Segment {
	seg := &fakeSegment{parent: parent, mesh: mesh}
	f.created = append(f.created, seg)
	return seg
}

func (f *fakeFactory) visible() int {
	n := 0
	for _, s := range f.created {
		if s.visible {
			n++
		}
	}
	return n
}

type fakeMarker struct {
	visible  bool
	location mgl64.Vec3
}

func (m *fakeMarker) SetMarkerVisible(visible bool)         { m.visible = visible }
func (m *fakeMarker) SetMarkerLocation(location mgl64.Vec3) { m.location = location }

type fakeBody struct {
	location   mgl64.Vec3
	up         mgl64.Vec3
	halfHeight float64
	moves      int
}

func (b *fakeBody) Location() mgl64.Vec3 { return b.location }

func (b *fakeBody) SetLocation(location mgl64.Vec3) {
	b.location = location
	b.moves++
}

func (b *fakeBody) UpVector() mgl64.Vec3 { return b.up }
func (b *fakeBody) HalfHeight() float64  { return b.halfHeight }

type fadeCall struct {
	from, to float64
	duration time.Duration
	at       time.Time
}

type fakeFader struct {
	clock Clock
	calls []fadeCall
}

func (f *fakeFader) StartFade(from, to float64, d time.Duration) {
	var at time.Time
	if f.clock != nil {
		at = f.clock.Now()
	}
	f.calls = append(f.calls, fadeCall{from: from, to: to, duration: d, at: at})
}

func vecNear(a, b mgl64.Vec3) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}
