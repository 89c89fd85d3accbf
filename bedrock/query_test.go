package bedrock

import (
	"math"
	"testing"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/teleport"
)

// mapBlocks is a blockSource where listed positions are solid.
type mapBlocks map[cube.Pos]bool

func (m mapBlocks) solid(pos cube.Pos) bool { return m[pos] }

// floor returns a square slab of solid blocks at height y.
func floor(y, half int) mapBlocks {
	m := mapBlocks{}
	for x := -half; x <= half; x++ {
		for z := -half; z <= half; z++ {
			m[cube.Pos{x, y, z}] = true
		}
	}
	return m
}

// near compares component-wise against an absolute tolerance.
func near(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestLineTrace(t *testing.T) {
	tests := []struct {
		name       string
		blocks     mapBlocks
		start, end mgl64.Vec3
		wantHit    bool
		wantLoc    mgl64.Vec3
		wantNormal mgl64.Vec3
	}{
		{
			name:       "straight down onto floor",
			blocks:     floor(63, 4),
			start:      mgl64.Vec3{0.5, 66, 0.5},
			end:        mgl64.Vec3{0.5, 60, 0.5},
			wantHit:    true,
			wantLoc:    mgl64.Vec3{0.5, 64, 0.5},
			wantNormal: mgl64.Vec3{0, 1, 0},
		},
		{
			name:       "into a wall",
			blocks:     mapBlocks{{3, 64, 0}: true},
			start:      mgl64.Vec3{0.5, 64.5, 0.5},
			end:        mgl64.Vec3{10.5, 64.5, 0.5},
			wantHit:    true,
			wantLoc:    mgl64.Vec3{3, 64.5, 0.5},
			wantNormal: mgl64.Vec3{-1, 0, 0},
		},
		{
			name:   "too short",
			blocks: floor(63, 4),
			start:  mgl64.Vec3{0.5, 70, 0.5},
			end:    mgl64.Vec3{0.5, 66, 0.5},
		},
		{
			name:   "empty world",
			blocks: mapBlocks{},
			start:  mgl64.Vec3{0, 70, 0},
			end:    mgl64.Vec3{0, 0, 0},
		},
		{
			name:   "degenerate ray",
			blocks: floor(63, 4),
			start:  mgl64.Vec3{0.5, 64, 0.5},
			end:    mgl64.Vec3{0.5, 64, 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &WorldQuery{blocks: tt.blocks}

			hit, ok := q.LineTrace(tt.start, tt.end, teleport.Visibility)
			if ok != tt.wantHit {
				t.Fatalf("expected hit=%v, got %v (%+v)", tt.wantHit, ok, hit)
			}
			if !ok {
				return
			}
			if !near(hit.Location, tt.wantLoc, 1e-9) {
				t.Errorf("expected hit at %v, got %v", tt.wantLoc, hit.Location)
			}
			if !near(hit.Normal, tt.wantNormal, 1e-9) {
				t.Errorf("expected normal %v, got %v", tt.wantNormal, hit.Normal)
			}
			if want := tt.wantLoc.Sub(tt.start).Len(); math.Abs(hit.Distance-want) > 1e-9 {
				t.Errorf("expected distance %v, got %v", want, hit.Distance)
			}
		})
	}
}

func TestUnboundQuery(t *testing.T) {
	q := NewWorldQuery()

	if _, ok := q.LineTrace(mgl64.Vec3{}, mgl64.Vec3{0, -10, 0}, teleport.Visibility); ok {
		t.Error("unbound query traced a hit")
	}
	if _, ok := q.PredictProjectilePath(teleport.ProjectileParams{MaxSimTime: time.Second}); ok {
		t.Error("unbound query predicted a hit")
	}
	if _, ok := q.ProjectPointToNavigation(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}); ok {
		t.Error("unbound query projected a point")
	}
	if q.Name() == "" {
		t.Error("expected a provider name")
	}
}

func TestPredictProjectilePath(t *testing.T) {
	params := teleport.ProjectileParams{
		Start:      mgl64.Vec3{0.5, 66, 0.5},
		Velocity:   mgl64.Vec3{5, 0, 0},
		MaxSimTime: 2 * time.Second,
		Gravity:    mgl64.Vec3{0, -9.8, 0},
	}

	t.Run("lands on floor", func(t *testing.T) {
		q := &WorldQuery{blocks: floor(63, 20)}

		path, ok := q.PredictProjectilePath(params)
		if !ok {
			t.Fatal("expected the arc to land")
		}
		if len(path.Points) < 2 {
			t.Fatalf("expected several waypoints, got %d", len(path.Points))
		}
		if !near(path.Points[0], params.Start, 1e-12) {
			t.Errorf("first waypoint must be the start, got %v", path.Points[0])
		}
		impact := path.Impact.Location
		if math.Abs(impact.Y()-64) > 1e-9 {
			t.Errorf("expected impact on the floor surface, got %v", impact)
		}
		// Free fall of 2 blocks at 5 blocks/s covers a little over 3 blocks.
		if impact.X() < 3 || impact.X() > 5 {
			t.Errorf("unexpected impact distance %v", impact)
		}
		for i := 1; i < len(path.Points); i++ {
			if path.Points[i].Y() >= path.Points[i-1].Y() {
				t.Errorf("waypoint %d does not descend: %v", i, path.Points)
				break
			}
		}
	})

	t.Run("radius inflates blocks", func(t *testing.T) {
		q := &WorldQuery{blocks: floor(63, 20)}
		p := params
		p.Radius = 0.25

		path, ok := q.PredictProjectilePath(p)
		if !ok {
			t.Fatal("expected the arc to land")
		}
		if got := path.Impact.Location.Y(); math.Abs(got-64.25) > 1e-9 {
			t.Errorf("expected impact at 64.25, got %v", got)
		}
	})

	t.Run("runs out of time", func(t *testing.T) {
		q := &WorldQuery{blocks: mapBlocks{}}
		p := params
		p.MaxSimTime = 500 * time.Millisecond

		path, ok := q.PredictProjectilePath(p)
		if ok {
			t.Fatal("expected no impact in an empty world")
		}
		if len(path.Points) != 11 {
			t.Errorf("expected start plus 10 steps, got %d", len(path.Points))
		}
	})
}

func TestProjectPointToNavigation(t *testing.T) {
	flat := floor(63, 3)

	blockedHead := floor(63, 3)
	blockedHead[cube.Pos{0, 65, 0}] = true

	tests := []struct {
		name   string
		blocks mapBlocks
		point  mgl64.Vec3
		extent mgl64.Vec3
		wantOK bool
		want   mgl64.Vec3
	}{
		{
			name:   "on surface with zero extent",
			blocks: flat,
			point:  mgl64.Vec3{0.5, 64, 0.5},
			wantOK: true,
			want:   mgl64.Vec3{0.5, 64, 0.5},
		},
		{
			name:   "above surface with zero extent",
			blocks: flat,
			point:  mgl64.Vec3{0.5, 64.3, 0.5},
		},
		{
			name:   "above surface within extent",
			blocks: flat,
			point:  mgl64.Vec3{0.5, 64.3, 0.5},
			extent: mgl64.Vec3{0.5, 1, 0.5},
			wantOK: true,
			want:   mgl64.Vec3{0.5, 64, 0.5},
		},
		{
			name:   "wall face is not navigable",
			blocks: mapBlocks{{3, 64, 0}: true, {3, 65, 0}: true, {3, 66, 0}: true},
			point:  mgl64.Vec3{3, 65.5, 0.5},
		},
		{
			name:   "no headroom falls back to neighbour",
			blocks: blockedHead,
			point:  mgl64.Vec3{0.7, 64, 0.5},
			extent: mgl64.Vec3{1, 1, 1},
			wantOK: true,
			want:   mgl64.Vec3{1, 64, 0.5},
		},
		{
			name:   "no headroom and zero extent",
			blocks: blockedHead,
			point:  mgl64.Vec3{0.5, 64, 0.5},
		},
		{
			name:   "float error on the surface",
			blocks: flat,
			point:  mgl64.Vec3{0.5, 63.9999999999, 0.5},
			wantOK: true,
			want:   mgl64.Vec3{0.5, 64, 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &WorldQuery{blocks: tt.blocks}

			got, ok := q.ProjectPointToNavigation(tt.point, tt.extent)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v (%v)", tt.wantOK, ok, got)
			}
			if ok && !near(got, tt.want, 1e-9) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
