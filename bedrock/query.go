package bedrock

import (
	"math"
	"time"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/block/cube/trace"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/teleport"
)

// projectileStep is the simulation step of projectile prediction, one server
// tick.
const projectileStep = 50 * time.Millisecond

// surfaceEpsilon absorbs float error on block faces.
const surfaceEpsilon = 1e-6

// blockSource reports block solidity.
type blockSource interface {
	solid(pos cube.Pos) bool
}

// txBlocks reads blocks from a world transaction.
type txBlocks struct {
	tx *world.Tx
}

func (b txBlocks) solid(pos cube.Pos) bool {
	_, air := b.tx.Block(pos).(block.Air)
	return !air
}

// WorldQuery implements teleport.SpatialQuery over the voxels of a Dragonfly
// world. Every non-air block counts as a full solid cube, and a block is
// navigable when it is solid with two air blocks above it.
//
// A WorldQuery must be bound to the transaction of the current tick before
// use. Unbound queries never hit anything.
type WorldQuery struct {
	blocks blockSource
}

// Compile-time check that WorldQuery implements teleport.SpatialQuery.
var _ teleport.SpatialQuery = (*WorldQuery)(nil)

// NewWorldQuery creates an unbound query.
func NewWorldQuery() *WorldQuery {
	return &WorldQuery{}
}

// Bind points the query at tx. Pass nil to unbind.
func (q *WorldQuery) Bind(tx *world.Tx) {
	if tx == nil {
		q.blocks = nil
		return
	}
	q.blocks = txBlocks{tx: tx}
}

// Name implements teleport.Provider.
func (q *WorldQuery) Name() string {
	return "dragonfly"
}

// LineTrace implements teleport.Tracer. Voxel worlds have a single collision
// channel, so ch is ignored.
func (q *WorldQuery) LineTrace(start, end mgl64.Vec3, _ teleport.Channel) (teleport.Hit, bool) {
	return q.sweep(start, end, 0)
}

// PredictProjectilePath implements teleport.Tracer. The projectile is
// stepped once per server tick; every step position is a waypoint.
func (q *WorldQuery) PredictProjectilePath(params teleport.ProjectileParams) (teleport.ProjectilePath, bool) {
	if q.blocks == nil || params.MaxSimTime <= 0 {
		return teleport.ProjectilePath{}, false
	}

	dt := projectileStep.Seconds()
	pos, vel := params.Start, params.Velocity
	points := []mgl64.Vec3{pos}

	for elapsed := time.Duration(0); elapsed < params.MaxSimTime; elapsed += projectileStep {
		next := pos.Add(vel.Mul(dt)).Add(params.Gravity.Mul(0.5 * dt * dt))
		vel = vel.Add(params.Gravity.Mul(dt))

		if hit, ok := q.sweep(pos, next, params.Radius); ok {
			return teleport.ProjectilePath{Points: points, Impact: hit}, true
		}
		pos = next
		points = append(points, pos)
	}
	return teleport.ProjectilePath{Points: points}, false
}

// sweep returns the first solid block face crossed moving from start to end.
// With a radius every block box is inflated by it, which approximates
// sweeping a sphere.
func (q *WorldQuery) sweep(start, end mgl64.Vec3, radius float64) (teleport.Hit, bool) {
	if q.blocks == nil || start.ApproxEqual(end) {
		return teleport.Hit{}, false
	}
	if radius <= 0 {
		return q.traverse(start, end)
	}
	return q.scan(start, end, radius)
}

// traverse walks the voxels on the segment in order and stops at the first
// solid one.
func (q *WorldQuery) traverse(start, end mgl64.Vec3) (teleport.Hit, bool) {
	var (
		hit   teleport.Hit
		found bool
	)
	trace.TraverseBlocks(start, end, func(pos cube.Pos) bool {
		if !q.blocks.solid(pos) {
			return true
		}
		hit, found = intercept(blockBox(pos), start, end)
		return !found
	})
	return hit, found
}

// scan tests every solid block whose inflated box may touch the segment and
// keeps the nearest hit. Inflated boxes can overlap voxels the centre line
// never enters, so the voxel walk cannot be used.
func (q *WorldQuery) scan(start, end mgl64.Vec3, radius float64) (teleport.Hit, bool) {
	var (
		best  teleport.Hit
		found bool
	)
	lo := func(axis int) int { return int(math.Floor(math.Min(start[axis], end[axis]) - radius)) }
	hi := func(axis int) int { return int(math.Floor(math.Max(start[axis], end[axis]) + radius)) }

	for x := lo(0); x <= hi(0); x++ {
		for y := lo(1); y <= hi(1); y++ {
			for z := lo(2); z <= hi(2); z++ {
				pos := cube.Pos{x, y, z}
				if !q.blocks.solid(pos) {
					continue
				}
				hit, ok := intercept(blockBox(pos).Grow(radius), start, end)
				if ok && (!found || hit.Distance < best.Distance) {
					best, found = hit, true
				}
			}
		}
	}
	return best, found
}

func blockBox(pos cube.Pos) cube.BBox {
	return cube.Box(0, 0, 0, 1, 1, 1).Translate(pos.Vec3())
}

func intercept(box cube.BBox, start, end mgl64.Vec3) (teleport.Hit, bool) {
	res, ok := trace.BBoxIntercept(box, start, end)
	if !ok {
		return teleport.Hit{}, false
	}
	return teleport.Hit{
		Location: res.Position(),
		Normal:   cube.Pos{}.Side(res.Face()).Vec3(),
		Distance: res.Position().Sub(start).Len(),
	}, true
}

// ProjectPointToNavigation implements teleport.Navigator. It returns the
// point on the top face of the nearest standable block whose distance from
// point along every axis is within extent.
func (q *WorldQuery) ProjectPointToNavigation(point, extent mgl64.Vec3) (mgl64.Vec3, bool) {
	if q.blocks == nil {
		return mgl64.Vec3{}, false
	}

	lo := func(axis int) int { return int(math.Floor(point[axis] - extent[axis] - surfaceEpsilon)) }
	hi := func(axis int) int { return int(math.Floor(point[axis] + extent[axis] + surfaceEpsilon)) }

	var (
		best     mgl64.Vec3
		bestDist = math.Inf(1)
		found    bool
	)
	for x := lo(0); x <= hi(0); x++ {
		// The top face of block y lies at y+1.
		for y := lo(1) - 1; y <= hi(1)-1; y++ {
			for z := lo(2); z <= hi(2); z++ {
				pos := cube.Pos{x, y, z}
				if !q.standable(pos) {
					continue
				}

				surface := mgl64.Vec3{
					clamp(point.X(), float64(x), float64(x+1)),
					float64(y + 1),
					clamp(point.Z(), float64(z), float64(z+1)),
				}
				if !within(surface, point, extent) {
					continue
				}
				if d := surface.Sub(point).LenSqr(); d < bestDist {
					best, bestDist, found = surface, d, true
				}
			}
		}
	}
	return best, found
}

// standable reports whether a player fits on top of the block at pos.
func (q *WorldQuery) standable(pos cube.Pos) bool {
	return q.blocks.solid(pos) &&
		!q.blocks.solid(pos.Side(cube.FaceUp)) &&
		!q.blocks.solid(pos.Side(cube.FaceUp).Side(cube.FaceUp))
}

func within(a, b, extent mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > extent[i]+surfaceEpsilon {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
