package bedrock

import (
	"math"
	"time"

	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world/particle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/teleport"
)

const (
	// playerHalfHeight is half the height of a standing player's box.
	playerHalfHeight = 0.9

	// handRight and handDown offset the right hand from the eyes.
	handRight = 0.35
	handDown  = 0.4
)

var up = mgl64.Vec3{0, 1, 0}

// playerRig adapts a Dragonfly player to the character collaborators of a
// teleport.Controller: poses, hand visuals, body and fader. Bedrock has no
// tracked controllers, so the right hand pose is derived from the head.
//
// A playerRig holds the player of the current transaction only. It must be
// re-bound every tick and every handler call.
type playerRig struct {
	p            *player.Player
	handsVisible bool
	handColour   teleport.Colour
}

var (
	_ teleport.PoseSource  = (*playerRig)(nil)
	_ teleport.HandVisuals = (*playerRig)(nil)
	_ teleport.Body        = (*playerRig)(nil)
	_ teleport.Fader       = (*playerRig)(nil)
)

func newPlayerRig(handColour teleport.Colour) *playerRig {
	return &playerRig{handsVisible: true, handColour: handColour}
}

func (r *playerRig) bind(p *player.Player) {
	r.p = p
}

// Head implements teleport.PoseSource.
func (r *playerRig) Head() teleport.Pose {
	if r.p == nil {
		return teleport.Pose{}
	}
	return teleport.Pose{
		Location: r.p.Position().Add(up.Mul(r.p.EyeHeight())),
		Forward:  r.p.Rotation().Vec3(),
	}
}

// RightHand implements teleport.PoseSource.
func (r *playerRig) RightHand() teleport.Pose {
	head := r.Head()
	if r.p == nil {
		return head
	}
	right := rightOf(r.p.Rotation().Yaw())
	return teleport.Pose{
		Location: head.Location.Add(right.Mul(handRight)).Sub(up.Mul(handDown)),
		Forward:  head.Forward,
	}
}

// rightOf returns the horizontal unit vector to the right of a player facing
// yaw degrees.
func rightOf(yaw float64) mgl64.Vec3 {
	rad := mgl64.DegToRad(yaw)
	forward := mgl64.Vec3{-math.Sin(rad), 0, math.Cos(rad)}
	return forward.Cross(up)
}

// SetHandsVisible implements teleport.HandVisuals.
func (r *playerRig) SetHandsVisible(visible bool) {
	r.handsVisible = visible
}

func (r *playerRig) draw(sink particleSink) {
	if r.p == nil || !r.handsVisible {
		return
	}
	sink.AddParticle(r.RightHand().Location, particle.Dust{Colour: r.handColour.Color()})
}

// Location implements teleport.Body.
func (r *playerRig) Location() mgl64.Vec3 {
	if r.p == nil {
		return mgl64.Vec3{}
	}
	return r.p.Position().Add(up.Mul(playerHalfHeight))
}

// SetLocation implements teleport.Body.
func (r *playerRig) SetLocation(location mgl64.Vec3) {
	if r.p == nil {
		return
	}
	r.p.Teleport(location.Sub(up.Mul(playerHalfHeight)))
}

// UpVector implements teleport.Body.
func (r *playerRig) UpVector() mgl64.Vec3 {
	return up
}

// HalfHeight implements teleport.Body.
func (r *playerRig) HalfHeight() float64 {
	return playerHalfHeight
}

// StartFade implements teleport.Fader. Bedrock has no screen overlay, so the
// fade to black is blindness, held slightly longer than the fade so it does
// not flicker off before the relocation.
func (r *playerRig) StartFade(from, to float64, d time.Duration) {
	if r.p == nil {
		return
	}
	if to > from {
		r.p.AddEffect(effect.New(effect.Blindness, 1, d+time.Second))
		return
	}
	r.p.RemoveEffect(effect.Blindness)
}
