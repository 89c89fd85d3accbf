package teleport

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Marker is the destination marker shown where the character would land.
type Marker interface {
	SetMarkerVisible(visible bool)
	SetMarkerLocation(location mgl64.Vec3)
}

// Body is the controlled character body.
type Body interface {
	// Location returns the body centre in world space.
	Location() mgl64.Vec3

	// SetLocation moves the body centre.
	SetLocation(location mgl64.Vec3)

	// UpVector returns the body's unit up axis.
	UpVector() mgl64.Vec3

	// HalfHeight returns half the height of the body's collision capsule.
	HalfHeight() float64
}

// Fader drives the full-screen fade overlay.
type Fader interface {
	// StartFade animates the overlay alpha from one value to another over d.
	StartFade(from, to float64, d time.Duration)
}

// Rig bundles the engine collaborators a Controller drives.
type Rig struct {
	// Tracer performs ray and projectile queries. Required.
	Tracer Tracer

	// Navigator projects hits onto navigable geometry. When nil every
	// destination is invalid with ErrNoProvider.
	Navigator Navigator

	// Poses supplies head and hand poses. Required.
	Poses PoseSource

	// Hands toggles motion controller visuals. Optional.
	Hands HandVisuals

	// Curve backs the path visual. Required.
	Curve Curve

	// Segments allocates path segment visuals. Required.
	Segments SegmentFactory

	// Marker is the destination marker. Optional.
	Marker Marker

	// Body is relocated on teleport. Required.
	Body Body

	// Fader masks relocation. Required when fading is enabled.
	Fader Fader
}

// Controller refreshes the teleport destination and path every frame and
// relocates the body on trigger, optionally behind a fade.
//
// Concurrency:
// A Controller is not safe for concurrent use. Tick, Trigger and the tasks it
// schedules must all run on the same frame thread.
type Controller struct {
	id  uuid.UUID
	cfg Config
	log *slog.Logger

	sampler  *Sampler
	resolver *Resolver
	path     *PathBuilder

	poses  PoseSource
	marker Marker
	body   Body
	fader  Fader
	tasks  *Scheduler

	state   State
	dest    Destination
	sample  Sample
	pending *TaskHandle
}

// NewController creates a controller for the given configuration. tasks runs
// the deferred relocation and must be drained on the frame thread.
func NewController(cfg Config, rig Rig, tasks *Scheduler, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var missing []error
	if rig.Tracer == nil {
		missing = append(missing, errors.New("tracer"))
	}
	if rig.Poses == nil {
		missing = append(missing, errors.New("poses"))
	}
	if rig.Curve == nil {
		missing = append(missing, errors.New("curve"))
	}
	if rig.Segments == nil {
		missing = append(missing, errors.New("segments"))
	}
	if rig.Body == nil {
		missing = append(missing, errors.New("body"))
	}
	if cfg.Fade.Enabled && rig.Fader == nil {
		missing = append(missing, errors.New("fader"))
	}
	if tasks == nil {
		missing = append(missing, errors.New("scheduler"))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("teleport: incomplete rig, missing: %w", errors.Join(missing...))
	}

	options := controllerOptions{log: slog.Default(), id: uuid.New()}
	for _, opt := range opts {
		opt(&options)
	}

	return &Controller{
		id:       options.id,
		cfg:      cfg,
		log:      options.log,
		sampler:  NewSampler(rig.Tracer, rig.Hands, cfg),
		resolver: NewResolver(rig.Navigator, cfg.ProjectionExtent.Vec3()),
		path:     NewPathBuilder(rig.Curve, rig.Segments, cfg.Path.Mesh, cfg.Path.Active, cfg.Path.Inactive),
		poses:    rig.Poses,
		marker:   rig.Marker,
		body:     rig.Body,
		fader:    rig.Fader,
		tasks:    tasks,
		state:    Idle,
	}, nil
}

// ID returns the controller identity.
func (c *Controller) ID() uuid.UUID {
	return c.id
}

// Config returns the controller's configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Destination returns the destination cached by the last Tick.
func (c *Controller) Destination() Destination {
	return c.dest
}

// Sample returns the trajectory sample produced by the last Tick.
func (c *Controller) Sample() Sample {
	return c.sample
}

// Path returns the path visual builder.
func (c *Controller) Path() *PathBuilder {
	return c.path
}

// Tick recomputes the sample and destination, caches them and renders the
// path. It behaves identically in every state.
func (c *Controller) Tick() {
	sample, dest := c.find()

	if dest.Valid != c.dest.Valid {
		c.log.Debug("teleport: destination changed",
			"controller", c.id,
			"mode", c.cfg.Mode,
			"valid", dest.Valid,
			"reason", dest.Reason)
	}

	c.sample = sample
	c.dest = dest

	c.updateMarker(dest)
	c.path.Render(sample, dest.Valid)
}

// Trigger handles the teleport trigger event. The destination is resolved
// again rather than reusing the cached one. It returns true when a relocation
// was performed or scheduled.
//
// Triggers while Fading are ignored; the pending relocation is never
// replaced.
func (c *Controller) Trigger() bool {
	if c.state != Idle {
		c.log.Debug("teleport: trigger ignored", "controller", c.id, "state", c.state)
		return false
	}

	_, dest := c.find()
	if !dest.Valid {
		c.log.Debug("teleport: trigger without destination", "controller", c.id, "reason", dest.Reason)
		return false
	}

	if !c.cfg.Fade.Enabled {
		c.relocate(dest.Location)
		return true
	}

	d := c.cfg.Fade.Duration
	c.fader.StartFade(0, 1, d)
	c.state = Fading
	c.pending = c.tasks.Schedule(&finishTeleport{controller: c, destination: dest.Location}, d)

	c.log.Debug("teleport: fade started", "controller", c.id, "destination", dest.Location, "duration", d)
	return true
}

// Close cancels a pending relocation and hides every visual.
func (c *Controller) Close() {
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
	c.state = Idle
	c.dest = Destination{}
	c.sample = Sample{}
	c.updateMarker(c.dest)
	c.path.Hide()
}

// find samples the trajectory for the configured mode and resolves it.
func (c *Controller) find() (Sample, Destination) {
	var origin Pose
	if c.cfg.Mode == ProjectileMode {
		origin = c.poses.RightHand()
	} else {
		origin = c.poses.Head()
	}

	sample := c.sampler.Sample(c.cfg.Mode, origin)
	return sample, c.resolver.Resolve(sample)
}

func (c *Controller) updateMarker(dest Destination) {
	if c.marker == nil {
		return
	}
	c.marker.SetMarkerVisible(dest.Valid)
	if dest.Valid {
		c.marker.SetMarkerLocation(dest.Location)
	}
}

// relocate moves the body so that it stands on location.
func (c *Controller) relocate(location mgl64.Vec3) {
	target := location.Add(c.body.UpVector().Mul(c.body.HalfHeight()))
	c.body.SetLocation(target)
	c.log.Debug("teleport: relocated", "controller", c.id, "destination", target)
}

// finishTeleport is the deferred relocation scheduled behind a fade-out. It
// carries the destination captured when the trigger fired.
type finishTeleport struct {
	controller  *Controller
	destination mgl64.Vec3
}

// Run implements Runnable.
func (t *finishTeleport) Run() {
	c := t.controller
	c.pending = nil
	c.relocate(t.destination)
	c.fader.StartFade(1, 0, c.cfg.Fade.Duration)
	c.state = Idle
}
