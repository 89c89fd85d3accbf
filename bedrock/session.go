package bedrock

import (
	"fmt"
	"sync/atomic"

	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/oriumgames/teleport"
)

// Session is the teleport state of one player. It wraps the player's
// EntityHandle, which is persistent across transactions, together with the
// controller and the engine services bound to it.
//
// Sessions are created when players join and closed when they leave.
type Session struct {
	// handle is the persistent entity handle for the player
	handle *world.EntityHandle

	// uuid is cached for fast lookup
	uuid uuid.UUID

	// name is cached for fast lookup
	name string

	// worldCache is the player's world, updated on world changes
	worldCache atomic.Pointer[world.World]

	// manager is the manager that owns this session
	manager *Manager

	// closed indicates if the session has been closed
	closed atomic.Bool

	query      *WorldQuery
	rig        *playerRig
	curve      *teleport.Spline
	segments   *particleSegments
	marker     *ParticleMarker
	tasks      *teleport.Scheduler
	controller *teleport.Controller
}

// newSession builds the controller and engine services for p.
func newSession(m *Manager, p *player.Player, cfg teleport.Config) (*Session, error) {
	s := &Session{
		handle:   p.H(),
		uuid:     p.UUID(),
		name:     p.Name(),
		manager:  m,
		query:    NewWorldQuery(),
		rig:      newPlayerRig(cfg.Path.Active.Colour),
		curve:    teleport.NewSpline(),
		segments: &particleSegments{},
		marker:   newParticleMarker(markerRadius, cfg.Path.Active.Colour),
		tasks:    teleport.NewScheduler(m.clock),
	}
	s.tasks.SetLogger(m.log)

	if err := s.buildController(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// buildController wires a new controller configured by cfg to the session's
// engine services.
func (s *Session) buildController(cfg teleport.Config) error {
	c, err := teleport.NewController(cfg, teleport.Rig{
		Tracer:    s.query,
		Navigator: s.query,
		Poses:     s.rig,
		Hands:     s.rig,
		Curve:     s.curve,
		Segments:  s.segments,
		Marker:    s.marker,
		Body:      s.rig,
		Fader:     s.rig,
	}, s.tasks,
		teleport.WithID(s.uuid),
		teleport.WithLogger(s.manager.log.With("player", s.name)),
	)
	if err != nil {
		return fmt.Errorf("teleport: failed to create controller for %s: %w", s.name, err)
	}
	s.controller = c
	return nil
}

// Reconfigure replaces the session's controller with one configured by cfg.
// A pending relocation of the old controller is cancelled. It must run
// inside the player's transaction.
func (s *Session) Reconfigure(p *player.Player, cfg teleport.Config) error {
	if s.closed.Load() {
		return fmt.Errorf("teleport: session %s is closed", s.name)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.reset(p)
	s.segments = &particleSegments{}
	return s.buildController(cfg)
}

// markerRadius is the radius of the destination marker ring in blocks.
const markerRadius = 0.4

// Handle returns the underlying EntityHandle.
func (s *Session) Handle() *world.EntityHandle {
	return s.handle
}

// UUID returns the player's UUID.
func (s *Session) UUID() uuid.UUID {
	return s.uuid
}

// Name returns the player's name.
func (s *Session) Name() string {
	return s.name
}

// Controller returns the session's teleport controller.
func (s *Session) Controller() *teleport.Controller {
	return s.controller
}

// Player retrieves the *player.Player of this session within the given
// transaction. It returns (nil, false) if the player is not in tx.
func (s *Session) Player(tx *world.Tx) (*player.Player, bool) {
	e, ok := s.handle.Entity(tx)
	if !ok {
		return nil, false
	}
	p, ok := e.(*player.Player)
	return p, ok
}

// Exec runs a function within the session's world transaction.
// Returns false if the player is offline or the session is closed.
func (s *Session) Exec(fn func(tx *world.Tx, p *player.Player)) bool {
	if s.closed.Load() {
		return false
	}

	return s.handle.ExecWorld(func(tx *world.Tx, e world.Entity) {
		p, ok := e.(*player.Player)
		if !ok {
			return
		}
		fn(tx, p)
	})
}

// World returns the world the player is currently in.
// Returns the cached world (may be slightly stale).
func (s *Session) World() *world.World {
	return s.worldCache.Load()
}

// Manager returns the manager of this session.
func (s *Session) Manager() *Manager {
	return s.manager
}

// Closed returns true if the session has been closed.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// String returns a string representation of the session for debugging.
func (s *Session) String() string {
	return fmt.Sprintf("Session{Name: %s, UUID: %s, State: %s}", s.name, s.uuid, s.controller.State())
}

// bind points every engine service at the current transaction.
func (s *Session) bind(tx *world.Tx, p *player.Player) {
	s.query.Bind(tx)
	s.rig.bind(p)
	s.curve.SetTransform(mgl64.Translate3D(p.Position().Elem()))
}

// unbind drops the transaction references once the transaction is over.
func (s *Session) unbind() {
	s.query.Bind(nil)
	s.rig.bind(nil)
}

// tick runs due tasks, refreshes the controller and draws the visuals. It
// must run inside tx.
func (s *Session) tick(tx *world.Tx, p *player.Player) {
	if s.closed.Load() {
		return
	}
	s.bind(tx, p)
	defer s.unbind()

	s.tasks.RunDue()
	s.controller.Tick()

	s.segments.draw(tx)
	s.marker.draw(tx)
	s.rig.draw(tx)
}

// trigger fires the teleport trigger. It must run inside tx.
func (s *Session) trigger(tx *world.Tx, p *player.Player) bool {
	if s.closed.Load() {
		return false
	}
	s.bind(tx, p)
	defer s.unbind()

	return s.controller.Trigger()
}

// close closes the session and cancels any pending relocation.
// This is called automatically when the player disconnects.
func (s *Session) close() {
	if s.closed.Swap(true) {
		return
	}
	s.controller.Close()
	s.tasks.Clear()

	if s.manager != nil {
		s.manager.removeSession(s)
	}
}

// reset cancels a pending relocation and lifts the fade. Used when the player
// leaves the world the destination was resolved in.
func (s *Session) reset(p *player.Player) {
	if s.closed.Load() {
		return
	}
	pending := s.controller.State() == teleport.Fading
	s.controller.Close()
	if pending {
		s.rig.bind(p)
		s.rig.StartFade(1, 0, 0)
		s.rig.bind(nil)
	}
}
