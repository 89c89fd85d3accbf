package bedrock

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
	"github.com/oriumgames/teleport"
)

// Manager is the central teleport coordinator of a server.
// It owns the sessions and the scheduler that ticks them.
// Multiple Manager instances can coexist in the same process for running
// multiple isolated servers.
type Manager struct {
	// cfg is the configuration new sessions are created with
	cfg atomic.Pointer[teleport.Config]

	log         *slog.Logger
	clock       teleport.Clock
	triggerItem string

	// sessions holds all active sessions
	sessions   map[*world.EntityHandle]*Session
	sessionsMu sync.RWMutex

	// sessionsByUUID provides UUID-based session lookup
	sessionsByUUID   map[uuid.UUID]*Session
	sessionsByUUIDMu sync.RWMutex

	// sessionsByWorld groups sessions by world for per-world ticking
	sessionsByWorld   map[*world.World]map[*Session]struct{}
	sessionsByWorldMu sync.RWMutex

	// scheduler ticks every session
	scheduler *Scheduler
}

// newManager creates a new manager.
func newManager(cfg teleport.Config, log *slog.Logger, clock teleport.Clock) *Manager {
	m := &Manager{
		log:             log,
		clock:           clock,
		sessions:        make(map[*world.EntityHandle]*Session),
		sessionsByUUID:  make(map[uuid.UUID]*Session),
		sessionsByWorld: make(map[*world.World]map[*Session]struct{}),
	}
	m.cfg.Store(&cfg)
	return m
}

// Config returns the configuration new sessions are created with.
func (m *Manager) Config() teleport.Config {
	return *m.cfg.Load()
}

// SetConfig replaces the configuration after validating it. Sessions that
// already exist keep the configuration they were created with.
func (m *Manager) SetConfig(cfg teleport.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.cfg.Store(&cfg)
	m.log.Info("teleport: config updated", "mode", cfg.Mode, "fade", cfg.Fade.Enabled)
	return nil
}

// TriggerItem returns the identifier of the item whose use fires the
// teleport trigger. Empty means any item.
func (m *Manager) TriggerItem() string {
	return m.triggerItem
}

// NewSession creates a new session for a player.
// This should be called when a player joins and the returned session
// should be passed to player.Handle() wrapped with NewHandler().
func (m *Manager) NewSession(p *player.Player) (*Session, error) {
	s, err := newSession(m, p, m.Config())
	if err != nil {
		return nil, err
	}

	s.worldCache.Store(p.Tx().World())
	m.addSession(s)

	m.log.Info("teleport: session opened", "player", s.name, "mode", s.controller.Config().Mode)
	return s, nil
}

// Attach creates a session for p and installs its handler. A player that
// already has a session keeps it.
func (m *Manager) Attach(p *player.Player) (*Session, error) {
	if s := m.GetSession(p); s != nil && !s.Closed() {
		return s, nil
	}
	s, err := m.NewSession(p)
	if err != nil {
		return nil, err
	}
	p.Handle(NewHandler(s))
	return s, nil
}

// addSession registers a session with the manager.
func (m *Manager) addSession(s *Session) {
	m.sessionsMu.Lock()
	m.sessions[s.Handle()] = s
	m.sessionsMu.Unlock()

	m.sessionsByUUIDMu.Lock()
	m.sessionsByUUID[s.uuid] = s
	m.sessionsByUUIDMu.Unlock()

	if w := s.World(); w != nil {
		m.sessionsByWorldMu.Lock()
		if m.sessionsByWorld[w] == nil {
			m.sessionsByWorld[w] = make(map[*Session]struct{})
		}
		m.sessionsByWorld[w][s] = struct{}{}
		m.sessionsByWorldMu.Unlock()
	}
}

// MoveSession updates the session's world in the index.
func (m *Manager) MoveSession(s *Session, from, to *world.World) {
	m.sessionsByWorldMu.Lock()
	if from != nil && m.sessionsByWorld[from] != nil {
		delete(m.sessionsByWorld[from], s)
		if len(m.sessionsByWorld[from]) == 0 {
			delete(m.sessionsByWorld, from)
		}
	}
	if to != nil {
		if m.sessionsByWorld[to] == nil {
			m.sessionsByWorld[to] = make(map[*Session]struct{})
		}
		m.sessionsByWorld[to][s] = struct{}{}
	}
	m.sessionsByWorldMu.Unlock()
}

// removeSession unregisters a session from the manager.
func (m *Manager) removeSession(s *Session) {
	m.sessionsMu.Lock()
	delete(m.sessions, s.Handle())
	m.sessionsMu.Unlock()

	m.sessionsByUUIDMu.Lock()
	delete(m.sessionsByUUID, s.uuid)
	m.sessionsByUUIDMu.Unlock()

	if w := s.World(); w != nil {
		m.sessionsByWorldMu.Lock()
		if m.sessionsByWorld[w] != nil {
			delete(m.sessionsByWorld[w], s)
			if len(m.sessionsByWorld[w]) == 0 {
				delete(m.sessionsByWorld, w)
			}
		}
		m.sessionsByWorldMu.Unlock()
	}

	m.log.Info("teleport: session closed", "player", s.name)
}

// GetSession retrieves the session for a player.
func (m *Manager) GetSession(p *player.Player) *Session {
	return m.GetSessionByHandle(p.H())
}

// GetSessionByHandle retrieves a session by entity handle.
func (m *Manager) GetSessionByHandle(h *world.EntityHandle) *Session {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()
	return m.sessions[h]
}

// GetSessionByUUID retrieves a session by UUID.
func (m *Manager) GetSessionByUUID(id uuid.UUID) *Session {
	m.sessionsByUUIDMu.RLock()
	defer m.sessionsByUUIDMu.RUnlock()
	return m.sessionsByUUID[id]
}

// AllSessions returns a slice of all active sessions.
func (m *Manager) AllSessions() []*Session {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if !s.closed.Load() {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// AllSessionsInWorld returns all active sessions in the specified world.
func (m *Manager) AllSessionsInWorld(w *world.World) []*Session {
	if w == nil {
		return nil
	}

	m.sessionsByWorldMu.RLock()
	defer m.sessionsByWorldMu.RUnlock()

	set := m.sessionsByWorld[w]
	if set == nil {
		return nil
	}

	sessions := make([]*Session, 0, len(set))
	for s := range set {
		if !s.closed.Load() {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// SessionCount returns the number of active sessions.
func (m *Manager) SessionCount() int {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()
	return len(m.sessions)
}

// groupedSessions returns a snapshot of sessions grouped by world.
func (m *Manager) groupedSessions() map[*world.World][]*Session {
	m.sessionsByWorldMu.RLock()
	defer m.sessionsByWorldMu.RUnlock()

	result := make(map[*world.World][]*Session, len(m.sessionsByWorld))
	for w, set := range m.sessionsByWorld {
		list := make([]*Session, 0, len(set))
		for s := range set {
			list = append(list, s)
		}
		result[w] = list
	}
	return result
}

// Start starts the scheduler.
func (m *Manager) Start() {
	m.scheduler.Start()
}

// Shutdown stops the scheduler and closes every session. Each session is
// closed inside its player's transaction so it cannot race with handlers.
// Shutdown must not be called from within a world transaction.
func (m *Manager) Shutdown() {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}

	m.sessionsMu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessionsMu.RUnlock()

	for _, s := range sessions {
		closed := s.Exec(func(*world.Tx, *player.Player) {
			s.close()
		})
		if !closed {
			// The player already left its world.
			s.close()
		}
	}
}

// TickNumber returns the current scheduler tick number.
func (m *Manager) TickNumber() uint64 {
	if m.scheduler == nil {
		return 0
	}
	return m.scheduler.TickNumber()
}

// String returns a string representation of the manager for debugging.
func (m *Manager) String() string {
	return fmt.Sprintf("Manager{Sessions: %d, Mode: %s}", m.SessionCount(), m.Config().Mode)
}
