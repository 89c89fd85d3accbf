package bedrock

import (
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
)

// SessionHandler wraps a session to implement player.Handler.
// Using the trigger item fires the teleport trigger; every other event keeps
// the default behaviour.
//
// Concurrency:
// Handlers are executed synchronously by Dragonfly within the world's
// transaction. The scheduler ticks sessions inside the same world's
// transactions, so handler calls never race with ticks.
type SessionHandler struct {
	player.NopHandler
	session *Session
}

// Session returns the session associated with this handler.
func (h *SessionHandler) Session() *Session {
	return h.session
}

// NewHandler creates a new player.Handler for the given session.
func NewHandler(s *Session) player.Handler {
	return &SessionHandler{session: s}
}

// Compile-time check that SessionHandler implements player.Handler.
var _ player.Handler = (*SessionHandler)(nil)

// HandleItemUse fires the teleport trigger when the held item is the trigger
// item. A successful teleport cancels the item's own use.
func (h *SessionHandler) HandleItemUse(ctx *player.Context) {
	p := ctx.Val()
	if !h.holdsTrigger(p) {
		return
	}
	if h.session.trigger(p.Tx(), p) {
		ctx.Cancel()
	}
}

// HandleChangeWorld handles the player changing worlds.
func (h *SessionHandler) HandleChangeWorld(p *player.Player, before, after *world.World) {
	h.session.worldCache.Store(after)
	if h.session.manager != nil {
		h.session.manager.MoveSession(h.session, before, after)
	}
	h.session.reset(p)
}

// HandleQuit handles a player quitting the server.
func (h *SessionHandler) HandleQuit(p *player.Player) {
	h.session.close()
}

// holdsTrigger reports whether p holds the trigger item in its main hand.
func (h *SessionHandler) holdsTrigger(p *player.Player) bool {
	want := ""
	if h.session.manager != nil {
		want = h.session.manager.TriggerItem()
	}
	if want == "" {
		return true
	}

	held, _ := p.HeldItems()
	if held.Empty() {
		return false
	}
	name, _ := held.Item().EncodeItem()
	return name == want
}
