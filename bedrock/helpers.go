package bedrock

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
)

// SessionOf returns the teleport session of a player, or nil if the player
// has no SessionHandler.
func SessionOf(p *player.Player) *Session {
	h, ok := p.Handler().(*SessionHandler)
	if !ok {
		return nil
	}
	return h.session
}

// Command extracts the player and session from a command source.
// Returns (nil, nil) if the source is not a player or has no session.
//
// Usage:
//
//	func (c MyCommand) Run(src cmd.Source, out *cmd.Output, tx *world.Tx) {
//	    p, sess := bedrock.Command(src)
//	    if p == nil || sess == nil {
//	        out.Error("Player-only command")
//	        return
//	    }
//	}
func Command(src cmd.Source) (*player.Player, *Session) {
	p, ok := src.(*player.Player)
	if !ok {
		return nil, nil
	}
	return p, SessionOf(p)
}
