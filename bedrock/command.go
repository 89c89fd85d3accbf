package bedrock

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oriumgames/teleport"
)

// modeName is the mode argument of the teleport command.
type modeName string

// Type implements cmd.Enum.
func (modeName) Type() string {
	return "TeleportMode"
}

// Options implements cmd.Enum.
func (modeName) Options(cmd.Source) []string {
	return []string{teleport.RayMode.String(), teleport.ProjectileMode.String()}
}

// modeCommand switches the sender between ray and projectile mode.
type modeCommand struct {
	Mode modeName `cmd:"mode"`
}

// Run implements cmd.Runnable.
func (c modeCommand) Run(src cmd.Source, o *cmd.Output, _ *world.Tx) {
	p, sess := Command(src)
	if p == nil || sess == nil {
		o.Error("Teleport is only available to players.")
		return
	}

	mode, err := teleport.ParseMode(string(c.Mode))
	if err != nil {
		o.Error(err)
		return
	}

	cfg := sess.Controller().Config()
	cfg.Mode = mode
	if err := sess.Reconfigure(p, cfg); err != nil {
		o.Error(err)
		return
	}
	o.Printf("Teleport mode set to %s.", mode)
}

// NewCommand returns the /teleport command letting players pick their
// teleport mode. Register it with cmd.Register.
func NewCommand() cmd.Command {
	return cmd.New("teleport", "Selects how the teleport destination is aimed.", nil, modeCommand{})
}
