package bedrock

import (
	"time"

	"github.com/oriumgames/teleport"
)

// DefaultConfig returns teleport.DefaultConfig rescaled to Minecraft units:
// distances in blocks, Y up and the 20 TPS gravity of thrown items.
func DefaultConfig() teleport.Config {
	cfg := teleport.DefaultConfig()
	cfg.MaxDistance = 20
	cfg.Projectile.Speed = 12
	cfg.Projectile.Radius = 0.1
	cfg.Projectile.SimulationTime = 2 * time.Second
	cfg.Projectile.Gravity = 9.8
	cfg.ProjectionExtent = teleport.Vec3Config{X: 0.5, Y: 1, Z: 0.5}
	cfg.Up = teleport.Vec3Config{Y: 1}
	cfg.Fade.Duration = 500 * time.Millisecond
	cfg.Path.Mesh.Density = 4
	return cfg
}
