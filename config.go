package teleport

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Config holds the tuning and asset references of a teleport controller.
// A controller copies its Config at construction; it is never mutated while
// the controller runs.
type Config struct {
	// Mode selects ray or projectile destination prediction.
	Mode Mode `yaml:"mode"`

	// MaxDistance is the length of the ray in ray mode.
	MaxDistance float64 `yaml:"maxDistance"`

	// Projectile tunes the simulated arc in projectile mode.
	Projectile ProjectileConfig `yaml:"projectile"`

	// ProjectionExtent is the half extent of the box searched around the
	// terminal point for navigable geometry.
	ProjectionExtent Vec3Config `yaml:"projectionExtent"`

	// Up is the world up axis. Gravity pulls against it.
	Up Vec3Config `yaml:"up"`

	// Fade configures the fade transition masking relocation.
	Fade FadeConfig `yaml:"fade"`

	// HideHandsInProjectileMode hides both motion controller visuals every
	// frame while projectile mode resolves destinations.
	HideHandsInProjectileMode bool `yaml:"hideHandsInProjectileMode"`

	// Path holds the assets of the path visual.
	Path PathConfig `yaml:"path"`
}

// ProjectileConfig tunes projectile prediction.
type ProjectileConfig struct {
	Speed          float64       `yaml:"speed"`
	Radius         float64       `yaml:"radius"`
	SimulationTime time.Duration `yaml:"simulationTime"`
	Gravity        float64       `yaml:"gravity"`
	TraceComplex   bool          `yaml:"traceComplex"`
}

// FadeConfig configures fade-on-teleport.
type FadeConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Duration time.Duration `yaml:"duration"`
}

// PathConfig holds the path visual assets.
type PathConfig struct {
	Mesh     Mesh     `yaml:"mesh"`
	Active   Material `yaml:"active"`
	Inactive Material `yaml:"inactive"`
}

// Vec3Config is a vector as written in configuration files.
type Vec3Config struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vec3 returns the vector.
func (v Vec3Config) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// DefaultConfig returns the stock tuning, expressed in centimetres with Z up.
func DefaultConfig() Config {
	return Config{
		Mode:        ProjectileMode,
		MaxDistance: 1000,
		Projectile: ProjectileConfig{
			Speed:          800,
			Radius:         10,
			SimulationTime: 2 * time.Second,
			Gravity:        980,
			TraceComplex:   true,
		},
		Up: Vec3Config{Z: 1},
		Fade: FadeConfig{
			Duration: time.Second,
		},
		HideHandsInProjectileMode: true,
		Path: PathConfig{
			Mesh:     Mesh{Name: "teleport_arch", Density: 0.1},
			Active:   Material{Name: "teleport_arch_on", Colour: Colour{R: 0x3c, G: 0xc8, B: 0xff, A: 0xff}},
			Inactive: Material{Name: "teleport_arch_off", Colour: Colour{R: 0xff, G: 0x40, B: 0x40, A: 0xff}},
		},
	}
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, c.Mode)
	}
	if c.MaxDistance <= 0 {
		return fmt.Errorf("%w: maxDistance must be positive, got %v", ErrInvalidConfig, c.MaxDistance)
	}
	if c.Projectile.Speed <= 0 {
		return fmt.Errorf("%w: projectile speed must be positive, got %v", ErrInvalidConfig, c.Projectile.Speed)
	}
	if c.Projectile.Radius < 0 {
		return fmt.Errorf("%w: projectile radius must not be negative, got %v", ErrInvalidConfig, c.Projectile.Radius)
	}
	if c.Projectile.SimulationTime <= 0 {
		return fmt.Errorf("%w: projectile simulationTime must be positive, got %v", ErrInvalidConfig, c.Projectile.SimulationTime)
	}
	if c.Projectile.Gravity < 0 {
		return fmt.Errorf("%w: projectile gravity must not be negative, got %v", ErrInvalidConfig, c.Projectile.Gravity)
	}
	e := c.ProjectionExtent
	if e.X < 0 || e.Y < 0 || e.Z < 0 {
		return fmt.Errorf("%w: projectionExtent must not be negative, got %v", ErrInvalidConfig, e.Vec3())
	}
	if c.Up.Vec3().Len() == 0 {
		return fmt.Errorf("%w: up axis must not be zero", ErrInvalidConfig)
	}
	if c.Fade.Enabled && c.Fade.Duration <= 0 {
		return fmt.Errorf("%w: fade duration must be positive when fading is enabled, got %v", ErrInvalidConfig, c.Fade.Duration)
	}
	if c.Path.Mesh.Density < 0 {
		return fmt.Errorf("%w: path mesh density must not be negative, got %v", ErrInvalidConfig, c.Path.Mesh.Density)
	}
	return nil
}

// ParseConfig decodes YAML on top of base and validates the result.
// Keys absent from data keep the value they have in base.
func ParseConfig(data []byte, base Config) (Config, error) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("teleport: failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML file at path on top of base.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("teleport: failed to read config: %w", err)
	}
	return ParseConfig(data, base)
}
