package teleport

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode selects how the teleport destination is predicted.
// It is configured once and read every frame.
type Mode int

const (
	// RayMode casts a straight visibility ray from the head out to the
	// configured maximum distance.
	RayMode Mode = iota

	// ProjectileMode simulates a ballistic arc launched from the right hand.
	ProjectileMode

	// modeCount is the total number of modes.
	modeCount
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case RayMode:
		return "ray"
	case ProjectileMode:
		return "projectile"
	default:
		return "unknown"
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= RayMode && m < modeCount
}

// ParseMode parses a mode name as written in configuration files.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ray":
		return RayMode, nil
	case "projectile", "arc":
		return ProjectileMode, nil
	default:
		return 0, fmt.Errorf("teleport: unknown mode %q", s)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (m Mode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// State is the state of a Controller.
type State int

const (
	// Idle accepts trigger events.
	Idle State = iota

	// Fading waits for the deferred relocation behind a fade transition.
	// Only reachable when fading is enabled.
	Fading
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Fading:
		return "Fading"
	default:
		return "Unknown"
	}
}

// Channel is the collision channel a trace is filtered by.
type Channel int

const (
	// Visibility blocks on anything that blocks sight.
	Visibility Channel = iota

	// Camera blocks on anything that blocks the camera.
	Camera
)

// String returns the string representation of the channel.
func (c Channel) String() string {
	switch c {
	case Visibility:
		return "Visibility"
	case Camera:
		return "Camera"
	default:
		return "Unknown"
	}
}

// PointType controls how a curve interpolates through a control point.
type PointType int

const (
	// PointCurve is a smooth point whose tangent is derived from its neighbours.
	PointCurve PointType = iota

	// PointLinear uses the chord towards the next point as its tangent.
	PointLinear

	// PointConstant has a zero tangent.
	PointConstant
)
