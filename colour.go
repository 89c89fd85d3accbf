package teleport

import (
	"fmt"
	"image/color"
	"strings"

	"gopkg.in/yaml.v3"
)

// Colour is an RGBA colour written as "#rrggbb" or "#rrggbbaa" in
// configuration files.
type Colour color.RGBA

// Color returns the colour as a color.RGBA.
func (c Colour) Color() color.RGBA {
	return color.RGBA(c)
}

// String returns the hex form of the colour.
func (c Colour) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColour parses "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseColour(s string) (Colour, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	var c Colour
	switch len(hex) {
	case 6:
		c.A = 0xff
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return Colour{}, fmt.Errorf("teleport: invalid colour %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return Colour{}, fmt.Errorf("teleport: invalid colour %q: %w", s, err)
		}
	default:
		return Colour{}, fmt.Errorf("teleport: invalid colour %q", s)
	}
	return c, nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Colour) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Colour) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColour(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
