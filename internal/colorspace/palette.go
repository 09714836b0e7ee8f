package colorspace

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Palette is a fixed band-to-color override loaded from a YAML file.
// When a palette is active it takes precedence over the computed scheme
// for the bands it names; unnamed bands fall through to the scheme.
type Palette struct {
	Name   string            `yaml:"name"`
	Colors map[string]string `yaml:"colors"` // canonical band label -> #rrggbb
}

// LoadPalette reads and validates a palette file
func LoadPalette(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette file: %w", err)
	}

	var palette Palette
	if err := yaml.Unmarshal(data, &palette); err != nil {
		return nil, fmt.Errorf("failed to parse palette YAML: %w", err)
	}

	if palette.Name == "" {
		return nil, fmt.Errorf("palette file %s has no name", path)
	}

	for label, hex := range palette.Colors {
		if _, err := ParseHex(hex); err != nil {
			return nil, fmt.Errorf("palette %s entry %s: %w", palette.Name, label, err)
		}
	}

	return &palette, nil
}

// Lookup returns the override color for a band label, if present
func (p *Palette) Lookup(label string) (RGB, bool) {
	hex, ok := p.Colors[label]
	if !ok {
		return RGB{}, false
	}
	// Validated at load time
	color, _ := ParseHex(hex)
	return color, true
}

// ParseHex parses a #rrggbb color string
func ParseHex(s string) (RGB, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q (expected #rrggbb)", s)
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}

	return RGB{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
	}, nil
}
