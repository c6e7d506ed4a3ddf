package domain

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// DrawStyle selects one of the closed set of visualizer renderers.
type DrawStyle string

// The seven draw styles. The set is closed; themes naming anything else are rejected.
const (
	StyleWarmPulse     DrawStyle = "warm-pulse"
	StyleAuroraSweep   DrawStyle = "aurora-sweep"
	StyleSunriseRays   DrawStyle = "sunrise-rays"
	StyleNebulaField   DrawStyle = "nebula-field"
	StyleFallingSnow   DrawStyle = "falling-snow"
	StyleRisingBubbles DrawStyle = "rising-bubbles"
	StyleWaterRipples  DrawStyle = "water-ripples"
)

// DrawStyles lists every style in display order.
func DrawStyles() []DrawStyle {
	return []DrawStyle{
		StyleWarmPulse,
		StyleAuroraSweep,
		StyleSunriseRays,
		StyleNebulaField,
		StyleFallingSnow,
		StyleRisingBubbles,
		StyleWaterRipples,
	}
}

// Valid reports whether the style belongs to the closed set.
func (s DrawStyle) Valid() bool {
	for _, known := range DrawStyles() {
		if s == known {
			return true
		}
	}
	return false
}

// UsesParticles reports whether the style owns a particle pool.
func (s DrawStyle) UsesParticles() bool {
	return s == StyleNebulaField || s == StyleFallingSnow || s == StyleRisingBubbles
}

// VisualizerTheme is the static look of the visualizer for one album.
type VisualizerTheme struct {
	DrawStyle     DrawStyle
	Colors        []color.RGBA
	BgColor       color.RGBA
	GlowColor     color.RGBA
	ParticleCount int
	Intensity     float64
}

// Validate checks the theme against its invariants.
func (t VisualizerTheme) Validate() error {
	if !t.DrawStyle.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDrawStyle, t.DrawStyle)
	}
	if len(t.Colors) < 3 {
		return fmt.Errorf("theme %s needs at least 3 colors, got %d", t.DrawStyle, len(t.Colors))
	}
	if t.ParticleCount < 0 {
		return fmt.Errorf("theme %s has negative particle count", t.DrawStyle)
	}
	if t.Intensity < 0 || t.Intensity > 1 {
		return fmt.Errorf("theme %s intensity %.2f outside [0, 1]", t.DrawStyle, t.Intensity)
	}
	return nil
}

// Color returns the palette entry at i, wrapping around the palette.
func (t VisualizerTheme) Color(i int) color.RGBA {
	if len(t.Colors) == 0 {
		return t.GlowColor
	}
	if i < 0 {
		i = -i
	}
	return t.Colors[i%len(t.Colors)]
}

// ParseHexColor parses "#rrggbb" or "#rgb" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustHexColor is ParseHexColor for static tables.
func MustHexColor(s string) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
