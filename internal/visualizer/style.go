package visualizer

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// Scene is everything a style needs to draw one frame.
type Scene struct {
	// Width and Height are the logical surface size.
	Width, Height float64

	// Energy is the smoothed, intensity-scaled band energy.
	Energy domain.Energy

	Theme *domain.VisualizerTheme

	// Time is the fixed-step animation clock in seconds.
	Time float64

	// Particles is the style's pool, empty for styles without particles.
	Particles []Particle

	Rand *rand.Rand
}

// Style draws one generative visual. Styles are stateless; anything that
// persists between frames lives in the Scene.
type Style interface {
	Name() domain.DrawStyle
	Draw(c *Canvas, s *Scene)
}

var styles = map[domain.DrawStyle]Style{
	domain.StyleWarmPulse:     warmPulse{},
	domain.StyleAuroraSweep:   auroraSweep{},
	domain.StyleSunriseRays:   sunriseRays{},
	domain.StyleNebulaField:   nebulaField{},
	domain.StyleFallingSnow:   fallingSnow{},
	domain.StyleRisingBubbles: risingBubbles{},
	domain.StyleWaterRipples:  waterRipples{},
}

// StyleFor returns the draw routine for a style.
func StyleFor(style domain.DrawStyle) (Style, error) {
	s, ok := styles[style]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDrawStyle, style)
	}
	return s, nil
}

// glowRing approximates a shadow blur behind a stroked ring with a wider, faint ring.
func glowRing(c *Canvas, cx, cy, r, width, blur float64, glow color.RGBA, alpha float64) {
	if blur <= 0 || alpha <= 0 {
		return
	}
	c.StrokeCircle(cx, cy, r, width+blur*0.6, withAlpha(glow, alpha*0.25))
	c.StrokeCircle(cx, cy, r, width+blur*0.25, withAlpha(glow, alpha*0.45))
}
