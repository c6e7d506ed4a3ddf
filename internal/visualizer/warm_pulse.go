package visualizer

import (
	"math"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

const warmPulseRings = 6

// warmPulse draws soft concentric rings that breathe with the bass around a central glow.
type warmPulse struct{}

func (warmPulse) Name() domain.DrawStyle { return domain.StyleWarmPulse }

func (warmPulse) Draw(c *Canvas, s *Scene) {
	e, th, t := s.Energy, s.Theme, s.Time
	cx, cy := s.Width/2, s.Height/2
	baseRadius := math.Min(s.Width, s.Height) * 0.15
	breathe := math.Sin(t*0.5) * 0.05

	for i := warmPulseRings; i >= 0; i-- {
		f := float64(i) / warmPulseRings
		audioScale := 1 + e.Bass*0.6 + e.Mids*0.3*math.Sin(t+float64(i))
		radius := baseRadius*(1+f*1.5)*audioScale + breathe*baseRadius
		alpha := (1-f)*0.25 + e.Mids*0.15
		width := 2 + e.Bass*4

		glowRing(c, cx, cy, radius, width, 20+e.Bass*30, th.GlowColor, alpha)
		c.StrokeCircle(cx, cy, radius, width, withAlpha(th.Color(i), alpha))
	}

	c.RadialGlow(cx, cy, baseRadius*0.8,
		Stop{0, withAlpha(th.Color(0), 0.15+e.Bass*0.2)},
		Stop{1, Transparent},
	)
}
