package visualizer

import (
	"math"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

const bubbleRings = 4

// risingBubbles draws luminous orbs floating upward through expanding rings.
type risingBubbles struct{}

func (risingBubbles) Name() domain.DrawStyle { return domain.StyleRisingBubbles }

func (risingBubbles) Draw(c *Canvas, s *Scene) {
	e, th, t := s.Energy, s.Theme, s.Time
	w, h := s.Width, s.Height
	cx, cy := w/2, h/2

	for i := 0; i < bubbleRings; i++ {
		phase := math.Mod(t*0.3+float64(i)*0.8, 3)
		radius := phase*math.Min(w, h)*0.2 + e.Bass*30
		alpha := math.Max(0, 0.15-phase*0.05)

		glowRing(c, cx, cy, radius, 2, 15, th.GlowColor, alpha)
		c.StrokeCircle(cx, cy, radius, 2, withAlpha(th.Color(i), alpha))
	}

	for i := range s.Particles {
		p := &s.Particles[i]
		p.X += p.VX + math.Sin(t+p.X*0.01)*0.3
		p.Y += p.VY - e.Bass*0.5
		p.Life++

		shimmer := 0.7 + math.Sin(t*3+p.X)*0.3
		col := th.Color(p.ColorIndex)
		c.RadialGlow(p.X, p.Y, p.Size*2,
			Stop{0, withAlpha(col, p.Opacity*shimmer)},
			Stop{1, Transparent},
		)
		c.FillCircle(p.X, p.Y, p.Size, withAlpha(col, p.Opacity*shimmer*0.6))
		c.FillCircle(p.X-p.Size*0.3, p.Y-p.Size*0.3, p.Size*0.25, withAlpha(lighten(col, 0.3), p.Opacity*shimmer))

		if p.Y < -20 {
			p.Y = h + 20
			// nolint:gosec // G404 - weak random is fine for visual effects
			p.X = s.Rand.Float64() * w
			p.Size = 3 + s.Rand.Float64()*8
		}
	}

	c.RadialGlow(cx, cy, math.Min(w, h)*0.3,
		Stop{0, withAlpha(th.Color(0), 0.06+e.Bass*0.08)},
		Stop{1, Transparent},
	)
}
