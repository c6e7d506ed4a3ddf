package visualizer

import (
	"math"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

const snowHexagons = 3

// fallingSnow draws drifting snowflakes over slowly turning crystalline hexagons.
type fallingSnow struct{}

func (fallingSnow) Name() domain.DrawStyle { return domain.StyleFallingSnow }

func (fallingSnow) Draw(c *Canvas, s *Scene) {
	e, th, t := s.Energy, s.Theme, s.Time
	w, h := s.Width, s.Height

	c.RadialGlow(w/2, 0, h*0.6,
		Stop{0, withAlpha(th.Color(1), 0.08+e.Mids*0.06)},
		Stop{1, Transparent},
	)

	hex := make([]Point, 6)
	for i := 0; i < snowHexagons; i++ {
		fi := float64(i)
		hx := w*(0.3+fi*0.2) + math.Sin(t*0.2+fi)*30
		hy := h*0.5 + math.Cos(t*0.15+fi)*40
		size := 20 + e.Bass*60 + math.Sin(t*0.3+fi*2)*10
		alpha := 0.05 + e.Bass*0.1

		for j := range hex {
			angle := float64(j)/6*math.Pi*2 - math.Pi/6 + t*0.02
			hex[j] = Point{hx + math.Cos(angle)*size, hy + math.Sin(angle)*size}
		}
		c.StrokePolyline(hex, 4, withAlpha(th.GlowColor, alpha*0.3), true)
		c.StrokePolyline(hex, 1, withAlpha(th.Color(i), alpha), true)
	}

	for i := range s.Particles {
		p := &s.Particles[i]
		wind := math.Sin(t*0.5+p.Y*0.005) * 0.5
		// nolint:gosec // G404 - weak random is fine for visual effects
		p.X += p.VX + wind + e.Highs*(s.Rand.Float64()-0.5)*0.5
		p.Y += p.VY + e.Bass*0.3
		p.Life++

		drift := math.Sin(t+p.X*0.01) * 0.3
		c.FillCircle(p.X+drift, p.Y, p.Size+1.5, withAlpha(th.GlowColor, p.Opacity*0.15))
		c.FillCircle(p.X+drift, p.Y, p.Size, withAlpha(th.Color(p.ColorIndex), p.Opacity))

		if p.Y > h+10 {
			p.Y = -10
			p.X = s.Rand.Float64() * w
		}
	}
}
