package visualizer

import (
	"math"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

const (
	rippleCount      = 8
	shimmerLineCount = 6
	shimmerStep      = 6.0
)

// waterRipples draws ripple rings spreading from a still point with wavy surface lines.
type waterRipples struct{}

func (waterRipples) Name() domain.DrawStyle { return domain.StyleWaterRipples }

func (waterRipples) Draw(c *Canvas, s *Scene) {
	e, th, t := s.Energy, s.Theme, s.Time
	w, h := s.Width, s.Height
	cx, cy := w/2, h/2
	maxRadius := math.Min(w, h) * 0.45

	for i := 0; i < rippleCount; i++ {
		phase := math.Mod(t*0.2+float64(i)*0.5, 4)
		radius := phase*maxRadius*0.25 + e.Bass*20
		alpha := math.Max(0, 0.2-phase*0.05) + e.Mids*0.05
		width := 1.5 + e.Bass*2

		glowRing(c, cx, cy, radius, width, 8, th.GlowColor, alpha)
		c.StrokeCircle(cx, cy, radius, width, withAlpha(th.Color(i), alpha))
	}

	line := make([]Point, 0, int(w/shimmerStep)+2)
	for i := 0; i < shimmerLineCount; i++ {
		fi := float64(i)
		yBase := h * (0.3 + fi*0.08)
		amplitude := 5 + e.Mids*15

		line = line[:0]
		for x := 0.0; x <= w; x += shimmerStep {
			line = append(line, Point{x, yBase + math.Sin((x/w)*8+t*0.4+fi*1.5)*amplitude})
		}
		c.StrokePolyline(line, 1, withAlpha(th.Color(i), 0.06+e.Mids*0.04), false)
	}

	c.RadialGlow(cx, cy, 60+e.Bass*30,
		Stop{0, withAlpha(th.Color(3), 0.15+e.Bass*0.1)},
		Stop{1, Transparent},
	)

	reflection := c.LinearGradient(Point{0, h * 0.6}, Point{0, h},
		Stop{0, Transparent},
		Stop{0.5, withAlpha(th.Color(0), 0.04+e.Highs*0.03)},
		Stop{1, Transparent},
	)
	c.FillRect(0, h*0.6, w, h*0.4, reflection)
}
