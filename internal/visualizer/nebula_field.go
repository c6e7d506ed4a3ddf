package visualizer

import (
	"math"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// nebulaField draws twinkling star particles drifting around a glowing orb.
type nebulaField struct{}

func (nebulaField) Name() domain.DrawStyle { return domain.StyleNebulaField }

func (nebulaField) Draw(c *Canvas, s *Scene) {
	e, th, t := s.Energy, s.Theme, s.Time
	w, h := s.Width, s.Height
	cx, cy := w/2, h/2

	orbRadius := 30 + e.Bass*50
	c.RadialGlow(cx, cy, orbRadius*3,
		Stop{0, withAlpha(th.Color(2), 0.3+e.Bass*0.3)},
		Stop{0.3, withAlpha(th.Color(1), 0.15)},
		Stop{0.6, withAlpha(th.Color(0), 0.05)},
		Stop{1, Transparent},
	)

	for i := 0; i < 3; i++ {
		fi := float64(i)
		nx := cx + math.Sin(t*0.1+fi*2)*w*0.2
		ny := cy + math.Cos(t*0.08+fi*1.5)*h*0.15
		c.RadialGlow(nx, ny, 80+e.Mids*60,
			Stop{0, withAlpha(th.Color(i), 0.06+e.Mids*0.05)},
			Stop{1, Transparent},
		)
	}

	for i := range s.Particles {
		p := &s.Particles[i]
		p.X += p.VX + math.Sin(t+p.Y*0.01)*0.05
		p.Y += p.VY + math.Cos(t+p.X*0.01)*0.05
		p.Life++

		twinkle := 0.5 + math.Sin(t*2+p.X+p.Y)*0.5
		size := p.Size * (1 + e.Highs*2) * twinkle
		c.FillCircle(p.X, p.Y, size, withAlpha(th.Color(p.ColorIndex), p.Opacity*twinkle))

		switch {
		case p.X < -10:
			p.X = w + 10
		case p.X > w+10:
			p.X = -10
		}
		switch {
		case p.Y < -10:
			p.Y = h + 10
		case p.Y > h+10:
			p.Y = -10
		}
	}
}
