package visualizer

import (
	"math"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

const (
	auroraBands = 5
	auroraStep  = 4.0
)

// auroraSweep draws layered horizontal wave bands that swell with mids and bass.
type auroraSweep struct{}

func (auroraSweep) Name() domain.DrawStyle { return domain.StyleAuroraSweep }

func (auroraSweep) Draw(c *Canvas, s *Scene) {
	e, th, t := s.Energy, s.Theme, s.Time
	w, h := s.Width, s.Height

	pts := make([]Point, 0, int(w/auroraStep)+4)
	for band := 0; band < auroraBands; band++ {
		b := float64(band)
		yBase := h * (0.25 + b*0.12)
		amplitude := 30 + e.Mids*80 + e.Bass*40
		col := th.Color(band)
		alpha := 0.12 + e.Mids*0.15

		pts = pts[:0]
		pts = append(pts, Point{0, yBase})
		for x := 0.0; x <= w; x += auroraStep {
			wave1 := math.Sin((x/w)*4+t*0.3+b*1.2) * amplitude
			wave2 := math.Sin((x/w)*7+t*0.5+b*0.8) * amplitude * 0.4
			wave3 := math.Sin((x/w)*2+t*0.15) * amplitude * 0.6
			pts = append(pts, Point{x, yBase + wave1 + wave2 + wave3})
		}
		pts = append(pts, Point{w, h}, Point{0, h})

		fill := c.LinearGradient(Point{0, yBase - amplitude}, Point{0, h},
			Stop{0, withAlpha(col, alpha)},
			Stop{0.5, withAlpha(col, alpha*0.3)},
			Stop{1, Transparent},
		)
		c.FillPolygon(pts, fill)
	}

	c.RadialGlow(w/2, 0, h*0.5,
		Stop{0, withAlpha(th.Color(2), 0.08+e.Highs*0.1)},
		Stop{1, Transparent},
	)
}
