package visualizer

import (
	"math"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

const sunriseRayCount = 24

// sunriseRays draws light rays fanning out from a horizon point below the centre.
type sunriseRays struct{}

func (sunriseRays) Name() domain.DrawStyle { return domain.StyleSunriseRays }

func (sunriseRays) Draw(c *Canvas, s *Scene) {
	e, th, t := s.Energy, s.Theme, s.Time
	w, h := s.Width, s.Height
	cx, cy := w/2, h*0.65

	sunRadius := 40 + e.Bass*60
	c.RadialGlow(cx, cy, sunRadius*3,
		Stop{0, withAlpha(th.Color(1), 0.3+e.Bass*0.2)},
		Stop{0.3, withAlpha(th.Color(0), 0.15)},
		Stop{1, Transparent},
	)

	ray := make([]Point, 3)
	for i := 0; i < sunriseRayCount; i++ {
		fi := float64(i)
		angle := fi/sunriseRayCount*math.Pi*2 + t*0.02
		length := math.Max(w, h) * (0.5 + e.Mids*0.5 + math.Sin(t*0.3+fi*0.5)*0.15)
		spread := 0.04 + e.Highs*0.03 + math.Sin(t*0.2+fi)*0.01
		alpha := 0.04 + e.Bass*0.06

		ray[0] = Point{cx, cy}
		ray[1] = Point{cx + math.Cos(angle-spread)*length, cy + math.Sin(angle-spread)*length}
		ray[2] = Point{cx + math.Cos(angle+spread)*length, cy + math.Sin(angle+spread)*length}
		c.FillPolygon(ray, uniform(withAlpha(th.Color(i), alpha)))
	}

	horizon := c.LinearGradient(Point{0, cy - 20}, Point{0, cy + 40},
		Stop{0, Transparent},
		Stop{0.5, withAlpha(th.Color(0), 0.15+e.Mids*0.1)},
		Stop{1, Transparent},
	)
	c.FillRect(0, cy-20, w, 60, horizon)
}
