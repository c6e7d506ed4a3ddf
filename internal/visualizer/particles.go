package visualizer

import (
	"math/rand/v2"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// Particle is one element of a particle style's pool. Particles are updated in
// place and wrapped or respawned at the edges, never freed.
type Particle struct {
	X, Y       float64
	VX, VY     float64
	Size       float64
	Opacity    float64
	Life       int
	MaxLife    int
	ColorIndex int
}

// newParticles fills a pool of count particles for the style.
func newParticles(style domain.DrawStyle, count int, w, h float64, colors int, rng *rand.Rand) []Particle {
	pool := make([]Particle, count)
	for i := range pool {
		spawnParticle(&pool[i], style, w, h, colors, rng)
	}
	return pool
}

// spawnParticle initialises p with the starting motion of the style.
// nolint:gosec // G404 - weak random is fine for visual effects
func spawnParticle(p *Particle, style domain.DrawStyle, w, h float64, colors int, rng *rand.Rand) {
	colorIndex := 0
	if colors > 0 {
		colorIndex = rng.IntN(colors)
	}

	switch style {
	case domain.StyleFallingSnow:
		*p = Particle{
			X:          rng.Float64() * w,
			Y:          rng.Float64()*h - h,
			VX:         (rng.Float64() - 0.5) * 0.3,
			VY:         0.3 + rng.Float64()*0.8,
			Size:       1 + rng.Float64()*3,
			Opacity:    0.3 + rng.Float64()*0.5,
			MaxLife:    1000,
			ColorIndex: colorIndex,
		}
	case domain.StyleRisingBubbles:
		*p = Particle{
			X:          rng.Float64() * w,
			Y:          h + rng.Float64()*100,
			VX:         (rng.Float64() - 0.5) * 0.2,
			VY:         -(0.5 + rng.Float64()*1.2),
			Size:       3 + rng.Float64()*8,
			Opacity:    0.15 + rng.Float64()*0.35,
			MaxLife:    500,
			ColorIndex: colorIndex,
		}
	case domain.StyleNebulaField:
		*p = Particle{
			X:          rng.Float64() * w,
			Y:          rng.Float64() * h,
			VX:         (rng.Float64() - 0.5) * 0.1,
			VY:         (rng.Float64() - 0.5) * 0.1,
			Size:       0.5 + rng.Float64()*2,
			Opacity:    0.3 + rng.Float64()*0.7,
			MaxLife:    2000,
			ColorIndex: colorIndex,
		}
	default:
		*p = Particle{
			X:       rng.Float64() * w,
			Y:       rng.Float64() * h,
			Size:    2,
			Opacity: 0.5,
			MaxLife: 500,
		}
	}
}
