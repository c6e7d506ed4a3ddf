package visualizer

import (
	"image/color"
	"sync"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// fixedEnergy reports a constant energy, or unavailable when off is set.
type fixedEnergy struct {
	mu     sync.Mutex
	energy domain.Energy
	off    bool
}

func (f *fixedEnergy) FrequencyData() ([]uint8, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.off {
		return nil, false
	}
	return make([]uint8, 128), true
}

func (f *fixedEnergy) Energy() (domain.Energy, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.off {
		return domain.Energy{}, false
	}
	return f.energy, true
}

// Helper to create a test theme
func createTestTheme(style domain.DrawStyle, particles int) domain.VisualizerTheme {
	return domain.VisualizerTheme{
		DrawStyle: style,
		Colors: []color.RGBA{
			{R: 0xf4, G: 0xa2, B: 0x61, A: 0xff},
			{R: 0xe7, G: 0x6f, B: 0x51, A: 0xff},
			{R: 0x2a, G: 0x9d, B: 0x8f, A: 0xff},
			{R: 0xe9, G: 0xc4, B: 0x6a, A: 0xff},
		},
		BgColor:       color.RGBA{R: 0x10, G: 0x0c, B: 0x08, A: 0xff},
		GlowColor:     color.RGBA{R: 0xff, G: 0xd1, B: 0x66, A: 0xff},
		ParticleCount: particles,
		Intensity:     0.8,
	}
}
