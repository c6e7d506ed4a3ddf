// Package visualizer renders audio-reactive generative visuals into an image,
// independent of the surface that finally shows them.
package visualizer

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

const (
	// LerpRate is how far smoothed energy moves toward its target each frame.
	LerpRate = 0.08

	// TimeStep is the animation clock increment per frame, in seconds.
	TimeStep = 0.016

	// DefaultFrameRate is the loop rate used when none is configured.
	DefaultFrameRate = 60
)

// FrameSink receives each rendered frame from the loop. The image is reused
// by the next frame, so a sink must copy what it keeps before returning.
type FrameSink func(frame *image.RGBA)

// Renderer draws one theme's style frame by frame.
//
// Animation advances by a fixed TimeStep per frame rather than by wall time.
// Resizing rebuilds the surface and particle pool but keeps the clock and the
// smoothed energy, so motion continues where it was.
//
// Thread-safety: All methods are thread-safe.
type Renderer struct {
	logger *slog.Logger
	energy ports.EnergySource

	mu        sync.Mutex
	theme     domain.VisualizerTheme
	style     Style
	smoothed  domain.Energy
	elapsed   float64
	frames    uint64
	width     int
	height    int
	dpr       float64
	canvas    *Canvas
	particles []Particle
	rng       *rand.Rand
	interval  time.Duration

	// Loop
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewRenderer creates a renderer for theme. energy may be nil, in which case
// the visuals idle as if the audio were silent.
func NewRenderer(logger *slog.Logger, energy ports.EnergySource, theme domain.VisualizerTheme) (*Renderer, error) {
	if err := theme.Validate(); err != nil {
		return nil, err
	}
	style, err := StyleFor(theme.DrawStyle)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		logger: logger.With("component", "visualizer"),
		energy: energy,
		theme:  theme,
		style:  style,
		dpr:    1,
		// nolint:gosec // G404 - weak random is fine for visual effects
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		interval: time.Second / DefaultFrameRate,
	}, nil
}

// SetSeed makes particle placement deterministic.
func (r *Renderer) SetSeed(seed uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SetFrameRate sets the loop rate. It applies the next time the loop starts.
func (r *Renderer) SetFrameRate(fps int) {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interval = time.Second / time.Duration(fps)
}

// Resize rebuilds the surface at width x height logical pixels and the given
// device pixel ratio. The particle pool is respawned across the new area; the
// animation clock is kept.
func (r *Renderer) Resize(width, height int, dpr float64) error {
	if dpr <= 0 {
		dpr = 1
	}
	c, err := NewCanvas(width, height, dpr)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height, r.dpr = width, height, dpr
	r.canvas = c
	r.resetParticlesLocked()

	r.logger.Debug("visualizer resized",
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Float64("dpr", dpr),
		slog.Float64("elapsed", r.elapsed))
	return nil
}

// SetTheme switches to another theme. The particle pool is rebuilt when the
// draw style or particle count changes.
func (r *Renderer) SetTheme(theme domain.VisualizerTheme) error {
	if err := theme.Validate(); err != nil {
		return err
	}
	style, err := StyleFor(theme.DrawStyle)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rebuild := theme.DrawStyle != r.theme.DrawStyle || theme.ParticleCount != r.theme.ParticleCount
	r.theme = theme
	r.style = style
	if rebuild {
		r.resetParticlesLocked()
	}
	return nil
}

// Frame advances the animation by one step and draws it. The returned image
// is reused by the next call.
func (r *Renderer) Frame() (*image.RGBA, error) {
	target, ok := r.readEnergy()
	if !ok {
		target = domain.Energy{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.canvas == nil {
		return nil, fmt.Errorf("%w: renderer has no surface", domain.ErrInvalidDimensions)
	}

	k := r.theme.Intensity
	r.smoothed.Bass = lerp(r.smoothed.Bass, target.Bass*k, LerpRate)
	r.smoothed.Mids = lerp(r.smoothed.Mids, target.Mids*k, LerpRate)
	r.smoothed.Highs = lerp(r.smoothed.Highs, target.Highs*k, LerpRate)
	r.elapsed += TimeStep
	r.frames++

	r.canvas.Clear(r.theme.BgColor)
	r.style.Draw(r.canvas, &Scene{
		Width:     r.canvas.Width(),
		Height:    r.canvas.Height(),
		Energy:    r.smoothed,
		Theme:     &r.theme,
		Time:      r.elapsed,
		Particles: r.particles,
		Rand:      r.rng,
	})

	return r.canvas.Image(), nil
}

// Start runs the frame loop until ctx is done or Stop is called. Frames are
// skipped while the renderer has no surface.
func (r *Renderer) Start(ctx context.Context, sink FrameSink) error {
	r.mu.Lock()
	if r.stop != nil {
		r.mu.Unlock()
		return domain.ErrAlreadyRunning
	}
	stop := make(chan struct{})
	r.stop = stop
	interval := r.interval
	r.wg.Add(1)
	r.mu.Unlock()

	r.logger.Info("visualizer started",
		slog.String("style", string(r.Theme().DrawStyle)),
		slog.Duration("interval", interval))

	go r.loop(ctx, stop, interval, sink)
	return nil
}

// Stop ends the frame loop and waits for it to exit.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	stop := r.stop
	r.stop = nil
	r.mu.Unlock()

	if stop == nil {
		return domain.ErrNotRunning
	}
	close(stop)
	r.wg.Wait()

	r.logger.Info("visualizer stopped", slog.Uint64("frames", r.Frames()))
	return nil
}

// IsRunning reports whether the frame loop is active.
func (r *Renderer) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}

// Elapsed returns the animation clock.
func (r *Renderer) Elapsed() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Frames returns the number of frames drawn.
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Smoothed returns the current smoothed energy.
func (r *Renderer) Smoothed() domain.Energy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.smoothed
}

// ParticleCount returns the size of the particle pool.
func (r *Renderer) ParticleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.particles)
}

// Theme returns the active theme.
func (r *Renderer) Theme() domain.VisualizerTheme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

// Size returns the logical size and device pixel ratio of the surface.
func (r *Renderer) Size() (width, height int, dpr float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height, r.dpr
}

func (r *Renderer) loop(ctx context.Context, stop <-chan struct{}, interval time.Duration, sink FrameSink) {
	defer r.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			if r.stop == stop {
				r.stop = nil
			}
			r.mu.Unlock()
			return
		case <-stop:
			return
		case <-ticker.C:
			frame, err := r.Frame()
			if err != nil {
				continue
			}
			if sink != nil {
				sink(frame)
			}
		}
	}
}

func (r *Renderer) readEnergy() (domain.Energy, bool) {
	if r.energy == nil {
		return domain.Energy{}, false
	}
	return r.energy.Energy()
}

func (r *Renderer) resetParticlesLocked() {
	if r.canvas == nil || !r.theme.DrawStyle.UsesParticles() {
		r.particles = nil
		return
	}
	r.particles = newParticles(
		r.theme.DrawStyle,
		r.theme.ParticleCount,
		r.canvas.Width(),
		r.canvas.Height(),
		len(r.theme.Colors),
		r.rng,
	)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
