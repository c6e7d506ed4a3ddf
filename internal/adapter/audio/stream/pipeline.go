package stream

import (
	"math"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// DefaultTapSize is the number of mono samples kept for analysis.
const DefaultTapSize = 4096

// resampleQuality is beep's recommended quality for playback.
const resampleQuality = 4

// Pipeline is the single never-ending stream handed to the audio device.
// It plays at most one source through pause control and gain, streams
// silence when idle, and reports the natural end of each source once.
//
// Thread-safety: All methods are thread-safe. Stream runs on the device thread.
type Pipeline struct {
	rate beep.SampleRate
	tap  *Tap

	mu     sync.Mutex
	src    *Source
	gen    uint64
	ctrl   *beep.Ctrl
	gain   *effects.Volume
	volume float64
	ended  bool
	onEnd  func(gen uint64)
}

// NewPipeline creates an idle pipeline producing samples at rate.
func NewPipeline(rate beep.SampleRate, tapSize int) *Pipeline {
	if tapSize <= 0 {
		tapSize = DefaultTapSize
	}
	p := &Pipeline{rate: rate, volume: 1}
	p.tap = NewTap(beep.StreamerFunc(p.stream), tapSize)
	return p
}

// SetOnEnd registers the callback fired, with the load generation, when a
// source plays to its end. It runs on the device thread and must not block.
func (p *Pipeline) SetOnEnd(fn func(gen uint64)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEnd = fn
}

// Load swaps in src, paused at its start, and closes the previous source.
func (p *Pipeline) Load(src *Source, gen uint64) {
	var s beep.Streamer = src.streamer
	if src.format.SampleRate != p.rate {
		s = beep.Resample(resampleQuality, src.format.SampleRate, p.rate, s)
	}
	ctrl := &beep.Ctrl{Streamer: s, Paused: true}

	p.mu.Lock()
	old := p.src
	p.src = src
	p.gen = gen
	p.ctrl = ctrl
	p.gain = &effects.Volume{Streamer: ctrl, Base: 2}
	p.ended = false
	p.applyVolumeLocked()
	p.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
}

// Clear detaches and closes the current source.
func (p *Pipeline) Clear() {
	p.mu.Lock()
	old := p.src
	p.src, p.ctrl, p.gain = nil, nil, nil
	p.ended = false
	p.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
}

// SetPaused pauses or resumes the current source.
func (p *Pipeline) SetPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl != nil {
		p.ctrl.Paused = paused
	}
}

// Paused reports whether the current source is paused. Without a source it is.
func (p *Pipeline) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctrl == nil || p.ctrl.Paused
}

// Ended reports whether the current source has played to its end.
func (p *Pipeline) Ended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ended
}

// SetVolume sets the linear gain, clamped to [0, 1].
func (p *Pipeline) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = math.Max(0, math.Min(1, volume))
	p.applyVolumeLocked()
}

// Volume returns the linear gain.
func (p *Pipeline) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *Pipeline) applyVolumeLocked() {
	if p.gain == nil {
		return
	}
	// Base 2 gain is 2^Volume, so log2 gives a linear level.
	p.gain.Silent = p.volume <= 0
	if !p.gain.Silent {
		p.gain.Volume = math.Log2(p.volume)
	}
}

// Seek moves the current source to seconds, clamped to its length.
func (p *Pipeline) Seek(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.src == nil {
		return nil
	}
	s := p.src.streamer
	pos := p.src.format.SampleRate.N(secondsToDuration(seconds))
	pos = max(0, min(pos, s.Len()))
	if err := s.Seek(pos); err != nil {
		return err
	}
	p.ended = pos >= s.Len()
	return nil
}

// Position returns the playback position of the current source in seconds.
func (p *Pipeline) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.src == nil {
		return 0
	}
	return p.src.format.SampleRate.D(p.src.streamer.Position()).Seconds()
}

// Duration returns the current source length in seconds, NaN without a source.
func (p *Pipeline) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.src == nil {
		return math.NaN()
	}
	return p.src.Duration()
}

// Stream produces the next samples for the device.
func (p *Pipeline) Stream(samples [][2]float64) (int, bool) {
	return p.tap.Stream(samples)
}

// Err always returns nil; source errors end the source instead.
func (p *Pipeline) Err() error {
	return nil
}

// Samples copies the most recent output samples, newest last.
func (p *Pipeline) Samples(dst []float64) int {
	return p.tap.Samples(dst)
}

// SampleRate returns the output rate in Hz.
func (p *Pipeline) SampleRate() int {
	return int(p.rate)
}

func (p *Pipeline) stream(samples [][2]float64) (int, bool) {
	p.mu.Lock()
	if p.gain == nil || p.ended || p.ctrl.Paused {
		p.mu.Unlock()
		clear(samples)
		return len(samples), true
	}

	n, ok := p.gain.Stream(samples)
	var notify func(uint64)
	gen := p.gen
	if !ok || n < len(samples) {
		clear(samples[n:])
		p.ended = true
		notify = p.onEnd
	}
	p.mu.Unlock()

	if notify != nil {
		notify(gen)
	}
	return len(samples), true
}
