// Package analyzer extracts frequency band energy from the audio flowing through
// the shared output. Snapshots use a fixed FFT size and a Blackman window, are
// smoothed across calls and mapped from decibels onto bytes.
package analyzer

import (
	"fmt"
	"log/slog"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

const (
	// FFTSize is the analysis window length in samples
	FFTSize = 256

	// BinCount is the number of frequency bins in a snapshot
	BinCount = FFTSize / 2

	// Smoothing is the weight of the previous snapshot when blending magnitudes
	Smoothing = 0.82

	// MinDecibels maps to byte 0
	MinDecibels = -100.0

	// MaxDecibels maps to byte 255
	MaxDecibels = -30.0

	// Band split points as fractions of the bin range
	bassFraction = 0.15
	midsFraction = 0.5
)

// Analyzer turns tapped samples into frequency snapshots.
//
// It must be connected explicitly, normally from a user gesture. Until then every
// query reports unavailable. A failed connection is logged and otherwise ignored:
// playback never depends on analysis.
//
// Thread-safety: All methods are thread-safe.
type Analyzer struct {
	logger *slog.Logger
	bus    ports.EventBus

	mu        sync.Mutex
	element   ports.SampleTap
	connected bool

	window   []float64
	samples  []float64
	buffer   []complex128
	smoothed []float64
}

// New creates an analyzer with nothing registered. bus may be nil.
func New(logger *slog.Logger, bus ports.EventBus) *Analyzer {
	return &Analyzer{
		logger:   logger,
		bus:      bus,
		window:   blackman(FFTSize),
		samples:  make([]float64, FFTSize),
		buffer:   make([]complex128, FFTSize),
		smoothed: make([]float64, BinCount),
	}
}

// RegisterAudioElement records the output to analyze. Registering a different
// output drops any existing connection.
func (a *Analyzer) RegisterAudioElement(element ports.SampleTap) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.element == element {
		return
	}
	a.element = element
	a.connected = false
	clear(a.smoothed)
}

// EnsureConnected connects the analyzer to the registered output if it is not
// connected yet. It never panics; failures are logged and reported as false.
func (a *Analyzer) EnsureConnected() bool {
	a.mu.Lock()
	if a.connected {
		a.mu.Unlock()
		return true
	}
	err := a.connectLocked()
	connected := a.connected
	a.mu.Unlock()

	if err != nil {
		a.logger.Warn("audio analysis unavailable", slog.Any("error", err))
		if a.bus != nil {
			a.bus.Publish(domain.NewAnalyzerFailedEvent(err))
		}
		return false
	}

	a.logger.Debug("analyzer connected", slog.Int("bins", BinCount))
	if a.bus != nil {
		a.bus.Publish(domain.NewAnalyzerConnectedEvent(BinCount))
	}
	return connected
}

// ResumeAudioContext is called from playback gestures. It connects if needed
// and is a no-op afterwards.
func (a *Analyzer) ResumeAudioContext() {
	a.EnsureConnected()
}

// IsReady reports whether snapshots are available.
func (a *Analyzer) IsReady() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connected
}

// FrequencyData returns the current magnitude of each bin as a byte, or false
// when the analyzer is not connected.
func (a *Analyzer) FrequencyData() ([]uint8, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.connected {
		return nil, false
	}

	a.readSamplesLocked()

	for i, s := range a.samples {
		a.buffer[i] = complex(s*a.window[i], 0)
	}
	spectrum := fft.FFT(a.buffer)

	out := make([]uint8, BinCount)
	for k := 0; k < BinCount; k++ {
		magnitude := cmplx.Abs(spectrum[k]) / FFTSize
		a.smoothed[k] = Smoothing*a.smoothed[k] + (1-Smoothing)*magnitude
		out[k] = toByte(a.smoothed[k])
	}
	return out, true
}

// TimeDomainData returns the most recent BinCount samples as bytes centred on 128,
// or false when the analyzer is not connected.
func (a *Analyzer) TimeDomainData() ([]uint8, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.connected {
		return nil, false
	}

	a.readSamplesLocked()

	out := make([]uint8, BinCount)
	recent := a.samples[FFTSize-BinCount:]
	for i, s := range recent {
		out[i] = uint8(math.Max(0, math.Min(255, math.Round(128+s*128))))
	}
	return out, true
}

// Energy returns the band energies of a fresh snapshot, or false when unavailable.
func (a *Analyzer) Energy() (domain.Energy, bool) {
	data, ok := a.FrequencyData()
	if !ok {
		return domain.Energy{}, false
	}
	return EnergyBands(data), true
}

// EnergyBands averages the low 15%, the next 35% and the top 50% of the bins,
// each normalized to [0, 1]. Empty partitions count as silent.
func EnergyBands(data []uint8) domain.Energy {
	n := len(data)
	bassEnd := int(math.Floor(float64(n) * bassFraction))
	midsEnd := int(math.Floor(float64(n) * midsFraction))

	return domain.Energy{
		Bass:  bandAverage(data[:bassEnd]),
		Mids:  bandAverage(data[bassEnd:midsEnd]),
		Highs: bandAverage(data[midsEnd:]),
	}
}

func bandAverage(bins []uint8) float64 {
	if len(bins) == 0 {
		return 0
	}
	sum := 0
	for _, v := range bins {
		sum += int(v)
	}
	return float64(sum) / (float64(len(bins)) * 255)
}

func (a *Analyzer) connectLocked() (err error) {
	if a.element == nil {
		return domain.ErrAnalyzerNotRegistered
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrAnalyzerUnavailable, r)
		}
	}()

	if rate := a.element.SampleRate(); rate <= 0 {
		return fmt.Errorf("%w: sample rate %d", domain.ErrAnalyzerUnavailable, rate)
	}

	clear(a.smoothed)
	a.connected = true
	return nil
}

// readSamplesLocked fills samples with the newest FFTSize samples, zero padded at the front.
func (a *Analyzer) readSamplesLocked() {
	n := a.element.Samples(a.samples)
	if n >= FFTSize {
		return
	}
	if n < 0 {
		n = 0
	}
	copy(a.samples[FFTSize-n:], a.samples[:n])
	clear(a.samples[:FFTSize-n])
}

func toByte(magnitude float64) uint8 {
	if magnitude <= 0 {
		return 0
	}
	db := 20 * math.Log10(magnitude)
	scaled := 255 * (db - MinDecibels) / (MaxDecibels - MinDecibels)
	return uint8(math.Max(0, math.Min(255, scaled)))
}

// blackman returns a periodic Blackman window of the given size.
func blackman(size int) []float64 {
	const a0, a1, a2 = 0.42, 0.5, 0.08
	w := make([]float64, size)
	n := float64(size)
	for i := range w {
		x := float64(i)
		w[i] = a0 - a1*math.Cos(2*math.Pi*x/n) + a2*math.Cos(4*math.Pi*x/n)
	}
	return w
}

var _ ports.EnergySource = (*Analyzer)(nil)
