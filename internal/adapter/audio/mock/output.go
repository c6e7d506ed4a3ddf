// Package mock provides a simulated implementation of the AudioOutput interface.
// It behaves like a media element without decoding or playing any audio, which
// makes it suitable for tests and for running the player headless.
package mock

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// DefaultDuration is the length reported for loads when auto-loading is on.
const DefaultDuration = 180.0

// Output is a simulated audio output.
//
// By default Load only reports LoadStart, like a real element waiting on the network.
// Tests drive the rest with the Simulate methods. SetAutoLoad makes Load report
// metadata and readiness immediately.
//
// Thread-safety: This implementation is thread-safe. Listeners are invoked
// without the internal lock held.
type Output struct {
	logger *slog.Logger

	mu        sync.Mutex
	source    string
	token     uint64
	duration  float64
	position  float64
	volume    float64
	playing   bool
	errored   bool
	closed    bool
	loads     []string
	listeners map[int]ports.OutputListener
	nextID    int

	// Behavior configuration (for testing error scenarios)
	rejectPlay   bool
	failLoad     bool
	autoLoad     bool
	loadDuration float64

	// Synthetic signal for the sample tap
	sampleRate int
	toneHz     float64
	phase      float64

	// Clock
	stopClock chan struct{}
	clockWg   sync.WaitGroup
}

// NewOutput creates a new simulated output with nothing loaded.
func NewOutput() *Output {
	return &Output{
		logger:       slog.New(slog.DiscardHandler),
		duration:     math.NaN(),
		volume:       1,
		listeners:    make(map[int]ports.OutputListener),
		loadDuration: DefaultDuration,
		sampleRate:   44100,
		toneHz:       110,
	}
}

// SetLogger sets the logger for this output.
func (m *Output) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// SetRejectPlay makes Play fail the way a blocked autoplay does (for testing).
func (m *Output) SetRejectPlay(reject bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectPlay = reject
}

// SetFailLoad makes every load report an error (for testing).
func (m *Output) SetFailLoad(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = fail
}

// SetAutoLoad makes Load report metadata and readiness immediately.
func (m *Output) SetAutoLoad(auto bool, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoLoad = auto
	if duration > 0 {
		m.loadDuration = duration
	}
}

// SetTone sets the frequency of the synthetic signal returned by Samples.
func (m *Output) SetTone(hz float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toneHz = hz
}

// Load replaces the source.
func (m *Output) Load(url string, token uint64) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return domain.ErrOutputClosed
	}
	m.source = url
	m.token = token
	m.duration = math.NaN()
	m.position = 0
	m.playing = false
	m.errored = false
	m.loads = append(m.loads, url)
	failLoad, autoLoad, dur := m.failLoad, m.autoLoad, m.loadDuration
	m.logger.Debug("mock load", slog.String("url", url), slog.Uint64("token", token))
	m.mu.Unlock()

	m.emit(ports.OutputEvent{Kind: ports.OutputLoadStart, Token: token, Duration: math.NaN()})

	switch {
	case failLoad:
		m.SimulateError(domain.NewAudioOutputError("load", url, "simulated load failure", nil))
	case autoLoad:
		m.SimulateLoadedMetadata(dur)
		m.SimulateCanPlay()
	}
	return nil
}

// Clear detaches the source.
func (m *Output) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source = ""
	m.token = 0
	m.errored = false
	m.duration = math.NaN()
	m.position = 0
	m.playing = false
}

// Play starts playback unless rejection is configured.
func (m *Output) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.closed:
		return domain.ErrOutputClosed
	case m.source == "":
		return domain.ErrNoSource
	case m.rejectPlay:
		return domain.ErrPlaybackRejected
	case m.errored:
		return domain.NewAudioOutputError("play", m.source, "source failed to load", nil)
	}
	m.playing = true
	return nil
}

// Pause stops playback.
func (m *Output) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return domain.ErrOutputClosed
	}
	m.playing = false
	return nil
}

// SetVolume sets the output level.
func (m *Output) SetVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = math.Max(0, math.Min(1, volume))
}

// SetCurrentTime moves the position.
func (m *Output) SetCurrentTime(seconds float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.source == "" {
		return domain.ErrNoSource
	}
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	if !math.IsNaN(m.duration) && seconds > m.duration {
		seconds = m.duration
	}
	m.position = seconds
	return nil
}

// CurrentTime returns the position in seconds.
func (m *Output) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Duration returns the length in seconds, NaN while unknown.
func (m *Output) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// AddListener registers a listener.
func (m *Output) AddListener(listener ports.OutputListener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = listener
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Close stops the clock and releases the output.
func (m *Output) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return domain.ErrOutputClosed
	}
	m.closed = true
	m.playing = false
	stop := m.stopClock
	m.stopClock = nil
	m.mu.Unlock()

	if stop != nil {
		close(stop)
		m.clockWg.Wait()
	}
	return nil
}

// StartClock advances the position in real time while playing, reporting
// TimeUpdate every interval and Ended at the end of the source.
func (m *Output) StartClock(interval time.Duration) {
	m.mu.Lock()
	if m.stopClock != nil || m.closed {
		m.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	m.stopClock = stop
	m.clockWg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.clockWg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.SimulateProgress(interval.Seconds())
			}
		}
	}()
}

// Samples fills dst with a sine tone scaled by volume while playing, silence otherwise.
func (m *Output) Samples(dst []float64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.playing {
		clear(dst)
		return len(dst)
	}
	step := 2 * math.Pi * m.toneHz / float64(m.sampleRate)
	for i := range dst {
		dst[i] = m.volume * math.Sin(m.phase)
		m.phase += step
	}
	m.phase = math.Mod(m.phase, 2*math.Pi)
	return len(dst)
}

// SampleRate returns the rate of the synthetic signal.
func (m *Output) SampleRate() int {
	return m.sampleRate
}

// Simulation helpers

// SimulateLoadedMetadata reports the duration of the current source.
func (m *Output) SimulateLoadedMetadata(duration float64) {
	m.mu.Lock()
	m.duration = duration
	ev := ports.OutputEvent{Kind: ports.OutputLoadedMetadata, Token: m.token, CurrentTime: m.position, Duration: duration}
	m.mu.Unlock()
	m.emit(ev)
}

// SimulateCanPlay reports that the current source is ready.
func (m *Output) SimulateCanPlay() {
	m.emit(m.event(ports.OutputCanPlay, nil))
}

// SimulateTimeUpdate jumps to seconds and reports it.
func (m *Output) SimulateTimeUpdate(seconds float64) {
	m.mu.Lock()
	m.position = seconds
	m.mu.Unlock()
	m.emit(m.event(ports.OutputTimeUpdate, nil))
}

// SimulateProgress advances the position by delta seconds if playing.
// Reaching the end stops playback and reports Ended.
func (m *Output) SimulateProgress(delta float64) {
	m.mu.Lock()
	if !m.playing || m.source == "" {
		m.mu.Unlock()
		return
	}
	m.position += delta
	ended := !math.IsNaN(m.duration) && m.position >= m.duration
	if ended {
		m.position = m.duration
		m.playing = false
	}
	m.mu.Unlock()

	m.emit(m.event(ports.OutputTimeUpdate, nil))
	if ended {
		m.emit(m.event(ports.OutputEnded, nil))
	}
}

// SimulateEnded reports the natural end of the source.
func (m *Output) SimulateEnded() {
	m.mu.Lock()
	m.playing = false
	m.mu.Unlock()
	m.emit(m.event(ports.OutputEnded, nil))
}

// SimulateError reports a load or decode failure.
func (m *Output) SimulateError(err error) {
	m.mu.Lock()
	m.playing = false
	m.errored = true
	m.mu.Unlock()
	m.emit(m.event(ports.OutputError, err))
}

// Emit delivers an arbitrary event, e.g. one carrying a stale token.
func (m *Output) Emit(ev ports.OutputEvent) {
	m.emit(ev)
}

// Inspection helpers

// Source returns the loaded URL, "" when cleared.
func (m *Output) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}

// Token returns the token of the current load.
func (m *Output) Token() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Loads returns every URL loaded so far.
func (m *Output) Loads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.loads))
	copy(out, m.loads)
	return out
}

// IsPlaying reports whether the output is playing.
func (m *Output) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Volume returns the output level.
func (m *Output) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// ListenerCount returns the number of registered listeners.
func (m *Output) ListenerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

func (m *Output) event(kind ports.OutputEventKind, err error) ports.OutputEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ports.OutputEvent{
		Kind:        kind,
		Token:       m.token,
		CurrentTime: m.position,
		Duration:    m.duration,
		Err:         err,
	}
}

func (m *Output) emit(ev ports.OutputEvent) {
	m.mu.Lock()
	listeners := make([]ports.OutputListener, 0, len(m.listeners))
	for i := 0; i < m.nextID; i++ {
		if l, ok := m.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}

var (
	_ ports.AudioOutput = (*Output)(nil)
	_ ports.SampleTap   = (*Output)(nil)
)
