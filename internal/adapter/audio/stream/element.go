package stream

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// DefaultTimeUpdateInterval is how often a playing element reports its position.
const DefaultTimeUpdateInterval = 250 * time.Millisecond

// Opener fetches and decodes one source.
type Opener func(ctx context.Context, url string) (*Source, error)

// Element is a media-element style ports.AudioOutput over a Pipeline.
//
// Load decodes in the background and reports LoadStart, then LoadedMetadata
// and CanPlay, or Error. Play before the source is ready is remembered and
// honored once it is. A clock reports TimeUpdate while playing and Ended when
// the source runs out.
//
// Thread-safety: All methods are thread-safe. Listeners run without the lock held.
type Element struct {
	logger   *slog.Logger
	pipeline *Pipeline
	open     Opener

	mu         sync.Mutex
	url        string
	token      uint64
	loading    bool
	errored    bool
	playing    bool
	closed     bool
	cancelLoad context.CancelFunc
	listeners  map[int]ports.OutputListener
	nextID     int

	ended chan uint64
	stop  chan struct{}
	wg    sync.WaitGroup
}

// NewElement creates an element and starts its clock.
func NewElement(logger *slog.Logger, pipeline *Pipeline, open Opener, interval time.Duration) *Element {
	if interval <= 0 {
		interval = DefaultTimeUpdateInterval
	}
	e := &Element{
		logger:    logger.With("component", "audio_element"),
		pipeline:  pipeline,
		open:      open,
		listeners: make(map[int]ports.OutputListener),
		ended:     make(chan uint64, 1),
		stop:      make(chan struct{}),
	}
	pipeline.SetOnEnd(e.signalEnded)

	e.wg.Add(1)
	go e.clock(interval)
	return e
}

// Load replaces the source with url and starts decoding it.
func (e *Element) Load(url string, token uint64) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrOutputClosed
	}
	e.resetLocked()
	e.url = url
	e.token = token
	e.loading = true
	ctx, cancel := context.WithCancel(context.Background())
	e.cancelLoad = cancel
	e.mu.Unlock()

	e.pipeline.Clear()
	e.logger.Debug("loading source", slog.String("url", url), slog.Uint64("token", token))
	e.emit(ports.OutputEvent{Kind: ports.OutputLoadStart, Token: token, Duration: math.NaN()})

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.token != token {
		cancel()
		return nil
	}
	e.wg.Add(1)
	go e.fetch(ctx, url, token)
	return nil
}

func (e *Element) fetch(ctx context.Context, url string, token uint64) {
	defer e.wg.Done()

	src, err := e.open(ctx, url)

	e.mu.Lock()
	if e.closed || e.token != token || ctx.Err() != nil {
		e.mu.Unlock()
		if src != nil {
			_ = src.Close()
		}
		return
	}
	e.loading = false
	if err != nil {
		e.errored = true
		e.playing = false
		e.mu.Unlock()
		e.emit(ports.OutputEvent{Kind: ports.OutputError, Token: token, Duration: math.NaN(), Err: err})
		return
	}
	e.pipeline.Load(src, token)
	e.pipeline.SetPaused(!e.playing)
	duration := src.Duration()
	e.mu.Unlock()

	e.emit(ports.OutputEvent{Kind: ports.OutputLoadedMetadata, Token: token, Duration: duration})
	e.emit(ports.OutputEvent{Kind: ports.OutputCanPlay, Token: token, Duration: duration})
}

// Clear detaches the source.
func (e *Element) Clear() {
	e.mu.Lock()
	e.resetLocked()
	e.mu.Unlock()
	e.pipeline.Clear()
}

func (e *Element) resetLocked() {
	if e.cancelLoad != nil {
		e.cancelLoad()
		e.cancelLoad = nil
	}
	e.url = ""
	e.token = 0
	e.loading = false
	e.errored = false
	e.playing = false
}

// Play starts playback, or schedules it if the source is still loading.
// A source that played to its end restarts from the beginning.
func (e *Element) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.closed:
		return domain.ErrOutputClosed
	case e.url == "":
		return domain.ErrNoSource
	case e.errored:
		return domain.NewAudioOutputError("play", e.url, "source failed to load", nil)
	}
	e.playing = true
	if !e.loading {
		if e.pipeline.Ended() {
			if err := e.pipeline.Seek(0); err != nil {
				return domain.NewAudioOutputError("play", e.url, "cannot rewind", err)
			}
		}
		e.pipeline.SetPaused(false)
	}
	return nil
}

// Pause stops playback and keeps the position.
func (e *Element) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrOutputClosed
	}
	e.playing = false
	e.pipeline.SetPaused(true)
	return nil
}

// SetVolume sets the output level.
func (e *Element) SetVolume(volume float64) {
	e.pipeline.SetVolume(volume)
}

// SetCurrentTime moves the position. Seeking while loading is ignored.
func (e *Element) SetCurrentTime(seconds float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.url == "" {
		return domain.ErrNoSource
	}
	if e.loading || e.errored {
		return nil
	}
	if err := e.pipeline.Seek(seconds); err != nil {
		return domain.NewAudioOutputError("seek", e.url, "seek failed", err)
	}
	return nil
}

// CurrentTime returns the position in seconds.
func (e *Element) CurrentTime() float64 {
	return e.pipeline.Position()
}

// Duration returns the length in seconds, NaN while unknown.
func (e *Element) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.url == "" || e.loading || e.errored {
		return math.NaN()
	}
	return e.pipeline.Duration()
}

// AddListener registers a listener.
func (e *Element) AddListener(listener ports.OutputListener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = listener
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

// Close cancels any load, stops the clock and detaches the source.
func (e *Element) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrOutputClosed
	}
	e.closed = true
	e.resetLocked()
	e.mu.Unlock()

	close(e.stop)
	e.wg.Wait()
	e.pipeline.Clear()
	return nil
}

// Samples copies the most recent output samples, newest last.
func (e *Element) Samples(dst []float64) int {
	return e.pipeline.Samples(dst)
}

// SampleRate returns the output rate.
func (e *Element) SampleRate() int {
	return e.pipeline.SampleRate()
}

// IsPlaying reports whether playback is requested.
func (e *Element) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

func (e *Element) signalEnded(gen uint64) {
	select {
	case e.ended <- gen:
	default:
	}
}

func (e *Element) clock(interval time.Duration) {
	defer e.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			e.tick()
		case gen := <-e.ended:
			e.finish(gen)
		}
	}
}

func (e *Element) tick() {
	e.mu.Lock()
	if !e.playing || e.loading || e.url == "" {
		e.mu.Unlock()
		return
	}
	ev := ports.OutputEvent{
		Kind:        ports.OutputTimeUpdate,
		Token:       e.token,
		CurrentTime: e.pipeline.Position(),
		Duration:    e.pipeline.Duration(),
	}
	e.mu.Unlock()
	e.emit(ev)
}

func (e *Element) finish(gen uint64) {
	e.mu.Lock()
	if gen != e.token || e.url == "" {
		e.mu.Unlock()
		return
	}
	e.playing = false
	e.pipeline.SetPaused(true)
	duration := e.pipeline.Duration()
	token := e.token
	e.mu.Unlock()

	e.emit(ports.OutputEvent{Kind: ports.OutputTimeUpdate, Token: token, CurrentTime: duration, Duration: duration})
	e.emit(ports.OutputEvent{Kind: ports.OutputEnded, Token: token, CurrentTime: duration, Duration: duration})
}

func (e *Element) emit(ev ports.OutputEvent) {
	e.mu.Lock()
	listeners := make([]ports.OutputListener, 0, len(e.listeners))
	for i := 0; i < e.nextID; i++ {
		if l, ok := e.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	e.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}

var (
	_ ports.AudioOutput = (*Element)(nil)
	_ ports.SampleTap   = (*Element)(nil)
)
