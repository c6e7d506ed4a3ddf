package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// LoadErrorMessage is the store error shown when a track cannot be loaded.
const LoadErrorMessage = "Failed to load audio"

// BridgeConfig tunes the audio bridge.
type BridgeConfig struct {
	// ErrorSkipDelay is how long a load error stays visible before the track is skipped
	ErrorSkipDelay time.Duration

	// SeekStep is the arrow key seek distance in seconds
	SeekStep float64

	// VolumeStep is the arrow key volume change
	VolumeStep float64
}

// DefaultBridgeConfig returns the standard bridge tuning.
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		ErrorSkipDelay: 2 * time.Second,
		SeekStep:       5,
		VolumeStep:     0.05,
	}
}

// AudioBridge is the only component that drives the audio output.
//
// It follows store transitions and applies them to the output: a new current track
// (by ID) is resolved and loaded, isPlaying maps to play/pause, volume is applied
// directly and a changed seek version moves the playback position. Starting the
// loaded track again rewinds it, or reloads it when its load failed. In the other
// direction it turns the output's signals into passive store updates.
//
// Every load gets a fresh token. Output signals carrying any other token belong to
// a superseded track and are dropped.
//
// Thread-safety: All methods are thread-safe. The bridge never calls the store or
// the output while holding its own lock.
type AudioBridge struct {
	// Dependencies (injected)
	logger   *slog.Logger
	store    *PlayerStore
	output   ports.AudioOutput
	resolver ports.StreamResolver
	bus      ports.EventBus
	config   BridgeConfig

	// Lifetime
	ctx            context.Context
	cancel         context.CancelFunc
	subscription   domain.SubscriptionID
	removeListener func()

	// State
	mu          sync.Mutex
	applied     appliedState
	current     *domain.Track
	token       uint64
	loadPending bool
	failed      bool
	loadCancel  context.CancelFunc
	skipTimer   *time.Timer
	closed      bool

	// Concurrency control
	loads sync.WaitGroup
}

// appliedState is what the bridge last pushed to the output.
type appliedState struct {
	version     uint64
	trackID     string
	playing     bool
	volume       float64
	seekVersion  uint64
	startVersion uint64
}

// NewAudioBridge creates a bridge and attaches it to the store and the output.
// The output is owned by the bridge from here on and released by Close.
func NewAudioBridge(
	logger *slog.Logger,
	store *PlayerStore,
	output ports.AudioOutput,
	resolver ports.StreamResolver,
	bus ports.EventBus,
	config BridgeConfig,
) *AudioBridge {
	ctx, cancel := context.WithCancel(context.Background())
	b := &AudioBridge{
		logger:   logger,
		store:    store,
		output:   output,
		resolver: resolver,
		bus:      bus,
		config:   config,
		ctx:      ctx,
		cancel:   cancel,
		applied:  appliedState{volume: -1},
	}

	b.removeListener = output.AddListener(b.onOutputEvent)
	b.subscription = store.Subscribe(b.onStateChanged)

	// Catch up with whatever the store already holds
	b.mu.Lock()
	b.applied.version = store.Version()
	b.mu.Unlock()
	b.sync(store.State())

	logger.Debug("audio bridge attached")

	return b
}

// Seek moves playback to position (fraction of the duration).
// The output is moved right away so sliders feel responsive; the store records the request.
func (b *AudioBridge) Seek(position float64) {
	position = clampUnit(position)
	if d := b.output.Duration(); isKnownDuration(d) {
		if err := b.output.SetCurrentTime(position * d); err != nil {
			b.logger.Debug("immediate seek failed", slog.Any("error", err))
		}
	}
	b.store.Seek(position)
}

// SetVolume applies volume to the output right away and records it in the store.
func (b *AudioBridge) SetVolume(volume float64) {
	volume = clampUnit(volume)
	b.output.SetVolume(volume)
	b.store.SetVolume(volume)
}

// HandleKey applies the player keyboard shortcuts and reports whether the key was used.
// Keys typed into a text input are never handled.
func (b *AudioBridge) HandleKey(key domain.Key, inTextInput bool) bool {
	if inTextInput {
		return false
	}

	state := b.store.State()

	switch key {
	case domain.KeySpace:
		if state.IsPlaying {
			b.store.Pause()
		} else {
			b.store.Resume()
		}
		return true

	case domain.KeyLeft, domain.KeyRight:
		if state.Duration <= 0 {
			return true
		}
		step := b.config.SeekStep
		if key == domain.KeyLeft {
			step = -step
		}
		target := math.Max(0, math.Min(state.Duration, state.Elapsed()+step))
		b.Seek(target / state.Duration)
		return true

	case domain.KeyUp:
		b.SetVolume(state.Volume + b.config.VolumeStep)
		return true

	case domain.KeyDown:
		b.SetVolume(state.Volume - b.config.VolumeStep)
		return true

	default:
		return false
	}
}

// Close detaches the bridge, cancels pending loads and timers, and releases the output.
func (b *AudioBridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.stopSkipTimerLocked()
	if b.loadCancel != nil {
		b.loadCancel()
		b.loadCancel = nil
	}
	b.mu.Unlock()

	b.store.Unsubscribe(b.subscription)
	b.removeListener()
	b.cancel()
	b.loads.Wait()

	b.output.Clear()
	if err := b.output.Close(); err != nil && !errors.Is(err, domain.ErrOutputClosed) {
		return domain.NewServiceError("AudioBridge", "Close", "failed to release audio output", err)
	}

	b.logger.Debug("audio bridge closed")
	return nil
}

// Store side

func (b *AudioBridge) onStateChanged(e domain.StateChangedEvent) {
	b.mu.Lock()
	if b.closed || e.Version <= b.applied.version {
		b.mu.Unlock()
		return
	}
	b.applied.version = e.Version
	b.mu.Unlock()

	b.sync(e.Next)
}

// plan is the set of output operations one transition requires.
type plan struct {
	clear        bool
	load         *domain.Track
	loadCtx      context.Context
	token        uint64
	rewind       bool
	play         bool
	pause        bool
	volume       float64
	setVolume    bool
	seek         bool
	seekProgress float64
	seekFallback float64
}

// sync diffs next against the applied state and performs the difference on the output.
func (b *AudioBridge) sync(next domain.PlaybackState) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}

	var p plan
	nextID := ""
	if next.CurrentTrack != nil {
		nextID = next.CurrentTrack.ID
	}

	restarted := next.StartVersion != b.applied.startVersion && next.CurrentTrack != nil
	b.applied.startVersion = next.StartVersion

	switch {
	case nextID != b.applied.trackID:
		b.applied.trackID = nextID
		b.applied.playing = next.IsPlaying
		b.beginLocked(next.CurrentTrack, &p)

	case restarted && b.failed:
		// A failed source cannot play, so the same track is loaded again
		b.applied.playing = next.IsPlaying
		b.beginLocked(next.CurrentTrack, &p)

	case restarted && !b.loadPending:
		track := *next.CurrentTrack
		b.current = &track
		b.applied.playing = next.IsPlaying
		b.stopSkipTimerLocked()
		p.rewind = true
		p.token = b.token
		p.play = next.IsPlaying
		p.pause = !next.IsPlaying

	case next.IsPlaying != b.applied.playing:
		b.applied.playing = next.IsPlaying
		switch {
		case !next.IsPlaying:
			p.pause = true
		case !b.loadPending:
			p.play = true
			p.token = b.token
		}
	}

	if next.Volume != b.applied.volume {
		b.applied.volume = next.Volume
		p.volume = next.Volume
		p.setVolume = true
	}

	if next.SeekVersion != b.applied.seekVersion {
		b.applied.seekVersion = next.SeekVersion
		if next.SeekVersion != 0 {
			p.seek = true
			p.seekProgress = next.Progress
			p.seekFallback = next.Duration
		}
	}
	b.mu.Unlock()

	if p.clear {
		b.output.Clear()
	}
	if p.setVolume {
		b.output.SetVolume(p.volume)
	}
	if p.load != nil {
		go b.load(p.loadCtx, *p.load, p.token)
	}
	if p.rewind {
		if err := b.output.SetCurrentTime(0); err != nil {
			b.logger.Debug("rewind failed", slog.Any("error", err))
		}
	}
	if p.pause {
		if err := b.output.Pause(); err != nil {
			b.logger.Debug("pause failed", slog.Any("error", err))
		}
	}
	if p.play {
		b.startPlayback(p.token)
	}
	if p.rewind {
		b.reportReady(p.token)
	}
	if p.seek {
		d := b.output.Duration()
		if !isKnownDuration(d) {
			d = p.seekFallback
		}
		if d > 0 {
			if err := b.output.SetCurrentTime(p.seekProgress * d); err != nil {
				b.logger.Debug("seek failed", slog.Any("error", err))
			}
		}
	}
}

// beginLocked retires the current token and starts loading track, or clears the
// output when track is nil.
func (b *AudioBridge) beginLocked(track *domain.Track, p *plan) {
	b.token++
	p.token = b.token
	b.failed = false
	b.stopSkipTimerLocked()
	if b.loadCancel != nil {
		b.loadCancel()
		b.loadCancel = nil
	}

	if track == nil {
		b.current = nil
		b.loadPending = false
		p.clear = true
		return
	}

	t := *track
	b.current = &t
	b.loadPending = true
	ctx, cancel := context.WithCancel(b.ctx)
	b.loadCancel = cancel
	p.load = &t
	p.loadCtx = ctx
	b.loads.Add(1)
}

// reportReady tells the store a rewound track is ready. The output already
// holds its source, so no load signals will follow.
func (b *AudioBridge) reportReady(token uint64) {
	if !b.isCurrent(token) {
		return
	}
	if d := b.output.Duration(); isKnownDuration(d) {
		b.store.SetDuration(d)
	}
	b.store.SetIsLoading(false)
}

// load resolves and loads a track, then starts it if playback is still wanted.
func (b *AudioBridge) load(ctx context.Context, track domain.Track, token uint64) {
	defer b.loads.Done()

	url, err := b.resolver.ResolveStreamURL(ctx, track.StreamKey())
	if !b.isCurrent(token) {
		return
	}
	if err != nil {
		b.loadFinished(token)
		b.handleLoadError(token, track, domain.NewServiceError("AudioBridge", "load", "stream resolution failed", err))
		return
	}

	b.logger.Info("loading track",
		slog.String("track_id", track.ID),
		slog.String("stream_id", track.StreamKey()))
	b.bus.Publish(domain.NewTrackLoadingEvent(track, url))

	if err := b.output.Load(url, token); err != nil {
		b.loadFinished(token)
		b.handleLoadError(token, track, err)
		return
	}

	b.mu.Lock()
	current := !b.closed && token == b.token
	if current {
		b.loadPending = false
	}
	wanted := current && b.applied.playing && !b.failed
	b.mu.Unlock()

	if wanted {
		b.startPlayback(token)
	}
}

func (b *AudioBridge) loadFinished(token uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if token == b.token {
		b.loadPending = false
	}
}

// startPlayback asks the output to play. A refusal is reconciled by pausing the store.
func (b *AudioBridge) startPlayback(token uint64) {
	err := b.output.Play(b.ctx)
	if err == nil {
		// The store may have paused while the request was in flight
		b.mu.Lock()
		stillWanted := token == b.token && b.applied.playing && !b.closed
		b.mu.Unlock()
		if !stillWanted {
			if err := b.output.Pause(); err != nil {
				b.logger.Debug("pause after play failed", slog.Any("error", err))
			}
		}
		return
	}

	if errors.Is(err, context.Canceled) || !b.isCurrent(token) {
		return
	}

	track := b.currentTrack()
	b.logger.Info("playback rejected",
		slog.String("track_id", track.ID),
		slog.Any("error", err))
	b.bus.Publish(domain.NewPlaybackRejectedEvent(track, err))
	b.store.Pause()
}

// Output side

func (b *AudioBridge) onOutputEvent(ev ports.OutputEvent) {
	b.mu.Lock()
	if b.closed || ev.Token != b.token || b.current == nil {
		b.mu.Unlock()
		return
	}
	track := *b.current
	b.mu.Unlock()

	switch ev.Kind {
	case ports.OutputLoadStart:
		b.store.SetIsLoading(true)

	case ports.OutputLoadedMetadata:
		if isKnownDuration(ev.Duration) {
			b.store.SetDuration(ev.Duration)
		}

	case ports.OutputCanPlay:
		b.store.SetIsLoading(false)

	case ports.OutputTimeUpdate:
		if isKnownDuration(ev.Duration) {
			b.store.SetProgress(ev.CurrentTime / ev.Duration)
		}

	case ports.OutputEnded:
		b.logger.Debug("track ended", slog.String("track_id", track.ID))
		b.bus.Publish(domain.NewTrackEndedEvent(track))
		b.store.Next()

	case ports.OutputError:
		b.handleLoadError(ev.Token, track, ev.Err)
	}
}

// handleLoadError surfaces the failure in the store and schedules one skip forward.
func (b *AudioBridge) handleLoadError(token uint64, track domain.Track, err error) {
	b.logger.Warn("track failed to load",
		slog.String("track_id", track.ID),
		slog.Any("error", err))

	b.store.SetError(LoadErrorMessage)
	b.store.SetIsLoading(false)
	b.bus.Publish(domain.NewTrackErrorEvent(track, LoadErrorMessage, err))

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || token != b.token {
		return
	}
	b.failed = true
	b.stopSkipTimerLocked()
	b.skipTimer = time.AfterFunc(b.config.ErrorSkipDelay, func() {
		b.autoSkip(token, track)
	})
}

func (b *AudioBridge) autoSkip(token uint64, track domain.Track) {
	b.mu.Lock()
	if b.closed || token != b.token {
		b.mu.Unlock()
		return
	}
	b.skipTimer = nil
	b.mu.Unlock()

	if b.store.State().Error == "" {
		return
	}

	b.logger.Info("skipping failed track", slog.String("track_id", track.ID))
	b.bus.Publish(domain.NewAutoSkipEvent(track))
	b.store.Next()
}

func (b *AudioBridge) stopSkipTimerLocked() {
	if b.skipTimer != nil {
		b.skipTimer.Stop()
		b.skipTimer = nil
	}
}

func (b *AudioBridge) isCurrent(token uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && token == b.token
}

func (b *AudioBridge) currentTrack() domain.Track {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return domain.Track{}
	}
	return *b.current
}

// waitLoads blocks until in-flight loads finish. Tests use it to settle the bridge.
func (b *AudioBridge) waitLoads() {
	b.loads.Wait()
}

func isKnownDuration(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d > 0
}
