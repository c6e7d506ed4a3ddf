// Package fyne provides Fyne UI adapter implementations.
// This package implements the UI layer using the Fyne toolkit.
package fyne

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tejashwikalptaru/dreamtune/internal/analyzer"
	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
	"github.com/tejashwikalptaru/dreamtune/internal/service"
)

// rejectedMessage asks for a fresh gesture after the platform refused to start audio.
const rejectedMessage = "Press play to start"

// Presenter implements the Presenter pattern (MVP architecture).
// It binds the player store to a PlayerView and turns view gestures into
// store and bridge calls.
//
// Responsibilities:
// - Follow store transitions and update only what changed
// - Gate play requests on the listener's access tier
// - Connect the analyzer on playback gestures
// - Publish visualizer theme changes
//
// Thread-safety: All operations are thread-safe via sync.Mutex.
type Presenter struct {
	// Dependencies
	logger *slog.Logger

	// Services (injected)
	store    *service.PlayerStore
	bridge   *service.AudioBridge
	access   *service.AccessService
	analyzer *analyzer.Analyzer
	themes   ports.ThemeLookup
	bus      ports.EventBus

	// UI view
	view ports.PlayerView

	// Presentation state
	mu       sync.Mutex
	session  domain.UserSession
	albumID  string
	storeSub domain.SubscriptionID
	subs     []domain.SubscriptionID

	shutdownOnce sync.Once
}

// NewPresenter creates a presenter and syncs the view with the current state.
func NewPresenter(
	logger *slog.Logger,
	store *service.PlayerStore,
	bridge *service.AudioBridge,
	access *service.AccessService,
	analyzer *analyzer.Analyzer,
	themes ports.ThemeLookup,
	bus ports.EventBus,
	view ports.PlayerView,
	session domain.UserSession,
) *Presenter {
	p := &Presenter{
		logger:   logger.With("component", "presenter"),
		store:    store,
		bridge:   bridge,
		access:   access,
		analyzer: analyzer,
		themes:   themes,
		bus:      bus,
		view:     view,
		session:  session,
	}

	p.storeSub = store.Subscribe(p.onStateChanged)
	p.subs = []domain.SubscriptionID{
		bus.Subscribe(domain.EventPlaybackRejected, p.onPlaybackRejected),
		bus.Subscribe(domain.EventThemeChanged, p.onThemeChanged),
	}

	p.syncInitialState()
	return p
}

// syncInitialState pushes the whole current state to the view.
func (p *Presenter) syncInitialState() {
	state := p.store.State()
	p.view.SetTrackInfo(state.CurrentTrack)
	p.view.SetPlayState(state.IsPlaying)
	p.view.SetLoading(state.IsLoading)
	p.view.SetProgress(state.Progress, state.Elapsed(), state.Duration)
	p.view.SetVolume(state.Volume)
	p.view.SetQueue(state.Queue)
	p.view.ShowError(state.Error)
	p.view.SetTransportVisible(!state.VisualizerActive)
}

// Session returns the listener the presenter gates for.
func (p *Presenter) Session() domain.UserSession {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// SetSession replaces the listener, e.g. after signing in.
func (p *Presenter) SetSession(session domain.UserSession) {
	p.mu.Lock()
	p.session = session
	p.mu.Unlock()
}

// Event handlers

func (p *Presenter) onStateChanged(e domain.StateChangedEvent) {
	prev, next := e.Prev, e.Next

	if !sameTrack(prev.CurrentTrack, next.CurrentTrack) {
		p.view.SetTrackInfo(next.CurrentTrack)
	}
	if prev.IsPlaying != next.IsPlaying {
		p.view.SetPlayState(next.IsPlaying)
	}
	if prev.IsLoading != next.IsLoading {
		p.view.SetLoading(next.IsLoading)
	}
	if prev.Progress != next.Progress || prev.Duration != next.Duration {
		p.view.SetProgress(next.Progress, next.Elapsed(), next.Duration)
	}
	if prev.Volume != next.Volume {
		p.view.SetVolume(next.Volume)
	}
	if !slices.EqualFunc(prev.Queue, next.Queue, func(a, b domain.Track) bool { return a.ID == b.ID }) {
		p.view.SetQueue(next.Queue)
	}
	if prev.Error != next.Error {
		p.view.ShowError(next.Error)
	}
	if prev.VisualizerActive != next.VisualizerActive {
		p.view.SetTransportVisible(!next.VisualizerActive)
	}
}

func (p *Presenter) onPlaybackRejected(domain.Event) {
	p.view.ShowError(rejectedMessage)
}

func (p *Presenter) onThemeChanged(event domain.Event) {
	e, ok := event.(domain.ThemeChangedEvent)
	if !ok {
		return
	}
	p.mu.Lock()
	p.albumID = e.AlbumID
	p.mu.Unlock()
	p.view.SetTheme(e.AlbumID, e.Theme)
}

func sameTrack(a, b *domain.Track) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// UI Command handlers (called by UI)

// OnTrackSelected plays a track if the listener may hear it.
func (p *Presenter) OnTrackSelected(ctx context.Context, track domain.Track) error {
	if err := p.gate(ctx, track); err != nil {
		return err
	}
	p.gesture()
	p.store.Play(track)
	return nil
}

// OnAlbumSelected plays every track of the album the listener may hear, in order.
// Locked tracks are skipped; an album with nothing playable reports the first lock.
func (p *Presenter) OnAlbumSelected(ctx context.Context, album domain.Playlist) error {
	playable, firstLocked, firstTier := p.playable(ctx, album.Tracks)
	if len(playable) == 0 {
		if firstLocked != nil {
			return p.locked(*firstLocked, firstTier)
		}
		return fmt.Errorf("album %s: %w", album.ID, domain.ErrTrackNotFound)
	}

	p.gesture()
	p.store.PlayAll(playable)
	return nil
}

// OnAlbumTrackSelected plays the album from the track at index and queues the
// playable tracks after it. A locked selection is reported and nothing plays.
func (p *Presenter) OnAlbumTrackSelected(ctx context.Context, album domain.Playlist, index int) error {
	if index < 0 || index >= len(album.Tracks) {
		return fmt.Errorf("album %s track %d: %w", album.ID, index, domain.ErrTrackNotFound)
	}
	selected := album.Tracks[index]
	if err := p.gate(ctx, selected); err != nil {
		return err
	}
	rest, _, _ := p.playable(ctx, album.Tracks[index+1:])

	p.gesture()
	p.store.PlayAll(append([]domain.Track{selected}, rest...))
	return nil
}

// playable keeps the tracks the listener may hear and reports the first locked one.
func (p *Presenter) playable(ctx context.Context, tracks []domain.Track) ([]domain.Track, *domain.Track, domain.AccessTier) {
	session := p.Session()
	playable := make([]domain.Track, 0, len(tracks))
	var firstLocked *domain.Track
	var firstTier domain.AccessTier
	for i, t := range tracks {
		ok, tier := p.access.CanPlay(ctx, session, t.ID)
		if !ok {
			if firstLocked == nil {
				firstLocked, firstTier = &tracks[i], tier
			}
			continue
		}
		playable = append(playable, t)
	}
	return playable, firstLocked, firstTier
}

// OnQueueTrack appends a track to the queue if the listener may hear it.
func (p *Presenter) OnQueueTrack(ctx context.Context, track domain.Track) error {
	if err := p.gate(ctx, track); err != nil {
		return err
	}
	p.store.AddToQueue(track)
	return nil
}

// OnRemoveFromQueue drops the queued track at index.
func (p *Presenter) OnRemoveFromQueue(index int) {
	p.store.RemoveFromQueue(index)
}

// OnClearQueue empties the queue.
func (p *Presenter) OnClearQueue() {
	p.store.ClearQueue()
}

// OnPlayPauseClicked handles the play button click.
func (p *Presenter) OnPlayPauseClicked() {
	p.gesture()
	p.store.TogglePlay()
}

// OnNextClicked handles the next button click.
func (p *Presenter) OnNextClicked() {
	p.gesture()
	p.store.Next()
}

// OnPreviousClicked handles the previous button click.
func (p *Presenter) OnPreviousClicked() {
	p.gesture()
	p.store.Previous()
}

// OnSeekRequested handles the progress slider. position is a fraction of the track.
func (p *Presenter) OnSeekRequested(position float64) {
	p.bridge.Seek(position)
}

// OnVolumeChanged handles the volume slider (0.0 to 1.0).
func (p *Presenter) OnVolumeChanged(volume float64) {
	p.bridge.SetVolume(volume)
}

// OnKey handles a keyboard shortcut and reports whether it was used.
func (p *Presenter) OnKey(key domain.Key, inTextInput bool) bool {
	if key == domain.KeySpace && !inTextInput {
		p.gesture()
	}
	return p.bridge.HandleKey(key, inTextInput)
}

// OnVisualizerSelected switches the visualizer to an album's theme.
func (p *Presenter) OnVisualizerSelected(albumID string) error {
	theme, err := p.themes.ThemeFor(albumID)
	if err != nil {
		p.logger.Warn("no theme for album", slog.String("album_id", albumID), slog.Any("error", err))
		return err
	}
	p.bus.Publish(domain.NewThemeChangedEvent(albumID, theme))
	return nil
}

// VisualizerAlbum returns the album whose theme is showing.
func (p *Presenter) VisualizerAlbum() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.albumID
}

// OnVisualizerToggled records whether the immersive visualizer is up.
func (p *Presenter) OnVisualizerToggled(active bool) {
	p.store.SetVisualizerActive(active)
}

// gate checks access and tells the listener why a track is locked.
func (p *Presenter) gate(ctx context.Context, track domain.Track) error {
	ok, tier := p.access.CanPlay(ctx, p.Session(), track.ID)
	if ok {
		return nil
	}
	return p.locked(track, tier)
}

func (p *Presenter) locked(track domain.Track, tier domain.AccessTier) error {
	msg := domain.LockMessage(tier)
	p.logger.Debug("track locked", slog.String("track_id", track.ID), slog.String("required_tier", string(tier)))
	p.view.ShowLocked(track, msg)
	return fmt.Errorf("%w: %s", domain.ErrAccessDenied, msg)
}

// gesture gives the analyzer its chance to connect from a user action.
func (p *Presenter) gesture() {
	if p.analyzer != nil {
		p.analyzer.ResumeAudioContext()
	}
}

// Shutdown detaches the presenter from the store and the bus.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.store.Unsubscribe(p.storeSub)
		for _, id := range p.subs {
			p.bus.Unsubscribe(id)
		}
	})
}
