// Package service provides the playback core and its supporting services for the Dreamtune player.
package service

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// PreferenceService keeps local listener preferences in sync with storage.
//
// Bind restores the saved volume into the store and then follows the store,
// persisting the volume whenever it changes. Theme changes published on the bus
// record the album last shown by the visualizer.
//
// Thread-safety: All operations are thread-safe via sync.RWMutex.
type PreferenceService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	repository ports.PreferencesRepository
	bus        ports.EventBus

	// Cached preferences
	prefs domain.Preferences

	// Subscriptions
	store    *PlayerStore
	storeSub domain.SubscriptionID
	themeSub domain.SubscriptionID

	mu sync.RWMutex
}

// NewPreferenceService creates a new preference service and loads the saved
// preferences. Load failures fall back to defaults.
func NewPreferenceService(
	logger *slog.Logger,
	repository ports.PreferencesRepository,
	bus ports.EventBus,
) *PreferenceService {
	s := &PreferenceService{
		logger:     logger.With("service", "preferences"),
		repository: repository,
		bus:        bus,
		prefs:      domain.Preferences{Volume: DefaultVolume},
	}

	s.loadPreferences()

	if bus != nil {
		s.themeSub = bus.Subscribe(domain.EventThemeChanged, s.onThemeChanged)
	}

	s.logger.Debug("preference service initialized",
		slog.Float64("volume", s.prefs.Volume),
		slog.String("visualizer_album", s.prefs.VisualizerAlbum))
	return s
}

func (s *PreferenceService) loadPreferences() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if vol, err := s.repository.LoadVolume(); err == nil {
		s.prefs.Volume = clampUnit(vol)
	} else {
		s.logger.Warn("failed to load volume", slog.Any("error", err))
	}

	if album, err := s.repository.LoadVisualizerAlbum(); err == nil {
		s.prefs.VisualizerAlbum = album
	} else {
		s.logger.Warn("failed to load visualizer album", slog.Any("error", err))
	}
}

// Bind applies the saved volume to the store and starts persisting volume changes.
// Binding again replaces the previous store.
func (s *PreferenceService) Bind(store *PlayerStore) {
	s.unbind()

	s.mu.RLock()
	volume := s.prefs.Volume
	s.mu.RUnlock()

	store.SetVolume(volume)
	id := store.Subscribe(s.onStateChanged)

	s.mu.Lock()
	s.store = store
	s.storeSub = id
	s.mu.Unlock()
}

// Preferences returns a copy of the cached preferences.
func (s *PreferenceService) Preferences() domain.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Volume returns the saved volume preference (0.0 to 1.0).
func (s *PreferenceService) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Volume
}

// SetVolume saves the volume preference (0.0 to 1.0).
func (s *PreferenceService) SetVolume(volume float64) error {
	if volume < 0.0 || volume > 1.0 {
		return domain.ErrInvalidVolume
	}

	s.mu.Lock()
	if s.prefs.Volume == volume {
		s.mu.Unlock()
		return nil
	}
	s.prefs.Volume = volume
	s.mu.Unlock()

	if err := s.repository.SaveVolume(volume); err != nil {
		return domain.NewServiceError("preferences", "SetVolume", "failed to save volume", err)
	}
	return nil
}

// VisualizerAlbum returns the album whose theme was last shown, "" if none.
func (s *PreferenceService) VisualizerAlbum() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.VisualizerAlbum
}

// SetVisualizerAlbum saves the album whose theme is shown.
func (s *PreferenceService) SetVisualizerAlbum(albumID string) error {
	s.mu.Lock()
	if s.prefs.VisualizerAlbum == albumID {
		s.mu.Unlock()
		return nil
	}
	s.prefs.VisualizerAlbum = albumID
	s.mu.Unlock()

	if err := s.repository.SaveVisualizerAlbum(albumID); err != nil {
		return domain.NewServiceError("preferences", "SetVisualizerAlbum", "failed to save visualizer album", err)
	}
	return nil
}

// ResetToDefaults resets all preferences to default values.
func (s *PreferenceService) ResetToDefaults() error {
	if err := s.SetVolume(DefaultVolume); err != nil {
		return err
	}
	return s.SetVisualizerAlbum("")
}

// Shutdown stops following the store and the bus.
func (s *PreferenceService) Shutdown() error {
	s.unbind()

	s.mu.Lock()
	themeSub := s.themeSub
	s.themeSub = ""
	s.mu.Unlock()

	if s.bus != nil && themeSub != "" {
		s.bus.Unsubscribe(themeSub)
	}
	return nil
}

func (s *PreferenceService) unbind() {
	s.mu.Lock()
	store, id := s.store, s.storeSub
	s.store, s.storeSub = nil, ""
	s.mu.Unlock()

	if store != nil {
		store.Unsubscribe(id)
	}
}

func (s *PreferenceService) onStateChanged(e domain.StateChangedEvent) {
	if e.Prev.Volume == e.Next.Volume {
		return
	}
	if err := s.SetVolume(e.Next.Volume); err != nil {
		s.logger.Warn("failed to persist volume", slog.Any("error", err))
	}
}

func (s *PreferenceService) onThemeChanged(event domain.Event) {
	e, ok := event.(domain.ThemeChangedEvent)
	if !ok {
		return
	}
	if err := s.SetVisualizerAlbum(e.AlbumID); err != nil {
		s.logger.Warn("failed to persist visualizer album", slog.Any("error", err))
	}
}
