// Package memory keeps listener preferences in the toolkit's own preference store.
// It backs the desktop player when the preferences database cannot be opened.
package memory

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// DefaultVolume is returned when no volume has been saved.
const DefaultVolume = 0.8

const (
	volumeKey          = "preferences.volume"
	visualizerAlbumKey = "preferences.visualizer_album"
)

// PreferencesRepository implements ports.PreferencesRepository using Fyne preferences.
// This provides a thin wrapper around Fyne's preferences system.
//
// Thread-safe: All operations protected by sync.RWMutex.
type PreferencesRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewPreferencesRepository creates a new preferences' repository.
// The preferences parameter should be obtained from the running app's Preferences().
func NewPreferencesRepository(prefs fyne.Preferences) *PreferencesRepository {
	return &PreferencesRepository{
		prefs: prefs,
	}
}

// SaveVolume persists the volume level.
func (r *PreferencesRepository) SaveVolume(volume float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetFloat(volumeKey, volume)
	return nil
}

// LoadVolume retrieves the saved volume level.
func (r *PreferencesRepository) LoadVolume() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.FloatWithFallback(volumeKey, DefaultVolume), nil
}

// SaveVisualizerAlbum persists the album whose theme was last shown.
func (r *PreferencesRepository) SaveVisualizerAlbum(albumID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(visualizerAlbumKey, albumID)
	return nil
}

// LoadVisualizerAlbum retrieves the last visualizer album.
func (r *PreferencesRepository) LoadVisualizerAlbum() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.String(visualizerAlbumKey), nil
}

// Clear removes all saved preferences.
func (r *PreferencesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(volumeKey)
	r.prefs.RemoveValue(visualizerAlbumKey)
	return nil
}

// Close is a no-op; the app owns the preference store.
func (r *PreferencesRepository) Close() error {
	return nil
}

// Verify interface implementation
var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
