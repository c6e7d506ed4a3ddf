// Package ports define the UI interface for view abstraction.
// This interface allows the presenter to update the UI without depending on Fyne directly.
package ports

import (
	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// PlayerView is the interface for the player window.
// The presenter receives store transitions from the event bus and calls these methods
// to update the view. This keeps presentation logic testable without a real toolkit.
//
// Thread-safety: Implementations marshal calls onto their toolkit's UI thread.
type PlayerView interface {
	// SetTrackInfo updates the displayed track, nil clears it.
	SetTrackInfo(track *domain.Track)

	// SetPlayState updates the play/pause button state.
	SetPlayState(playing bool)

	// SetLoading toggles the buffering indicator.
	SetLoading(loading bool)

	// SetProgress updates the progress slider and time labels.
	// elapsed and duration are in seconds; duration is 0 while unknown.
	SetProgress(progress, elapsed, duration float64)

	// SetVolume updates the volume slider (0.0 to 1.0).
	SetVolume(volume float64)

	// SetQueue shows the pending tracks in playback order.
	SetQueue(queue []domain.Track)

	// ShowError shows a transient message near the track title; "" hides it.
	ShowError(message string)

	// SetTransportVisible hides the transport bar while the immersive visualizer is up.
	SetTransportVisible(visible bool)

	// SetTheme switches the embedded visualizer theme.
	SetTheme(albumID string, theme domain.VisualizerTheme)

	// ShowLocked tells the listener why a track cannot be played.
	ShowLocked(track domain.Track, message string)
}
