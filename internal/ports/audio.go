// Package ports define interfaces for dependency inversion.
// These interfaces allow the core business logic to remain independent of external frameworks.
package ports

import (
	"context"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// OutputEventKind identifies a native playback signal.
type OutputEventKind int

const (
	// OutputLoadStart fires when the output starts fetching a new source
	OutputLoadStart OutputEventKind = iota

	// OutputLoadedMetadata fires once the duration is known
	OutputLoadedMetadata

	// OutputCanPlay fires when enough data is buffered to start playback
	OutputCanPlay

	// OutputTimeUpdate fires periodically while the position advances
	OutputTimeUpdate

	// OutputEnded fires when playback reaches the natural end of the source
	OutputEnded

	// OutputError fires when the source could not be fetched or decoded
	OutputError
)

// String returns the signal name.
func (k OutputEventKind) String() string {
	switch k {
	case OutputLoadStart:
		return "loadstart"
	case OutputLoadedMetadata:
		return "loadedmetadata"
	case OutputCanPlay:
		return "canplay"
	case OutputTimeUpdate:
		return "timeupdate"
	case OutputEnded:
		return "ended"
	case OutputError:
		return "error"
	default:
		return "unknown"
	}
}

// OutputEvent is a native playback signal.
// Token echoes the value passed to Load, so listeners can ignore events from superseded sources.
type OutputEvent struct {
	Kind        OutputEventKind
	Token       uint64
	CurrentTime float64 // seconds
	Duration    float64 // seconds, NaN while unknown
	Err         error
}

// OutputListener receives native playback signals.
// Listeners are invoked from the output's own goroutines and must not block.
type OutputListener func(event OutputEvent)

// AudioOutput is the single shared audio output handle.
// It mirrors a media element: one source at a time, asynchronous signals, and a
// play request the platform may refuse.
//
// Implementations must be thread-safe as they may be called from multiple goroutines.
type AudioOutput interface {
	// Load replaces the current source with url. Loading is asynchronous: progress
	// is reported with LoadStart, LoadedMetadata, CanPlay or Error events carrying token.
	Load(url string, token uint64) error

	// Clear detaches the current source and stops any playback.
	Clear()

	// Play starts or resumes playback.
	// Returns domain.ErrPlaybackRejected when the platform refuses.
	Play(ctx context.Context) error

	// Pause stops playback and preserves the position.
	Pause() error

	// SetVolume sets the output level, clamped to [0, 1].
	SetVolume(volume float64)

	// SetCurrentTime moves the playback position in seconds.
	SetCurrentTime(seconds float64) error

	// CurrentTime returns the playback position in seconds.
	CurrentTime() float64

	// Duration returns the source length in seconds, NaN while unknown.
	Duration() float64

	// AddListener registers a listener and returns a function removing it.
	AddListener(listener OutputListener) (remove func())

	// Close releases the output. The output cannot be used afterwards.
	Close() error
}

// SampleTap exposes the samples flowing through an output for analysis.
type SampleTap interface {
	// Samples copies the most recent mono samples into dst, newest last,
	// and returns how many were written.
	Samples(dst []float64) int

	// SampleRate returns the rate of the tapped samples in Hz.
	SampleRate() int
}

// EnergySource provides frequency band energies to renderers.
// The visualizer only ever sees this, never the output itself.
type EnergySource interface {
	// FrequencyData returns the latest magnitude bins (0-255), or false when unavailable.
	FrequencyData() ([]uint8, bool)

	// Energy returns the latest bass/mids/highs summary, or false when unavailable.
	Energy() (domain.Energy, bool)
}
