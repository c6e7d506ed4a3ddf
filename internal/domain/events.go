// Package domain defines events for the event-driven architecture.
// Events carry state transitions from the store to the bridge, the UI and the trackers.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Store events
	EventStateChanged   EventType = "player.state_changed"
	EventSeekRequested  EventType = "player.seek_requested"
	EventProgressReport EventType = "player.progress"

	// Bridge events
	EventTrackLoading     EventType = "track.loading"
	EventPlaybackRejected EventType = "track.playback_rejected"
	EventTrackError       EventType = "track.error"
	EventAutoSkip         EventType = "track.auto_skip"
	EventTrackEnded       EventType = "track.ended"

	// Analyzer events
	EventAnalyzerConnected EventType = "analyzer.connected"
	EventAnalyzerFailed    EventType = "analyzer.failed"

	// Visualizer events
	EventThemeChanged EventType = "visualizer.theme_changed"

	// Tracking events
	EventPlayRecorded EventType = "play.recorded"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// StateChangedEvent is published after every store transition.
// Version increases by one per transition and orders the snapshots.
type StateChangedEvent struct {
	baseEvent
	Prev    PlaybackState
	Next    PlaybackState
	Version uint64
	Action  string
}

// Type returns the event type.
func (e StateChangedEvent) Type() EventType {
	return EventStateChanged
}

// NewStateChangedEvent creates a new StateChangedEvent.
func NewStateChangedEvent(action string, prev, next PlaybackState, version uint64) StateChangedEvent {
	return StateChangedEvent{
		baseEvent: newBaseEvent(),
		Prev:      prev,
		Next:      next,
		Version:   version,
		Action:    action,
	}
}

// SeekRequestedEvent is an explicit seek. It never originates from the output's own time updates.
type SeekRequestedEvent struct {
	baseEvent
	Position    float64
	SeekVersion uint64
}

// Type returns the event type.
func (e SeekRequestedEvent) Type() EventType {
	return EventSeekRequested
}

// NewSeekRequestedEvent creates a new SeekRequestedEvent.
func NewSeekRequestedEvent(position float64, seekVersion uint64) SeekRequestedEvent {
	return SeekRequestedEvent{
		baseEvent:   newBaseEvent(),
		Position:    position,
		SeekVersion: seekVersion,
	}
}

// ProgressReportEvent is a passive position report from the output.
type ProgressReportEvent struct {
	baseEvent
	Progress float64
	Duration float64
}

// Type returns the event type.
func (e ProgressReportEvent) Type() EventType {
	return EventProgressReport
}

// NewProgressReportEvent creates a new ProgressReportEvent.
func NewProgressReportEvent(progress, duration float64) ProgressReportEvent {
	return ProgressReportEvent{
		baseEvent: newBaseEvent(),
		Progress:  progress,
		Duration:  duration,
	}
}

// TrackLoadingEvent is published when the bridge hands a new source to the output.
type TrackLoadingEvent struct {
	baseEvent
	Track Track
	URL   string
}

// Type returns the event type.
func (e TrackLoadingEvent) Type() EventType {
	return EventTrackLoading
}

// NewTrackLoadingEvent creates a new TrackLoadingEvent.
func NewTrackLoadingEvent(track Track, url string) TrackLoadingEvent {
	return TrackLoadingEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		URL:       url,
	}
}

// PlaybackRejectedEvent is published when the platform refuses to start playback.
type PlaybackRejectedEvent struct {
	baseEvent
	Track Track
	Err   error
}

// Type returns the event type.
func (e PlaybackRejectedEvent) Type() EventType {
	return EventPlaybackRejected
}

// NewPlaybackRejectedEvent creates a new PlaybackRejectedEvent.
func NewPlaybackRejectedEvent(track Track, err error) PlaybackRejectedEvent {
	return PlaybackRejectedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Err:       err,
	}
}

// TrackErrorEvent is published when the current track fails to load or decode.
type TrackErrorEvent struct {
	baseEvent
	Track   Track
	Message string
	Err     error
}

// Type returns the event type.
func (e TrackErrorEvent) Type() EventType {
	return EventTrackError
}

// NewTrackErrorEvent creates a new TrackErrorEvent.
func NewTrackErrorEvent(track Track, message string, err error) TrackErrorEvent {
	return TrackErrorEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Message:   message,
		Err:       err,
	}
}

// AutoSkipEvent is published when a failing track is skipped after the grace delay.
type AutoSkipEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e AutoSkipEvent) Type() EventType {
	return EventAutoSkip
}

// NewAutoSkipEvent creates a new AutoSkipEvent.
func NewAutoSkipEvent(track Track) AutoSkipEvent {
	return AutoSkipEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackEndedEvent is published when the output reaches the natural end of a track.
type TrackEndedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackEndedEvent) Type() EventType {
	return EventTrackEnded
}

// NewTrackEndedEvent creates a new TrackEndedEvent.
func NewTrackEndedEvent(track Track) TrackEndedEvent {
	return TrackEndedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// AnalyzerConnectedEvent is published once the analyzer receives samples.
type AnalyzerConnectedEvent struct {
	baseEvent
	BinCount int
}

// Type returns the event type.
func (e AnalyzerConnectedEvent) Type() EventType {
	return EventAnalyzerConnected
}

// NewAnalyzerConnectedEvent creates a new AnalyzerConnectedEvent.
func NewAnalyzerConnectedEvent(binCount int) AnalyzerConnectedEvent {
	return AnalyzerConnectedEvent{
		baseEvent: newBaseEvent(),
		BinCount:  binCount,
	}
}

// AnalyzerFailedEvent is published when the analyzer could not connect.
type AnalyzerFailedEvent struct {
	baseEvent
	Err error
}

// Type returns the event type.
func (e AnalyzerFailedEvent) Type() EventType {
	return EventAnalyzerFailed
}

// NewAnalyzerFailedEvent creates a new AnalyzerFailedEvent.
func NewAnalyzerFailedEvent(err error) AnalyzerFailedEvent {
	return AnalyzerFailedEvent{
		baseEvent: newBaseEvent(),
		Err:       err,
	}
}

// ThemeChangedEvent is published when the visualizer switches themes.
type ThemeChangedEvent struct {
	baseEvent
	AlbumID string
	Theme   VisualizerTheme
}

// Type returns the event type.
func (e ThemeChangedEvent) Type() EventType {
	return EventThemeChanged
}

// NewThemeChangedEvent creates a new ThemeChangedEvent.
func NewThemeChangedEvent(albumID string, theme VisualizerTheme) ThemeChangedEvent {
	return ThemeChangedEvent{
		baseEvent: newBaseEvent(),
		AlbumID:   albumID,
		Theme:     theme,
	}
}

// PlayRecordedEvent is published when a listen has been summarized.
type PlayRecordedEvent struct {
	baseEvent
	Play PlayEvent
}

// Type returns the event type.
func (e PlayRecordedEvent) Type() EventType {
	return EventPlayRecorded
}

// NewPlayRecordedEvent creates a new PlayRecordedEvent.
func NewPlayRecordedEvent(play PlayEvent) PlayRecordedEvent {
	return PlayRecordedEvent{
		baseEvent: newBaseEvent(),
		Play:      play,
	}
}
