// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the Dreamtune player.
package domain

import (
	"math"
	"time"
)

// Track represents a single playable catalog entry.
// Tracks are immutable once constructed; the collaborator that fetched them owns them.
type Track struct {
	// ID is the display identifier shown to the user and used for identity comparisons
	ID string

	// StreamID resolves the playable audio URL. It may differ from ID when a
	// catalog shows one record but streams another.
	StreamID string

	// Title is the song title
	Title string

	// Duration is the catalog duration in whole seconds (>= 0)
	Duration int

	// Artwork is an optional artwork reference (URL or path)
	Artwork *string

	// Genre is the optional music genre
	Genre *string

	// Mood is the optional mood tag
	Mood *string

	// PlayCount is the number of plays reported by the catalog (>= 0)
	PlayCount int

	// ReleaseDate is the optional release date (YYYY-MM-DD)
	ReleaseDate *string

	// Description is the optional long-form description
	Description *string
}

// StreamKey returns the identifier used to resolve a stream URL.
// Tracks without an explicit stream identifier stream under their display ID.
func (t Track) StreamKey() string {
	if t.StreamID != "" {
		return t.StreamID
	}
	return t.ID
}

// Playlist represents an album or playlist returned by a catalog.
type Playlist struct {
	ID          string
	Name        string
	Description *string
	Artwork     *string
	TrackCount  int
	Tracks      []Track
	IsAlbum     bool
}

// Artist is the catalog profile of a performer.
type Artist struct {
	ID            string
	Handle        string
	Name          string
	Bio           *string
	ProfileImage  *string
	CoverImage    *string
	FollowerCount int
	TrackCount    int
}

// PlaybackState is a snapshot of the player store.
// Snapshots are values: mutating one never affects the store.
type PlaybackState struct {
	// CurrentTrack is the loaded track (nil if none)
	CurrentTrack *Track

	// IsPlaying is true when playback should be running
	IsPlaying bool

	// Progress is the playback position as a fraction of Duration, in [0, 1]
	Progress float64

	// Duration is the track length in seconds, 0 until known
	Duration float64

	// Volume is the output level in [0, 1]
	Volume float64

	// Queue holds pending tracks in playback order; the head plays next
	Queue []Track

	// IsLoading is true while the output is fetching or buffering
	IsLoading bool

	// Error is the last playback error message, empty when absent
	Error string

	// SeekVersion increments on every explicit seek request
	SeekVersion uint64

	// StartVersion increments every time a track is started from the beginning,
	// including a restart of the track that is already current
	StartVersion uint64

	// VisualizerActive is true while the immersive visualizer covers the transport UI
	VisualizerActive bool
}

// Status derives the state machine node from the flags.
func (s PlaybackState) Status() PlaybackStatus {
	switch {
	case s.CurrentTrack == nil:
		return StatusEmpty
	case s.Error != "":
		return StatusError
	case s.IsLoading && s.IsPlaying:
		return StatusLoading
	case s.IsPlaying:
		return StatusPlaying
	default:
		return StatusPaused
	}
}

// Elapsed returns the elapsed playback time in seconds, or 0 when the duration is unknown.
func (s PlaybackState) Elapsed() float64 {
	if s.Duration <= 0 || math.IsNaN(s.Duration) || math.IsInf(s.Duration, 0) {
		return 0
	}
	return s.Progress * s.Duration
}

// HasTrack reports whether a track is loaded.
func (s PlaybackState) HasTrack() bool {
	return s.CurrentTrack != nil
}

// Clone returns a deep copy of the queue and current track pointer.
func (s PlaybackState) Clone() PlaybackState {
	out := s
	if s.CurrentTrack != nil {
		t := *s.CurrentTrack
		out.CurrentTrack = &t
	}
	if s.Queue != nil {
		out.Queue = make([]Track, len(s.Queue))
		copy(out.Queue, s.Queue)
	}
	return out
}

// PlaybackStatus represents the node of the playback state machine.
type PlaybackStatus int

const (
	// StatusEmpty indicates no track is loaded
	StatusEmpty PlaybackStatus = iota

	// StatusLoading indicates a track is loading with playback requested
	StatusLoading

	// StatusPlaying indicates playback is active
	StatusPlaying

	// StatusPaused indicates a track is loaded but not playing
	StatusPaused

	// StatusError indicates the current track failed to load or play
	StatusError
)

// String returns a human-readable representation of the playback status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Energy holds normalized band energies in [0, 1].
type Energy struct {
	Bass  float64
	Mids  float64
	Highs float64
}

// Preferences contain user preferences persisted on the local machine.
type Preferences struct {
	// Volume is the saved volume level (0.0 to 1.0)
	Volume float64

	// VisualizerAlbum is the album whose theme was last shown
	VisualizerAlbum string
}

// UserSession is the resolved identity handed to the core by the auth collaborator.
type UserSession struct {
	UserID          string
	Tiers           []string
	IsAuthenticated bool
}

// PlayEvent summarizes one listen of a track.
type PlayEvent struct {
	ID                 string
	SessionID          string
	UserID             string
	TrackID            string
	StartedAt          time.Time
	DurationSeconds    float64
	ListenedPercentage float64
	Completed          bool
	SeekCount          int
	Source             string
	DeviceType         string
}
