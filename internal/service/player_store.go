// Package service provides business logic for the Dreamtune player.
package service

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

const (
	// DefaultVolume is the volume of a fresh store
	DefaultVolume = 0.8

	// restartThreshold is how far into a track Previous restarts instead of doing nothing
	restartThreshold = 3.0
)

// PlayerStore is the authoritative state machine for what should be playing.
//
// Every action is a synchronous transition. Actions never fail and never block on I/O.
// After a transition the store publishes a StateChangedEvent carrying both snapshots.
// Notifications are delivered one at a time in transition order: an action invoked
// from inside a handler (or from another goroutine while a delivery is running)
// is applied immediately and its notification is queued behind the current one.
type PlayerStore struct {
	logger *slog.Logger
	bus    ports.EventBus

	mu      sync.Mutex
	state   domain.PlaybackState
	version uint64

	pending     []domain.Event
	dispatching bool
}

// NewPlayerStore creates an idle store: no track, nothing queued, volume 0.8.
func NewPlayerStore(logger *slog.Logger, bus ports.EventBus) *PlayerStore {
	s := &PlayerStore{
		logger: logger,
		bus:    bus,
		state: domain.PlaybackState{
			Volume: DefaultVolume,
		},
	}

	logger.Debug("player store initialized")

	return s
}

// State returns a snapshot of the current state.
func (s *PlayerStore) State() domain.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Version returns the number of transitions applied so far.
func (s *PlayerStore) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe registers a handler for state transitions.
func (s *PlayerStore) Subscribe(handler func(domain.StateChangedEvent)) domain.SubscriptionID {
	return s.bus.Subscribe(domain.EventStateChanged, func(event domain.Event) {
		if e, ok := event.(domain.StateChangedEvent); ok {
			handler(e)
		}
	})
}

// Unsubscribe removes a handler registered with Subscribe.
func (s *PlayerStore) Unsubscribe(id domain.SubscriptionID) {
	s.bus.Unsubscribe(id)
}

// Play makes track current and requests playback from its start.
// The queue is left untouched.
func (s *PlayerStore) Play(track domain.Track) {
	s.update("play", func(st *domain.PlaybackState) bool {
		startTrack(st, track)
		return true
	})
}

// PlayAll plays the first track and queues the rest behind whatever is already queued.
// An empty list does nothing.
func (s *PlayerStore) PlayAll(tracks []domain.Track) {
	if len(tracks) == 0 {
		return
	}
	s.update("playAll", func(st *domain.PlaybackState) bool {
		startTrack(st, tracks[0])
		st.Queue = append(st.Queue, tracks[1:]...)
		return true
	})
}

// Pause stops playback without unloading the track.
func (s *PlayerStore) Pause() {
	s.update("pause", func(st *domain.PlaybackState) bool {
		if st.CurrentTrack == nil || !st.IsPlaying {
			return false
		}
		st.IsPlaying = false
		return true
	})
}

// Resume restarts playback of the current track.
func (s *PlayerStore) Resume() {
	s.update("resume", func(st *domain.PlaybackState) bool {
		if st.CurrentTrack == nil || st.IsPlaying {
			return false
		}
		st.IsPlaying = true
		return true
	})
}

// TogglePlay pauses when playing and resumes otherwise.
func (s *PlayerStore) TogglePlay() {
	s.update("toggle", func(st *domain.PlaybackState) bool {
		if st.CurrentTrack == nil {
			return false
		}
		st.IsPlaying = !st.IsPlaying
		return true
	})
}

// Next plays the head of the queue. With an empty queue the current track stays
// loaded and playback stops.
func (s *PlayerStore) Next() {
	s.update("next", func(st *domain.PlaybackState) bool {
		if len(st.Queue) == 0 {
			if !st.IsPlaying {
				return false
			}
			st.IsPlaying = false
			return true
		}
		head := st.Queue[0]
		st.Queue = st.Queue[1:]
		startTrack(st, head)
		return true
	})
}

// Previous restarts the current track once more than three seconds have elapsed.
// There is no history: before that point it does nothing.
func (s *PlayerStore) Previous() {
	var seekVersion uint64
	var restarted bool
	s.update("previous", func(st *domain.PlaybackState) bool {
		if st.CurrentTrack == nil || st.Elapsed() <= restartThreshold {
			return false
		}
		st.Progress = 0
		st.SeekVersion++
		seekVersion = st.SeekVersion
		restarted = true
		return true
	}, func() domain.Event {
		if !restarted {
			return nil
		}
		return domain.NewSeekRequestedEvent(0, seekVersion)
	})
}

// Seek requests a new position as a fraction of the duration.
// Every call bumps the seek version, even when the position is unchanged.
func (s *PlayerStore) Seek(position float64) {
	position = clampUnit(position)
	var seekVersion uint64
	s.update("seek", func(st *domain.PlaybackState) bool {
		st.Progress = position
		st.SeekVersion++
		seekVersion = st.SeekVersion
		return true
	}, func() domain.Event {
		return domain.NewSeekRequestedEvent(position, seekVersion)
	})
}

// SetVolume sets the volume, clamped to [0, 1].
func (s *PlayerStore) SetVolume(volume float64) {
	volume = clampUnit(volume)
	s.update("setVolume", func(st *domain.PlaybackState) bool {
		if st.Volume == volume {
			return false
		}
		st.Volume = volume
		return true
	})
}

// AddToQueue appends one track.
func (s *PlayerStore) AddToQueue(track domain.Track) {
	s.update("addToQueue", func(st *domain.PlaybackState) bool {
		st.Queue = append(st.Queue, track)
		return true
	})
}

// AddToQueueBulk appends tracks, preserving their order.
func (s *PlayerStore) AddToQueueBulk(tracks []domain.Track) {
	if len(tracks) == 0 {
		return
	}
	s.update("addToQueueBulk", func(st *domain.PlaybackState) bool {
		st.Queue = append(st.Queue, tracks...)
		return true
	})
}

// ClearQueue drops every pending track. The current track keeps playing.
func (s *PlayerStore) ClearQueue() {
	s.update("clearQueue", func(st *domain.PlaybackState) bool {
		if len(st.Queue) == 0 {
			return false
		}
		st.Queue = nil
		return true
	})
}

// RemoveFromQueue removes the entry at index. Out of range indexes are ignored.
func (s *PlayerStore) RemoveFromQueue(index int) {
	s.update("removeFromQueue", func(st *domain.PlaybackState) bool {
		if index < 0 || index >= len(st.Queue) {
			return false
		}
		queue := make([]domain.Track, 0, len(st.Queue)-1)
		queue = append(queue, st.Queue[:index]...)
		queue = append(queue, st.Queue[index+1:]...)
		st.Queue = queue
		return true
	})
}

// SetProgress records the position reported by the output.
// Unlike Seek it leaves the seek version alone.
func (s *PlayerStore) SetProgress(progress float64) {
	if math.IsNaN(progress) {
		return
	}
	progress = clampUnit(progress)
	var duration float64
	s.update("setProgress", func(st *domain.PlaybackState) bool {
		if st.Progress == progress {
			return false
		}
		st.Progress = progress
		duration = st.Duration
		return true
	}, func() domain.Event {
		return domain.NewProgressReportEvent(progress, duration)
	})
}

// SetDuration records the track length in seconds. Unknown or negative values become 0.
func (s *PlayerStore) SetDuration(duration float64) {
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		duration = 0
	}
	s.update("setDuration", func(st *domain.PlaybackState) bool {
		if st.Duration == duration {
			return false
		}
		st.Duration = duration
		return true
	})
}

// SetIsLoading records whether the output is buffering.
func (s *PlayerStore) SetIsLoading(loading bool) {
	s.update("setIsLoading", func(st *domain.PlaybackState) bool {
		if st.IsLoading == loading {
			return false
		}
		st.IsLoading = loading
		return true
	})
}

// SetError records a playback error. An empty message clears it.
func (s *PlayerStore) SetError(message string) {
	s.update("setError", func(st *domain.PlaybackState) bool {
		if st.Error == message {
			return false
		}
		st.Error = message
		return true
	})
}

// SetVisualizerActive records whether the immersive visualizer is showing.
func (s *PlayerStore) SetVisualizerActive(active bool) {
	s.update("setVisualizerActive", func(st *domain.PlaybackState) bool {
		if st.VisualizerActive == active {
			return false
		}
		st.VisualizerActive = active
		return true
	})
}

func startTrack(st *domain.PlaybackState, track domain.Track) {
	t := track
	st.CurrentTrack = &t
	st.IsPlaying = true
	st.Progress = 0
	st.Duration = 0
	st.IsLoading = true
	st.Error = ""
	st.StartVersion++
}

// update applies mutate under the lock. When it reports a change the version is
// bumped and the resulting events are queued for delivery.
func (s *PlayerStore) update(action string, mutate func(*domain.PlaybackState) bool, extra ...func() domain.Event) {
	s.mu.Lock()
	prev := s.state.Clone()
	if !mutate(&s.state) {
		s.mu.Unlock()
		return
	}
	s.version++
	next := s.state.Clone()

	s.pending = append(s.pending, domain.NewStateChangedEvent(action, prev, next, s.version))
	for _, build := range extra {
		if e := build(); e != nil {
			s.pending = append(s.pending, e)
		}
	}

	if action != "setProgress" && s.logger.Enabled(context.Background(), slog.LevelDebug) {
		s.logger.Debug("state transition",
			slog.String("action", action),
			slog.Uint64("version", s.version),
			slog.String("status", next.Status().String()))
	}

	s.flushLocked()
}

// flushLocked delivers queued events in order. It is entered with mu held and
// returns with mu released. Only one goroutine delivers at a time.
func (s *PlayerStore) flushLocked() {
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true

	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()

		for _, e := range batch {
			s.bus.Publish(e)
		}

		s.mu.Lock()
	}

	s.dispatching = false
	s.mu.Unlock()
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
