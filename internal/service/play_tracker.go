package service

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// maxNaturalStep is the largest progress jump, in seconds, counted as listening.
// Anything larger is a seek or a gap.
const maxNaturalStep = 5.0

// TrackerConfig describes where listens come from.
type TrackerConfig struct {
	UserID     string
	Source     string
	DeviceType string
}

// PlayTracker summarizes each listen into a PlayEvent.
//
// A listen starts when a track becomes current and ends when the track
// finishes, is replaced, or the tracker closes. Only progress that advances in
// small steps counts as listened time, so seeking ahead does not inflate it.
//
// Thread-safety: All methods are thread-safe.
type PlayTracker struct {
	logger    *slog.Logger
	store     *PlayerStore
	bus       ports.FilteringEventBus
	sink      ports.PlayEventSink
	config    TrackerConfig
	sessionID string
	now       func() time.Time

	mu       sync.Mutex
	current  *listen
	storeSub domain.SubscriptionID
	subs     []domain.SubscriptionID
	closed   bool
}

type listen struct {
	track     domain.Track
	startedAt time.Time
	duration  float64
	last      float64
	listened  float64
	seeks     int
}

// NewPlayTracker creates a tracker and starts following the store.
func NewPlayTracker(
	logger *slog.Logger,
	store *PlayerStore,
	bus ports.FilteringEventBus,
	sink ports.PlayEventSink,
	config TrackerConfig,
) *PlayTracker {
	t := &PlayTracker{
		logger:    logger.With("service", "tracker"),
		store:     store,
		bus:       bus,
		sink:      sink,
		config:    config,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}

	t.storeSub = store.Subscribe(t.onStateChanged)
	t.subs = []domain.SubscriptionID{
		bus.Subscribe(domain.EventSeekRequested, t.onSeek),
		bus.SubscribeFiltered(domain.EventProgressReport, knownDuration, t.onProgress),
		bus.Subscribe(domain.EventTrackEnded, t.onEnded),
	}

	t.logger.Debug("play tracker initialized", slog.String("session_id", t.sessionID))
	return t
}

// SessionID returns the identifier shared by every listen of this run.
func (t *PlayTracker) SessionID() string {
	return t.sessionID
}

// Close records the listen in progress and stops following the store.
func (t *PlayTracker) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	subs := t.subs
	t.subs = nil
	finished := t.current
	t.current = nil
	t.mu.Unlock()

	t.store.Unsubscribe(t.storeSub)
	for _, id := range subs {
		t.bus.Unsubscribe(id)
	}
	if finished != nil {
		t.record(finished, false)
	}
	return nil
}

func knownDuration(e domain.Event) bool {
	p, ok := e.(domain.ProgressReportEvent)
	return ok && isKnownDuration(p.Duration)
}

func (t *PlayTracker) onStateChanged(e domain.StateChangedEvent) {
	next := e.Next.CurrentTrack
	prev := e.Prev.CurrentTrack
	if next == nil {
		return
	}
	// Starting the current track again counts as a new listen.
	restarted := e.Next.StartVersion != e.Prev.StartVersion
	if prev != nil && prev.ID == next.ID && !restarted {
		return
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	finished := t.current
	t.current = &listen{track: *next, startedAt: t.now()}
	t.mu.Unlock()

	if finished != nil {
		t.record(finished, false)
	}
}

func (t *PlayTracker) onSeek(domain.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current != nil {
		t.current.seeks++
		t.current.last = math.NaN()
	}
}

func (t *PlayTracker) onProgress(event domain.Event) {
	e, ok := event.(domain.ProgressReportEvent)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	l := t.current
	if l == nil {
		return
	}
	l.duration = e.Duration
	pos := e.Progress * e.Duration
	if !math.IsNaN(l.last) {
		if step := pos - l.last; step > 0 && step <= maxNaturalStep {
			l.listened += step
		}
	}
	l.last = pos
}

func (t *PlayTracker) onEnded(event domain.Event) {
	e, ok := event.(domain.TrackEndedEvent)
	if !ok {
		return
	}

	t.mu.Lock()
	finished := t.current
	if finished == nil || finished.track.ID != e.Track.ID {
		t.mu.Unlock()
		return
	}
	t.current = nil
	t.mu.Unlock()

	t.record(finished, true)
}

func (t *PlayTracker) record(l *listen, completed bool) {
	duration := l.duration
	if duration <= 0 {
		duration = float64(l.track.Duration)
	}
	listened := l.listened

	percentage := 0.0
	if duration > 0 {
		percentage = math.Min(100, math.Round(listened/duration*1000)/10)
	}

	play := domain.PlayEvent{
		ID:                 uuid.NewString(),
		SessionID:          t.sessionID,
		UserID:             t.config.UserID,
		TrackID:            l.track.ID,
		StartedAt:          l.startedAt,
		DurationSeconds:    math.Round(listened*10) / 10,
		ListenedPercentage: percentage,
		Completed:          completed,
		SeekCount:          l.seeks,
		Source:             t.config.Source,
		DeviceType:         t.config.DeviceType,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.sink.RecordPlay(ctx, play); err != nil {
		t.logger.Warn("failed to record play",
			slog.String("track_id", play.TrackID),
			slog.Any("error", err))
		return
	}
	t.bus.Publish(domain.NewPlayRecordedEvent(play))
}

// LogPlaySink writes listens to the structured log. Nothing leaves the machine.
type LogPlaySink struct {
	logger *slog.Logger
}

// NewLogPlaySink creates a sink that logs each listen at info level.
func NewLogPlaySink(logger *slog.Logger) *LogPlaySink {
	return &LogPlaySink{logger: logger.With("component", "plays")}
}

// RecordPlay logs the listen.
func (s *LogPlaySink) RecordPlay(ctx context.Context, play domain.PlayEvent) error {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "play recorded",
		slog.String("id", play.ID),
		slog.String("session_id", play.SessionID),
		slog.String("track_id", play.TrackID),
		slog.Float64("duration_seconds", play.DurationSeconds),
		slog.Float64("listened_percentage", play.ListenedPercentage),
		slog.Bool("completed", play.Completed),
		slog.Int("seek_count", play.SeekCount),
		slog.String("source", play.Source),
		slog.String("device_type", play.DeviceType))
	return nil
}

var _ ports.PlayEventSink = (*LogPlaySink)(nil)
