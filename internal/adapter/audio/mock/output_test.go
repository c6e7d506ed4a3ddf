package mock

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
	"github.com/tejashwikalptaru/dreamtune/internal/testutil"
)

type recorder struct {
	mu     sync.Mutex
	events []ports.OutputEvent
}

func (r *recorder) listen(ev ports.OutputEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []ports.OutputEventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.OutputEventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// TestNewOutput tests the initial state.
func TestNewOutput(t *testing.T) {
	out := NewOutput()

	if out.Source() != "" {
		t.Errorf("Expected no source, got %q", out.Source())
	}
	if !math.IsNaN(out.Duration()) {
		t.Errorf("Expected NaN duration, got %v", out.Duration())
	}
	if out.IsPlaying() {
		t.Error("New output should not be playing")
	}
}

// TestLoadReportsLoadStart tests that Load only reports LoadStart by default.
func TestLoadReportsLoadStart(t *testing.T) {
	out := NewOutput()
	rec := &recorder{}
	out.AddListener(rec.listen)

	if err := out.Load("https://example.test/a.mp3", 7); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	kinds := rec.kinds()
	if len(kinds) != 1 || kinds[0] != ports.OutputLoadStart {
		t.Fatalf("Expected [loadstart], got %v", kinds)
	}
	if rec.events[0].Token != 7 {
		t.Errorf("Expected token 7, got %d", rec.events[0].Token)
	}
}

// TestAutoLoad tests that auto-loading reports metadata and readiness.
func TestAutoLoad(t *testing.T) {
	out := NewOutput()
	out.SetAutoLoad(true, 240)
	rec := &recorder{}
	out.AddListener(rec.listen)

	_ = out.Load("a", 1)

	want := []ports.OutputEventKind{ports.OutputLoadStart, ports.OutputLoadedMetadata, ports.OutputCanPlay}
	kinds := rec.kinds()
	if len(kinds) != len(want) {
		t.Fatalf("Expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("Event %d: expected %v, got %v", i, want[i], kinds[i])
		}
	}
	if out.Duration() != 240 {
		t.Errorf("Expected duration 240, got %v", out.Duration())
	}
}

// TestFailLoad tests the simulated load failure.
func TestFailLoad(t *testing.T) {
	out := NewOutput()
	out.SetFailLoad(true)
	rec := &recorder{}
	out.AddListener(rec.listen)

	_ = out.Load("broken", 2)

	kinds := rec.kinds()
	if len(kinds) != 2 || kinds[1] != ports.OutputError {
		t.Fatalf("Expected loadstart then error, got %v", kinds)
	}
	var outErr *domain.AudioOutputError
	if !errors.As(rec.events[1].Err, &outErr) {
		t.Errorf("Expected AudioOutputError, got %v", rec.events[1].Err)
	}
}

// TestPlayRejection tests autoplay rejection.
func TestPlayRejection(t *testing.T) {
	out := NewOutput()
	ctx := context.Background()

	if err := out.Play(ctx); !errors.Is(err, domain.ErrNoSource) {
		t.Errorf("Expected ErrNoSource, got %v", err)
	}

	_ = out.Load("a", 1)
	out.SetRejectPlay(true)
	if err := out.Play(ctx); !errors.Is(err, domain.ErrPlaybackRejected) {
		t.Errorf("Expected ErrPlaybackRejected, got %v", err)
	}
	if out.IsPlaying() {
		t.Error("Rejected play must not start playback")
	}

	out.SetRejectPlay(false)
	if err := out.Play(ctx); err != nil {
		t.Errorf("Play failed: %v", err)
	}
	if !out.IsPlaying() {
		t.Error("Expected playing after Play")
	}
}

// TestSimulateProgressEnds tests progress reporting and natural end.
func TestSimulateProgressEnds(t *testing.T) {
	out := NewOutput()
	out.SetAutoLoad(true, 10)
	_ = out.Load("a", 1)
	_ = out.Play(context.Background())

	rec := &recorder{}
	out.AddListener(rec.listen)

	out.SimulateProgress(4)
	if out.CurrentTime() != 4 {
		t.Errorf("Expected position 4, got %v", out.CurrentTime())
	}

	out.SimulateProgress(8)
	kinds := rec.kinds()
	if kinds[len(kinds)-1] != ports.OutputEnded {
		t.Errorf("Expected ended as last event, got %v", kinds)
	}
	if out.CurrentTime() != 10 {
		t.Errorf("Expected position clamped to 10, got %v", out.CurrentTime())
	}
	if out.IsPlaying() {
		t.Error("Expected playback to stop at the end")
	}
}

// TestRemoveListener tests that removed listeners stop receiving events.
func TestRemoveListener(t *testing.T) {
	out := NewOutput()
	rec := &recorder{}
	remove := out.AddListener(rec.listen)

	remove()
	_ = out.Load("a", 1)

	if len(rec.kinds()) != 0 {
		t.Errorf("Removed listener received %v", rec.kinds())
	}
	if out.ListenerCount() != 0 {
		t.Errorf("Expected 0 listeners, got %d", out.ListenerCount())
	}
}

// TestSamples tests the synthetic sample tap.
func TestSamples(t *testing.T) {
	out := NewOutput()
	buf := make([]float64, 256)

	out.Samples(buf)
	for _, v := range buf {
		if v != 0 {
			t.Fatal("Expected silence while paused")
		}
	}

	_ = out.Load("a", 1)
	_ = out.Play(context.Background())
	out.SetVolume(0.5)

	if n := out.Samples(buf); n != len(buf) {
		t.Errorf("Expected %d samples, got %d", len(buf), n)
	}
	var peak float64
	for _, v := range buf {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak <= 0 || peak > 0.5+1e-9 {
		t.Errorf("Expected peak in (0, 0.5], got %v", peak)
	}
}

// TestClockAndClose tests the real-time clock and shutdown.
func TestClockAndClose(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	out := NewOutput()
	out.SetAutoLoad(true, 60)
	_ = out.Load("a", 1)
	_ = out.Play(context.Background())

	out.StartClock(5 * time.Millisecond)
	deadline := time.Now().Add(time.Second)
	for out.CurrentTime() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if out.CurrentTime() == 0 {
		t.Error("Expected the clock to advance the position")
	}

	if err := out.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := out.Close(); !errors.Is(err, domain.ErrOutputClosed) {
		t.Errorf("Expected ErrOutputClosed on second close, got %v", err)
	}
	if err := out.Load("b", 2); !errors.Is(err, domain.ErrOutputClosed) {
		t.Errorf("Expected ErrOutputClosed after close, got %v", err)
	}
}
