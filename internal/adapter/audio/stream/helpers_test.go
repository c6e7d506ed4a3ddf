package stream

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

const testRate = beep.SampleRate(8000)

// sine returns an endless tone at hz.
func sine(hz float64) beep.Streamer {
	var phase float64
	step := 2 * math.Pi * hz / float64(testRate)
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 0.5 * math.Sin(phase)
			samples[i] = [2]float64{v, v}
			phase += step
		}
		return len(samples), true
	})
}

// writeTone writes a mono wav of the given length and returns its path.
func writeTone(t *testing.T, seconds float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{SampleRate: testRate, NumChannels: 1, Precision: 2}
	n := testRate.N(time.Duration(seconds * float64(time.Second)))
	require.NoError(t, wav.Encode(f, beep.Take(n, sine(440)), format))
	return path
}

// drain pulls up to frames samples through the pipeline, like a device would.
func drain(p *Pipeline, frames int) [][2]float64 {
	out := make([][2]float64, 0, frames)
	buf := make([][2]float64, 512)
	for len(out) < frames {
		n := min(len(buf), frames-len(out))
		p.Stream(buf[:n])
		out = append(out, buf[:n]...)
	}
	return out
}

func peak(samples [][2]float64) float64 {
	var m float64
	for _, s := range samples {
		m = math.Max(m, math.Abs(s[0]))
	}
	return m
}

type eventLog struct {
	mu     sync.Mutex
	events []ports.OutputEvent
}

func (l *eventLog) add(ev ports.OutputEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) has(kind ports.OutputEventKind, token uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range l.events {
		if ev.Kind == kind && ev.Token == token {
			return true
		}
	}
	return false
}

func (l *eventLog) first(kind ports.OutputEventKind) (ports.OutputEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range l.events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return ports.OutputEvent{}, false
}

func (l *eventLog) waitFor(t *testing.T, kind ports.OutputEventKind, token uint64) {
	t.Helper()
	require.Eventually(t, func() bool { return l.has(kind, token) }, 2*time.Second, 5*time.Millisecond,
		"no %s event for token %d", kind, token)
}
