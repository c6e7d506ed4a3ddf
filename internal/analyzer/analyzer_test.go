package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/dreamtune/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/dreamtune/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/logger"
)

type brokenTap struct {
	rate  int
	panic bool
}

func (b *brokenTap) Samples(dst []float64) int { return 0 }

func (b *brokenTap) SampleRate() int {
	if b.panic {
		panic("context closed")
	}
	return b.rate
}

func playingOutput(t *testing.T, hz float64) *mock.Output {
	t.Helper()
	out := mock.NewOutput()
	out.SetAutoLoad(true, 60)
	out.SetTone(hz)
	require.NoError(t, out.Load("https://stream.test/tone", 1))
	require.NoError(t, out.Play(context.Background()))
	return out
}

func TestEnergyBands_Partitions(t *testing.T) {
	data := make([]uint8, BinCount)
	for i := 0; i < 19; i++ { // floor(128 * 0.15)
		data[i] = 255
	}

	e := EnergyBands(data)
	assert.InDelta(t, 1.0, e.Bass, 1e-9)
	assert.Zero(t, e.Mids)
	assert.Zero(t, e.Highs)
}

func TestEnergyBands_FlatInput(t *testing.T) {
	data := make([]uint8, BinCount)
	for i := range data {
		data[i] = 51
	}

	e := EnergyBands(data)
	assert.InDelta(t, 0.2, e.Bass, 1e-9)
	assert.InDelta(t, 0.2, e.Mids, 1e-9)
	assert.InDelta(t, 0.2, e.Highs, 1e-9)
}

func TestEnergyBands_SmallInputs(t *testing.T) {
	assert.Equal(t, domain.Energy{}, EnergyBands(nil))

	// Two bins: bass and mids partitions are empty
	e := EnergyBands([]uint8{255, 255})
	assert.Zero(t, e.Bass)
	assert.Zero(t, e.Mids)
	assert.InDelta(t, 1.0, e.Highs, 1e-9)
}

func TestAnalyzer_UnavailableBeforeConnect(t *testing.T) {
	a := New(logger.NewTestLogger(), nil)
	a.RegisterAudioElement(playingOutput(t, 110))

	assert.False(t, a.IsReady())

	data, ok := a.FrequencyData()
	assert.False(t, ok)
	assert.Nil(t, data)

	_, ok = a.TimeDomainData()
	assert.False(t, ok)

	_, ok = a.Energy()
	assert.False(t, ok)
}

func TestAnalyzer_ConnectFailuresAreNonFatal(t *testing.T) {
	bus := eventbus.NewSyncEventBus()
	var failures []error
	bus.Subscribe(domain.EventAnalyzerFailed, func(e domain.Event) {
		failures = append(failures, e.(domain.AnalyzerFailedEvent).Err)
	})

	a := New(logger.NewTestLogger(), bus)

	assert.False(t, a.EnsureConnected())
	a.RegisterAudioElement(&brokenTap{rate: 0})
	assert.False(t, a.EnsureConnected())
	a.RegisterAudioElement(&brokenTap{panic: true})
	assert.NotPanics(t, func() { a.ResumeAudioContext() })

	assert.False(t, a.IsReady())
	require.Len(t, failures, 3)
	assert.ErrorIs(t, failures[0], domain.ErrAnalyzerNotRegistered)
	assert.ErrorIs(t, failures[1], domain.ErrAnalyzerUnavailable)
	assert.ErrorIs(t, failures[2], domain.ErrAnalyzerUnavailable)
}

func TestAnalyzer_ConnectIsIdempotent(t *testing.T) {
	bus := eventbus.NewSyncEventBus()
	connected := 0
	bus.Subscribe(domain.EventAnalyzerConnected, func(domain.Event) { connected++ })

	a := New(logger.NewTestLogger(), bus)
	a.RegisterAudioElement(playingOutput(t, 110))

	assert.True(t, a.EnsureConnected())
	assert.True(t, a.EnsureConnected())
	a.ResumeAudioContext()

	assert.True(t, a.IsReady())
	assert.Equal(t, 1, connected)
}

func TestAnalyzer_LowToneLandsInBass(t *testing.T) {
	a := New(logger.NewTestLogger(), nil)
	a.RegisterAudioElement(playingOutput(t, 110))
	require.True(t, a.EnsureConnected())

	var data []uint8
	for i := 0; i < 30; i++ {
		var ok bool
		data, ok = a.FrequencyData()
		require.True(t, ok)
	}
	require.Len(t, data, BinCount)

	peak := 0
	for i, v := range data {
		if v > data[peak] {
			peak = i
		}
	}
	assert.Less(t, peak, 19, "peak should fall in the bass partition")

	e, ok := a.Energy()
	require.True(t, ok)
	assert.Greater(t, e.Bass, e.Highs)
}

func TestAnalyzer_SilenceWhenPaused(t *testing.T) {
	out := playingOutput(t, 110)
	require.NoError(t, out.Pause())

	a := New(logger.NewTestLogger(), nil)
	a.RegisterAudioElement(out)
	require.True(t, a.EnsureConnected())

	data, ok := a.FrequencyData()
	require.True(t, ok)
	for _, v := range data {
		assert.Zero(t, v)
	}

	td, ok := a.TimeDomainData()
	require.True(t, ok)
	for _, v := range td {
		assert.Equal(t, uint8(128), v)
	}
}

func TestAnalyzer_RegisterDifferentElementDisconnects(t *testing.T) {
	a := New(logger.NewTestLogger(), nil)
	first := playingOutput(t, 110)
	a.RegisterAudioElement(first)
	require.True(t, a.EnsureConnected())

	a.RegisterAudioElement(first)
	assert.True(t, a.IsReady())

	a.RegisterAudioElement(playingOutput(t, 440))
	assert.False(t, a.IsReady())
}

func TestBlackmanWindow(t *testing.T) {
	w := blackman(FFTSize)
	assert.InDelta(t, 0, w[0], 1e-9)
	assert.InDelta(t, 1, w[FFTSize/2], 1e-9)
}
