package stream

import (
	"context"
	"errors"
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/logger"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
	"github.com/tejashwikalptaru/dreamtune/internal/testutil"
)

func newTestElement(t *testing.T, open Opener) (*Element, *Pipeline, *eventLog) {
	t.Helper()
	if open == nil {
		open = NewLoader(nil).Open
	}
	p := NewPipeline(testRate, 1024)
	e := NewElement(logger.NewTestLogger(), p, open, 10*time.Millisecond)
	log := &eventLog{}
	e.AddListener(log.add)
	t.Cleanup(func() { _ = e.Close() })
	return e, p, log
}

func fileURL(path string) string {
	return (&url.URL{Scheme: "file", Path: path}).String()
}

func TestElement_LoadReportsMetadata(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	e, _, log := newTestElement(t, nil)
	require.NoError(t, e.Load(fileURL(writeTone(t, 0.5)), 1))

	log.waitFor(t, ports.OutputCanPlay, 1)
	assert.True(t, log.has(ports.OutputLoadStart, 1))

	meta, ok := log.first(ports.OutputLoadedMetadata)
	require.True(t, ok)
	assert.InDelta(t, 0.5, meta.Duration, 0.01)
	assert.InDelta(t, 0.5, e.Duration(), 0.01)
	require.NoError(t, e.Close())
}

func TestElement_PlayBeforeReady(t *testing.T) {
	e, p, log := newTestElement(t, nil)
	require.NoError(t, e.Load(fileURL(writeTone(t, 0.5)), 7))
	require.NoError(t, e.Play(context.Background()))

	log.waitFor(t, ports.OutputCanPlay, 7)
	assert.False(t, p.Paused())
	assert.Greater(t, peak(drain(p, 800)), 0.3)

	tap := make([]float64, 256)
	assert.Equal(t, 256, e.Samples(tap))
	assert.Equal(t, int(testRate), e.SampleRate())

	log.waitFor(t, ports.OutputTimeUpdate, 7)
}

func TestElement_PausedStreamsSilence(t *testing.T) {
	e, p, log := newTestElement(t, nil)
	require.NoError(t, e.Load(fileURL(writeTone(t, 0.5)), 1))
	log.waitFor(t, ports.OutputCanPlay, 1)

	assert.Zero(t, peak(drain(p, 400)))
	assert.Zero(t, e.CurrentTime())

	require.NoError(t, e.Play(context.Background()))
	drain(p, 800)
	require.NoError(t, e.Pause())
	pos := e.CurrentTime()
	assert.InDelta(t, 0.1, pos, 0.01)

	assert.Zero(t, peak(drain(p, 400)))
	assert.Equal(t, pos, e.CurrentTime())
}

func TestElement_EndedAndReplay(t *testing.T) {
	e, p, log := newTestElement(t, nil)
	require.NoError(t, e.Load(fileURL(writeTone(t, 0.25)), 3))
	require.NoError(t, e.Play(context.Background()))
	log.waitFor(t, ports.OutputCanPlay, 3)

	drain(p, 4000)
	log.waitFor(t, ports.OutputEnded, 3)
	assert.False(t, e.IsPlaying())
	assert.Zero(t, peak(drain(p, 400)))

	require.NoError(t, e.Play(context.Background()))
	assert.Zero(t, e.CurrentTime())
	assert.Greater(t, peak(drain(p, 400)), 0.3)
}

func TestElement_SeekAndVolume(t *testing.T) {
	e, p, log := newTestElement(t, nil)
	require.NoError(t, e.Load(fileURL(writeTone(t, 1)), 1))
	log.waitFor(t, ports.OutputCanPlay, 1)

	require.NoError(t, e.SetCurrentTime(0.5))
	assert.InDelta(t, 0.5, e.CurrentTime(), 0.01)

	require.NoError(t, e.SetCurrentTime(5))
	assert.InDelta(t, 1, e.CurrentTime(), 0.01)

	require.NoError(t, e.SetCurrentTime(0))
	require.NoError(t, e.Play(context.Background()))
	e.SetVolume(0)
	assert.Zero(t, peak(drain(p, 400)))

	e.SetVolume(0.5)
	loud := peak(drain(p, 400))
	assert.Greater(t, loud, 0.15)
	assert.Less(t, loud, 0.3)
}

func TestElement_LoadError(t *testing.T) {
	e, _, log := newTestElement(t, nil)
	require.NoError(t, e.Load(fileURL("/nonexistent/missing.wav"), 2))

	log.waitFor(t, ports.OutputError, 2)
	ev, _ := log.first(ports.OutputError)
	var outErr *domain.AudioOutputError
	assert.ErrorAs(t, ev.Err, &outErr)

	assert.True(t, math.IsNaN(e.Duration()))
	err := e.Play(context.Background())
	assert.ErrorAs(t, err, &outErr)
}

func TestElement_SupersededLoadIsDropped(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	load := NewLoader(nil).Open
	block := make(chan struct{})
	open := func(ctx context.Context, u string) (*Source, error) {
		if u == "slow" {
			select {
			case <-block:
			case <-ctx.Done():
			}
			return nil, errors.New("gave up")
		}
		return load(ctx, u)
	}

	e, _, log := newTestElement(t, open)
	require.NoError(t, e.Load("slow", 1))
	require.NoError(t, e.Load(fileURL(writeTone(t, 0.25)), 2))

	log.waitFor(t, ports.OutputCanPlay, 2)
	close(block)
	require.NoError(t, e.Close())

	assert.True(t, log.has(ports.OutputLoadStart, 1))
	assert.False(t, log.has(ports.OutputError, 1))
	assert.False(t, log.has(ports.OutputCanPlay, 1))
}

func TestElement_NoSource(t *testing.T) {
	e, _, _ := newTestElement(t, nil)

	assert.ErrorIs(t, e.Play(context.Background()), domain.ErrNoSource)
	assert.ErrorIs(t, e.SetCurrentTime(1), domain.ErrNoSource)
	assert.True(t, math.IsNaN(e.Duration()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Play(ctx), context.Canceled)
}

func TestElement_ClearAndClose(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	e, p, log := newTestElement(t, nil)
	require.NoError(t, e.Load(fileURL(writeTone(t, 0.25)), 1))
	log.waitFor(t, ports.OutputCanPlay, 1)

	e.Clear()
	assert.True(t, p.Paused())
	assert.True(t, math.IsNaN(e.Duration()))

	require.NoError(t, e.Close())
	assert.ErrorIs(t, e.Close(), domain.ErrOutputClosed)
	assert.ErrorIs(t, e.Load("x", 2), domain.ErrOutputClosed)
	assert.ErrorIs(t, e.Play(context.Background()), domain.ErrOutputClosed)
}

func TestElement_RemoveListener(t *testing.T) {
	e, _, _ := newTestElement(t, nil)
	extra := &eventLog{}
	remove := e.AddListener(extra.add)
	remove()

	require.NoError(t, e.Load(fileURL(writeTone(t, 0.25)), 1))
	assert.False(t, extra.has(ports.OutputLoadStart, 1))
}
