package stream

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

func TestLoader_RemoteWithoutExtension(t *testing.T) {
	data, err := os.ReadFile(writeTone(t, 0.5))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tracks/abc/stream" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	loader := NewLoader(srv.Client())
	src, err := loader.Open(context.Background(), srv.URL+"/v1/tracks/abc/stream?app_name=test")
	require.NoError(t, err)
	defer src.Close()
	assert.InDelta(t, 0.5, src.Duration(), 0.01)
	assert.Equal(t, testRate, src.Format().SampleRate)

	_, err = loader.Open(context.Background(), srv.URL+"/v1/tracks/gone/stream")
	assert.ErrorIs(t, err, domain.ErrStreamUnavailable)
}

func TestLoader_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	loader := NewLoader(srv.Client())
	loader.maxBytes = 16
	_, err := loader.Open(context.Background(), srv.URL+"/big.wav")
	assert.ErrorIs(t, err, domain.ErrStreamUnavailable)
}

func TestLoader_Rejects(t *testing.T) {
	loader := NewLoader(nil)
	dir := t.TempDir()

	flac := filepath.Join(dir, "song.flac")
	require.NoError(t, os.WriteFile(flac, []byte("fLaC"), 0o600))
	_, err := loader.Open(context.Background(), fileURL(flac))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = loader.Open(context.Background(), "ftp://host/song.mp3")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	garbage := filepath.Join(dir, "garbage.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not a riff header"), 0o600))
	_, err = loader.Open(context.Background(), fileURL(garbage))
	var outErr *domain.AudioOutputError
	require.ErrorAs(t, err, &outErr)
	assert.Equal(t, "decode", outErr.Op)
}

func TestCodecDetection(t *testing.T) {
	assert.Equal(t, codecMP3, codecFromExt("/a/b.MP3"))
	assert.Equal(t, codecWAV, codecFromExt("b.wav"))
	assert.Equal(t, codecUnknown, codecFromExt("/v1/tracks/x/stream"))
	assert.Equal(t, codecMP3, codecFromContentType("audio/mpeg"))
	assert.Equal(t, codecWAV, codecFromContentType("audio/x-wav; charset=binary"))
	assert.Equal(t, codecUnknown, codecFromContentType("text/html"))
}

func TestTap_NewestLast(t *testing.T) {
	i := 0
	counter := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for j := range samples {
			v := float64(i)
			samples[j] = [2]float64{v, v}
			i++
		}
		return len(samples), true
	})
	tap := NewTap(counter, 8)
	tap.Stream(make([][2]float64, 10))

	dst := make([]float64, 4)
	require.Equal(t, 4, tap.Samples(dst))
	assert.Equal(t, []float64{6, 7, 8, 9}, dst)

	big := make([]float64, 20)
	assert.Equal(t, 8, tap.Samples(big))
	assert.Equal(t, []float64{2, 3, 4, 5, 6, 7, 8, 9}, big[:8])
}

func TestReader_EncodesFloat32Frames(t *testing.T) {
	r := NewReader(beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{0.25, -0.5}
		}
		return len(samples), true
	}))

	p := make([]byte, 20)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(p[0:])))
	assert.Equal(t, float32(-0.5), math.Float32frombits(binary.LittleEndian.Uint32(p[4:])))
	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(p[8:])))
}

func TestReader_EOF(t *testing.T) {
	r := NewReader(beep.Take(0, sine(440)))
	_, err := r.Read(make([]byte, 16))
	assert.ErrorIs(t, err, io.EOF)
}

func TestPipeline_IdleIsSilent(t *testing.T) {
	p := NewPipeline(testRate, 0)
	assert.Zero(t, peak(drain(p, 256)))
	assert.True(t, p.Paused())
	assert.True(t, math.IsNaN(p.Duration()))
	assert.Zero(t, p.Position())
	assert.NoError(t, p.Seek(3))
	assert.NoError(t, p.Err())
}

func TestPipeline_ResamplesToOutputRate(t *testing.T) {
	src, err := NewLoader(nil).Open(context.Background(), fileURL(writeTone(t, 0.5)))
	require.NoError(t, err)

	p := NewPipeline(testRate*2, 0)
	ended := make(chan uint64, 1)
	p.SetOnEnd(func(gen uint64) { ended <- gen })
	p.Load(src, 9)
	p.SetPaused(false)

	drain(p, int(testRate)*2)
	select {
	case gen := <-ended:
		assert.Equal(t, uint64(9), gen)
	default:
		t.Fatal("source did not end after its full length at double rate")
	}
}
