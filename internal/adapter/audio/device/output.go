//go:build !headless

package device

import (
	"log/slog"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/gopxl/beep/v2"

	"github.com/tejashwikalptaru/dreamtune/internal/adapter/audio/stream"
	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// Output is the device-backed audio output.
// The element owns all playback semantics; the oto player only pulls PCM.
type Output struct {
	*stream.Element

	logger *slog.Logger
	player *oto.Player

	closeOnce sync.Once
}

// NewOutput opens the sound device and starts feeding it silence until a
// source is loaded. Only one oto context may exist per process.
func NewOutput(logger *slog.Logger, loader *stream.Loader, cfg Config) (*Output, error) {
	cfg = cfg.withDefaults()
	logger = logger.With("component", "oto_output")

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.BufferSize,
	})
	if err != nil {
		return nil, domain.NewAudioOutputError("init", "", "failed to open sound device", err)
	}
	<-ready

	pipeline := stream.NewPipeline(beep.SampleRate(cfg.SampleRate), cfg.TapSize)
	player := ctx.NewPlayer(stream.NewReader(pipeline))
	player.Play()

	logger.Info("audio device ready",
		slog.Int("sample_rate", cfg.SampleRate),
		slog.Duration("buffer", cfg.BufferSize))

	return &Output{
		Element: stream.NewElement(logger, pipeline, loader.Open, cfg.TimeUpdateInterval),
		logger:  logger,
		player:  player,
	}, nil
}

// Close stops the element and the device player.
func (o *Output) Close() error {
	err := o.Element.Close()
	o.closeOnce.Do(func() {
		if perr := o.player.Close(); perr != nil {
			o.logger.Warn("failed to close device player", slog.Any("error", perr))
		}
	})
	return err
}

var (
	_ ports.AudioOutput = (*Output)(nil)
	_ ports.SampleTap   = (*Output)(nil)
)
