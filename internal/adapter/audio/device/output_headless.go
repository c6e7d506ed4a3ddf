//go:build headless

package device

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/tejashwikalptaru/dreamtune/internal/adapter/audio/stream"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// drainInterval is how often the headless sink pulls from the pipeline.
const drainInterval = 20 * time.Millisecond

// Output plays into a null sink at real-time speed, for machines without a
// sound device. Playback position, events and analysis behave as on a device.
type Output struct {
	*stream.Element

	reader *stream.Reader
	frames int

	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewOutput creates a headless output.
func NewOutput(logger *slog.Logger, loader *stream.Loader, cfg Config) (*Output, error) {
	cfg = cfg.withDefaults()
	logger = logger.With("component", "null_output")

	pipeline := stream.NewPipeline(beep.SampleRate(cfg.SampleRate), cfg.TapSize)
	o := &Output{
		Element: stream.NewElement(logger, pipeline, loader.Open, cfg.TimeUpdateInterval),
		reader:  stream.NewReader(pipeline),
		frames:  beep.SampleRate(cfg.SampleRate).N(drainInterval),
		stop:    make(chan struct{}),
	}

	o.wg.Add(1)
	go o.drain()

	logger.Info("audio device unavailable, playing to null sink", slog.Int("sample_rate", cfg.SampleRate))
	return o, nil
}

func (o *Output) drain() {
	defer o.wg.Done()

	buf := make([]byte, o.frames*8)
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.stop:
			return
		case <-ticker.C:
			if _, err := o.reader.Read(buf); err != nil && err != io.EOF {
				return
			}
		}
	}
}

// Close stops the element and the sink.
func (o *Output) Close() error {
	err := o.Element.Close()
	o.closeOnce.Do(func() {
		close(o.stop)
		o.wg.Wait()
	})
	return err
}

var (
	_ ports.AudioOutput = (*Output)(nil)
	_ ports.SampleTap   = (*Output)(nil)
)
