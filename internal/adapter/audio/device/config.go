// Package device plays the stream pipeline through the system sound device.
package device

import (
	"time"

	"github.com/tejashwikalptaru/dreamtune/internal/adapter/audio/stream"
)

// DefaultSampleRate is the device rate when none is configured.
const DefaultSampleRate = 44100

// Config holds output settings.
type Config struct {
	SampleRate int
	// BufferSize is the device buffer duration. Zero lets the driver decide.
	BufferSize time.Duration
	// TapSize is the number of samples kept for analysis.
	TapSize int
	// TimeUpdateInterval is the cadence of time update events.
	TimeUpdateInterval time.Duration
}

// DefaultConfig returns the settings used by the desktop player.
func DefaultConfig() Config {
	return Config{
		SampleRate:         DefaultSampleRate,
		TapSize:            stream.DefaultTapSize,
		TimeUpdateInterval: stream.DefaultTimeUpdateInterval,
	}
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.TapSize <= 0 {
		c.TapSize = stream.DefaultTapSize
	}
	if c.TimeUpdateInterval <= 0 {
		c.TimeUpdateInterval = stream.DefaultTimeUpdateInterval
	}
	return c
}
