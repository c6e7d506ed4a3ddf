//go:build headless

package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/dreamtune/internal/adapter/audio/stream"
	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/logger"
	"github.com/tejashwikalptaru/dreamtune/internal/testutil"
)

func TestHeadlessOutput_Lifecycle(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	out, err := NewOutput(logger.NewTestLogger(), stream.NewLoader(nil), Config{SampleRate: 8000})
	require.NoError(t, err)

	assert.Equal(t, 8000, out.SampleRate())
	assert.ErrorIs(t, out.Play(t.Context()), domain.ErrNoSource)

	require.NoError(t, out.Close())
	assert.ErrorIs(t, out.Close(), domain.ErrOutputClosed)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultSampleRate, cfg.SampleRate)
	assert.Equal(t, stream.DefaultTapSize, cfg.TapSize)
	assert.Equal(t, DefaultConfig().TimeUpdateInterval, cfg.TimeUpdateInterval)
}
