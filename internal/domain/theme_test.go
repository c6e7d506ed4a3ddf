package domain

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTheme() VisualizerTheme {
	return VisualizerTheme{
		DrawStyle:     StyleWaterRipples,
		Colors:        []color.RGBA{{R: 1, A: 255}, {G: 1, A: 255}, {B: 1, A: 255}},
		ParticleCount: 0,
		Intensity:     0.7,
	}
}

func TestVisualizerTheme_Validate(t *testing.T) {
	require.NoError(t, validTheme().Validate())

	bad := validTheme()
	bad.DrawStyle = "lava-lamp"
	assert.True(t, errors.Is(bad.Validate(), ErrUnknownDrawStyle))

	bad = validTheme()
	bad.Colors = bad.Colors[:2]
	assert.Error(t, bad.Validate())

	bad = validTheme()
	bad.ParticleCount = -1
	assert.Error(t, bad.Validate())

	bad = validTheme()
	bad.Intensity = 1.5
	assert.Error(t, bad.Validate())
}

func TestDrawStyles(t *testing.T) {
	styles := DrawStyles()
	assert.Len(t, styles, 7)
	for _, s := range styles {
		assert.True(t, s.Valid(), s)
	}

	var particles []DrawStyle
	for _, s := range styles {
		if s.UsesParticles() {
			particles = append(particles, s)
		}
	}
	assert.Equal(t, []DrawStyle{StyleNebulaField, StyleFallingSnow, StyleRisingBubbles}, particles)
}

func TestVisualizerTheme_ColorWraps(t *testing.T) {
	theme := validTheme()
	assert.Equal(t, theme.Colors[1], theme.Color(4))
	assert.Equal(t, theme.Colors[2], theme.Color(-2))

	theme.Colors = nil
	theme.GlowColor = color.RGBA{R: 9, A: 255}
	assert.Equal(t, theme.GlowColor, theme.Color(0))
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#f4a261")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xf4, G: 0xa2, B: 0x61, A: 0xff}, c)

	c, err = ParseHexColor("#abc")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, c)

	_, err = ParseHexColor("#ggg")
	assert.Error(t, err)
	_, err = ParseHexColor("1234")
	assert.Error(t, err)
	assert.Panics(t, func() { MustHexColor("nope") })
}

func TestPlaybackState(t *testing.T) {
	var s PlaybackState
	assert.Equal(t, StatusEmpty, s.Status())

	track := Track{ID: "a"}
	s = PlaybackState{CurrentTrack: &track, IsPlaying: true, IsLoading: true, Progress: 0.5, Queue: []Track{{ID: "b"}}}
	assert.Equal(t, StatusLoading, s.Status())
	assert.Zero(t, s.Elapsed())

	s.IsLoading = false
	s.Duration = 200
	assert.Equal(t, StatusPlaying, s.Status())
	assert.InDelta(t, 100, s.Elapsed(), 1e-9)

	s.Duration = math.NaN()
	assert.Zero(t, s.Elapsed())

	clone := s.Clone()
	clone.CurrentTrack.ID = "changed"
	clone.Queue[0].ID = "changed"
	assert.Equal(t, "a", s.CurrentTrack.ID)
	assert.Equal(t, "b", s.Queue[0].ID)

	s.IsPlaying = false
	assert.Equal(t, StatusPaused, s.Status())
	s.Error = "boom"
	assert.Equal(t, StatusError, s.Status())
}

func TestTrack_StreamKey(t *testing.T) {
	assert.Equal(t, "dt-1", Track{ID: "dt-1"}.StreamKey())
	assert.Equal(t, "5K29J", Track{ID: "dt-1", StreamID: "5K29J"}.StreamKey())
}
