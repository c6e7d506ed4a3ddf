package widgets

import (
	"image"
	"image/color"
	"testing"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/logger"
	"github.com/tejashwikalptaru/dreamtune/internal/visualizer"
)

func testTheme() domain.VisualizerTheme {
	return domain.VisualizerTheme{
		DrawStyle: domain.StyleWarmPulse,
		Colors: []color.RGBA{
			domain.MustHexColor("#ff7f50"),
			domain.MustHexColor("#ffb347"),
			domain.MustHexColor("#ffd700"),
		},
		BgColor:   domain.MustHexColor("#1a0a00"),
		GlowColor: domain.MustHexColor("#ff8c00"),
		Intensity: 0.8,
	}
}

func TestRotator(t *testing.T) {
	short := NewRotator("Ki", 10)
	assert.False(t, short.Scrolls())
	assert.Equal(t, "Ki", short.Rotate())
	assert.Equal(t, "Ki", short.Rotate())

	long := NewRotator("Ocean Machine", 5)
	assert.True(t, long.Scrolls())
	assert.Equal(t, "cean ", long.Rotate())
	assert.Equal(t, "ean M", long.Rotate())

	// Multi-byte titles rotate by rune
	accents := NewRotator("Épicentre", 3)
	assert.Equal(t, "pic", accents.Rotate())
}

func TestTrackLabel_Callbacks(t *testing.T) {
	test.NewTempApp(t)

	var played, queued []int
	label := NewTrackLabel(
		func(i int) { played = append(played, i) },
		func(i int, _ fyneapp.Position) { queued = append(queued, i) },
	)
	label.Set(3, "Sky Gods", true)
	assert.Equal(t, "Sky Gods", label.Text())
	assert.Equal(t, 3, label.Index())
	assert.True(t, label.lock.Visible())

	label.DoubleTapped(&fyneapp.PointEvent{})
	label.TappedSecondary(&fyneapp.PointEvent{})
	assert.Equal(t, []int{3}, played)
	assert.Equal(t, []int{3}, queued)

	label.Set(4, "Ki", false)
	assert.False(t, label.lock.Visible())
}

func TestTrackLabel_NilCallbacks(t *testing.T) {
	test.NewTempApp(t)

	label := NewTrackLabel(nil, nil)
	assert.NotPanics(t, func() {
		label.DoubleTapped(&fyneapp.PointEvent{})
		label.TappedSecondary(&fyneapp.PointEvent{})
	})
}

func TestTappableStack(t *testing.T) {
	test.NewTempApp(t)

	toggles, menus := 0, 0
	stack := NewTappableStack(NewTrackLabel(nil, nil), func() { toggles++ }, func(*fyneapp.PointEvent) { menus++ })
	stack.Tapped(&fyneapp.PointEvent{})
	stack.DoubleTapped(&fyneapp.PointEvent{})
	stack.TappedSecondary(&fyneapp.PointEvent{})

	assert.Equal(t, 1, toggles)
	assert.Equal(t, 1, menus)
}

func TestVisualizer_DrawFollowsRasterSize(t *testing.T) {
	test.NewTempApp(t)

	r, err := visualizer.NewRenderer(logger.NewTestLogger(), nil, testTheme())
	require.NoError(t, err)
	v := NewVisualizer(logger.NewTestLogger(), r)

	img := v.draw(40, 30)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
	w, h, _ := r.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 30, h)

	img = v.draw(64, 48)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())

	assert.Equal(t, image.Rect(0, 0, 1, 1), v.draw(0, 10).Bounds())
}

func TestVisualizer_ShowsLatestFrame(t *testing.T) {
	test.NewTempApp(t)

	r, err := visualizer.NewRenderer(logger.NewTestLogger(), nil, testTheme())
	require.NoError(t, err)
	v := NewVisualizer(logger.NewTestLogger(), r)
	v.draw(8, 8)

	frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
	red := color.RGBA{R: 255, A: 255}
	for i := 0; i < len(frame.Pix); i += 4 {
		frame.Pix[i], frame.Pix[i+3] = 255, 255
	}
	v.onFrame(frame)

	// The widget keeps its own copy
	clear(frame.Pix)

	img := v.draw(8, 8)
	assert.Equal(t, red, img.(*image.RGBA).RGBAAt(4, 4))
}

func TestVisualizer_SetThemeValidates(t *testing.T) {
	test.NewTempApp(t)

	r, err := visualizer.NewRenderer(logger.NewTestLogger(), nil, testTheme())
	require.NoError(t, err)
	v := NewVisualizer(logger.NewTestLogger(), r)

	bad := testTheme()
	bad.DrawStyle = "lava-lamp"
	assert.ErrorIs(t, v.SetTheme(bad), domain.ErrUnknownDrawStyle)

	snow := testTheme()
	snow.DrawStyle = domain.StyleFallingSnow
	snow.ParticleCount = 20
	require.NoError(t, v.SetTheme(snow))
	assert.Equal(t, domain.StyleFallingSnow, r.Theme().DrawStyle)
}
