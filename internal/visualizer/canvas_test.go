package visualizer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

var (
	black = color.RGBA{A: 0xff}
	red   = color.NRGBA{R: 0xff, A: 0xff}
)

func TestNewCanvas_InvalidDimensions(t *testing.T) {
	_, err := NewCanvas(0, 100, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidDimensions)

	_, err = NewCanvas(100, -1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidDimensions)
}

func TestNewCanvas_DevicePixelRatio(t *testing.T) {
	c, err := NewCanvas(100, 50, 2)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 200, 100), c.Image().Bounds())
	assert.Equal(t, 100.0, c.Width())
	assert.Equal(t, 50.0, c.Height())

	c, err = NewCanvas(100, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Scale())
}

func TestCanvas_Clear(t *testing.T) {
	c, err := NewCanvas(10, 10, 1)
	require.NoError(t, err)

	c.Clear(black)
	assert.Equal(t, black, c.Image().RGBAAt(5, 5))
}

func TestCanvas_FillCircle(t *testing.T) {
	c, err := NewCanvas(100, 100, 1)
	require.NoError(t, err)
	c.Clear(black)

	c.FillCircle(50, 50, 20, red)

	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, c.Image().RGBAAt(50, 50))
	assert.Equal(t, black, c.Image().RGBAAt(5, 5))
}

func TestCanvas_StrokeCircleLeavesCentre(t *testing.T) {
	c, err := NewCanvas(100, 100, 1)
	require.NoError(t, err)
	c.Clear(black)

	c.StrokeCircle(50, 50, 30, 4, red)

	assert.Equal(t, black, c.Image().RGBAAt(50, 50), "centre must stay empty")
	assert.Greater(t, c.Image().RGBAAt(80, 50).R, uint8(200), "ring must be painted")
}

func TestCanvas_StrokePolyline(t *testing.T) {
	c, err := NewCanvas(100, 100, 1)
	require.NoError(t, err)
	c.Clear(black)

	c.StrokePolyline([]Point{{10, 50}, {90, 50}}, 4, red, false)

	assert.Greater(t, c.Image().RGBAAt(50, 50).R, uint8(200))
	assert.Equal(t, black, c.Image().RGBAAt(50, 10))
}

func TestCanvas_ScaledDrawing(t *testing.T) {
	c, err := NewCanvas(50, 50, 2)
	require.NoError(t, err)
	c.Clear(black)

	c.FillCircle(25, 25, 5, red)

	// Logical (25, 25) is device (50, 50)
	assert.Greater(t, c.Image().RGBAAt(50, 50).R, uint8(200))
	assert.Equal(t, black, c.Image().RGBAAt(25, 25))
}

func TestCanvas_RadialGlowFades(t *testing.T) {
	c, err := NewCanvas(100, 100, 1)
	require.NoError(t, err)
	c.Clear(black)

	c.RadialGlow(50, 50, 40, Stop{0, red}, Stop{1, Transparent})

	centre := c.Image().RGBAAt(50, 50).R
	mid := c.Image().RGBAAt(70, 50).R
	edge := c.Image().RGBAAt(95, 50).R
	assert.Greater(t, centre, mid)
	assert.Greater(t, mid, edge)
	assert.Equal(t, uint8(0), edge)
}

func TestGradientSample(t *testing.T) {
	stops := prepareStops([]Stop{
		{1, Transparent},
		{0, color.NRGBA{R: 200, A: 0xff}},
	})

	assert.Equal(t, color.RGBA{R: 200, A: 0xff}, sample(stops, -1))
	assert.Equal(t, color.RGBA{R: 100, A: 127}, sample(stops, 0.5))
	assert.Equal(t, color.RGBA{}, sample(stops, 2))
	assert.Equal(t, color.RGBA{}, sample(nil, 0.5))
}

func TestLighten(t *testing.T) {
	base := color.RGBA{R: 0x40, G: 0x20, B: 0x10, A: 0xff}
	light := lighten(base, 0.3)

	assert.Greater(t, light.R, base.R)
	assert.Greater(t, light.G, base.G)
	assert.Equal(t, base.A, light.A)

	grey := color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	assert.Equal(t, lighten(grey, 0), grey)
}
