package visualizer

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// Stop is one color stop of a gradient. Offset runs from 0 to 1.
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Transparent is a fully transparent stop color.
var Transparent = color.NRGBA{}

// withAlpha returns c at the given opacity, clamped to [0, 1].
func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clamp01(alpha) * 255)}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lighten raises the lightness of c by amount in HSL space.
func lighten(c color.RGBA, amount float64) color.RGBA {
	h, s, l := rgbToHSL(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
	r, g, b := hslToRGB(h, s, clamp01(l+amount))
	return color.RGBA{R: toByte(r), G: toByte(g), B: toByte(b), A: c.A}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func rgbToHSL(r, g, b float64) (h, s, l float64) {
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	l = (hi + lo) / 2
	if hi == lo {
		return 0, 0, l
	}

	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}
	switch hi {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

// hslToRGB converts HSL to RGB (h, s, l in 0-1 range).
func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return hueToRGB(p, q, h+1.0/3.0), hueToRGB(p, q, h), hueToRGB(p, q, h-1.0/3.0)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

// premulStop is a stop converted to premultiplied floats for interpolation.
type premulStop struct {
	offset     float64
	r, g, b, a float64
}

func prepareStops(stops []Stop) []premulStop {
	out := make([]premulStop, len(stops))
	for i, s := range stops {
		a := float64(s.Color.A) / 255
		out[i] = premulStop{
			offset: clamp01(s.Offset),
			r:      float64(s.Color.R) * a,
			g:      float64(s.Color.G) * a,
			b:      float64(s.Color.B) * a,
			a:      a * 255,
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].offset < out[j].offset })
	return out
}

// sample interpolates the stops at t.
func sample(stops []premulStop, t float64) color.RGBA {
	if len(stops) == 0 {
		return color.RGBA{}
	}
	if t <= stops[0].offset {
		return stops[0].rgba()
	}
	last := stops[len(stops)-1]
	if t >= last.offset {
		return last.rgba()
	}
	for i := 1; i < len(stops); i++ {
		hi := stops[i]
		if t > hi.offset {
			continue
		}
		lo := stops[i-1]
		span := hi.offset - lo.offset
		if span <= 0 {
			return hi.rgba()
		}
		f := (t - lo.offset) / span
		return premulStop{
			r: lo.r + (hi.r-lo.r)*f,
			g: lo.g + (hi.g-lo.g)*f,
			b: lo.b + (hi.b-lo.b)*f,
			a: lo.a + (hi.a-lo.a)*f,
		}.rgba()
	}
	return last.rgba()
}

func (s premulStop) rgba() color.RGBA {
	return color.RGBA{R: uint8(s.r), G: uint8(s.g), B: uint8(s.b), A: uint8(s.a)}
}

// radialGradient is an image whose color depends on the distance from a centre.
type radialGradient struct {
	cx, cy, r float64
	stops     []premulStop
	bounds    image.Rectangle
}

func (g *radialGradient) ColorModel() color.Model { return color.RGBAModel }
func (g *radialGradient) Bounds() image.Rectangle { return g.bounds }

func (g *radialGradient) At(x, y int) color.Color {
	d := math.Hypot(float64(x)+0.5-g.cx, float64(y)+0.5-g.cy)
	return sample(g.stops, d/g.r)
}

// linearGradient is an image whose color depends on the projection onto a segment.
type linearGradient struct {
	x0, y0 float64
	dx, dy float64
	inv    float64
	stops  []premulStop
	bounds image.Rectangle
}

func newLinearGradient(p0, p1 Point, stops []premulStop, bounds image.Rectangle) *linearGradient {
	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	lenSq := dx*dx + dy*dy
	inv := 0.0
	if lenSq > 0 {
		inv = 1 / lenSq
	}
	return &linearGradient{x0: p0.X, y0: p0.Y, dx: dx, dy: dy, inv: inv, stops: stops, bounds: bounds}
}

func (g *linearGradient) ColorModel() color.Model { return color.RGBAModel }
func (g *linearGradient) Bounds() image.Rectangle { return g.bounds }

func (g *linearGradient) At(x, y int) color.Color {
	px := float64(x) + 0.5 - g.x0
	py := float64(y) + 0.5 - g.y0
	return sample(g.stops, (px*g.dx+py*g.dy)*g.inv)
}

func uniform(c color.Color) image.Image {
	return image.NewUniform(c)
}
