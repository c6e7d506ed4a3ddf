package visualizer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// Point is a position in logical (device independent) pixels.
type Point struct {
	X, Y float64
}

// Canvas is a drawing surface in logical pixels backed by a device pixel image.
// Shapes are anti-aliased by a vector rasterizer and composited with source-over.
//
// Thread-safety: Canvas is not thread-safe. The renderer owns it.
type Canvas struct {
	img    *image.RGBA
	ras    *vector.Rasterizer
	scale  float64
	width  float64
	height float64
}

// NewCanvas creates a canvas of width x height logical pixels at the given
// device pixel ratio.
func NewCanvas(width, height int, scale float64) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", domain.ErrInvalidDimensions, width, height)
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}

	dw := max(1, int(math.Round(float64(width)*scale)))
	dh := max(1, int(math.Round(float64(height)*scale)))

	return &Canvas{
		img:    image.NewRGBA(image.Rect(0, 0, dw, dh)),
		ras:    vector.NewRasterizer(dw, dh),
		scale:  scale,
		width:  float64(width),
		height: float64(height),
	}, nil
}

// Image returns the device pixel image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Width returns the logical width.
func (c *Canvas) Width() float64 { return c.width }

// Height returns the logical height.
func (c *Canvas) Height() float64 { return c.height }

// Scale returns the device pixel ratio.
func (c *Canvas) Scale() float64 { return c.scale }

// Clear paints every pixel with col, replacing what was there.
func (c *Canvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// FillRect composites src over the logical rectangle.
func (c *Canvas) FillRect(x, y, w, h float64, src image.Image) {
	c.begin()
	c.moveTo(x, y)
	c.lineTo(x+w, y)
	c.lineTo(x+w, y+h)
	c.lineTo(x, y+h)
	c.ras.ClosePath()
	c.flush(src)
}

// FillPolygon composites src over the closed polygon.
func (c *Canvas) FillPolygon(pts []Point, src image.Image) {
	if len(pts) < 3 {
		return
	}
	c.begin()
	c.polygon(pts)
	c.flush(src)
}

// FillCircle fills a disc.
func (c *Canvas) FillCircle(cx, cy, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	c.begin()
	c.circle(cx, cy, r, false)
	c.flush(image.NewUniform(col))
}

// StrokeCircle draws a ring of the given line width centred on radius r.
func (c *Canvas) StrokeCircle(cx, cy, r, width float64, col color.Color) {
	if r <= 0 || width <= 0 {
		return
	}
	outer := r + width/2
	inner := r - width/2

	c.begin()
	c.circle(cx, cy, outer, false)
	if inner > 0 {
		c.circle(cx, cy, inner, true)
	}
	c.flush(image.NewUniform(col))
}

// StrokePolyline draws connected line segments. When closed is set the last
// point joins the first.
func (c *Canvas) StrokePolyline(pts []Point, width float64, col color.Color, closed bool) {
	if len(pts) < 2 || width <= 0 {
		return
	}

	c.begin()
	half := width / 2
	n := len(pts) - 1
	if closed {
		n = len(pts)
	}
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Extend each segment by half the width so joins do not crack.
		ux, uy := dx/length, dy/length
		nx, ny := -uy*half, ux*half
		ax, ay := a.X-ux*half, a.Y-uy*half
		bx, by := b.X+ux*half, b.Y+uy*half

		c.moveTo(ax+nx, ay+ny)
		c.lineTo(bx+nx, by+ny)
		c.lineTo(bx-nx, by-ny)
		c.lineTo(ax-nx, ay-ny)
		c.ras.ClosePath()
	}
	c.flush(image.NewUniform(col))
}

// RadialGlow composites a radial gradient centred on (cx, cy) over its bounding box.
func (c *Canvas) RadialGlow(cx, cy, r float64, stops ...Stop) {
	if r <= 0 || len(stops) == 0 {
		return
	}
	g := c.RadialGradient(cx, cy, r, stops...)
	c.FillRect(cx-r, cy-r, 2*r, 2*r, g)
}

// RadialGradient returns a gradient source in this canvas's device space.
func (c *Canvas) RadialGradient(cx, cy, r float64, stops ...Stop) image.Image {
	return &radialGradient{
		cx:     cx * c.scale,
		cy:     cy * c.scale,
		r:      r * c.scale,
		stops:  prepareStops(stops),
		bounds: c.img.Bounds(),
	}
}

// LinearGradient returns a gradient source running from p0 to p1 in this canvas's device space.
func (c *Canvas) LinearGradient(p0, p1 Point, stops ...Stop) image.Image {
	return newLinearGradient(
		Point{p0.X * c.scale, p0.Y * c.scale},
		Point{p1.X * c.scale, p1.Y * c.scale},
		prepareStops(stops),
		c.img.Bounds(),
	)
}

func (c *Canvas) begin() {
	b := c.img.Bounds()
	c.ras.Reset(b.Dx(), b.Dy())
}

func (c *Canvas) flush(src image.Image) {
	c.ras.Draw(c.img, c.img.Bounds(), src, image.Point{})
}

func (c *Canvas) moveTo(x, y float64) {
	c.ras.MoveTo(float32(x*c.scale), float32(y*c.scale))
}

func (c *Canvas) lineTo(x, y float64) {
	c.ras.LineTo(float32(x*c.scale), float32(y*c.scale))
}

func (c *Canvas) cubeTo(x1, y1, x2, y2, x, y float64) {
	s := c.scale
	c.ras.CubeTo(float32(x1*s), float32(y1*s), float32(x2*s), float32(y2*s), float32(x*s), float32(y*s))
}

func (c *Canvas) polygon(pts []Point) {
	c.moveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.lineTo(p.X, p.Y)
	}
	c.ras.ClosePath()
}

// circle adds a closed circular path. reverse winds it the other way, which
// cuts a hole when combined with an enclosing forward circle.
func (c *Canvas) circle(cx, cy, r float64, reverse bool) {
	k := r * kappa
	c.moveTo(cx+r, cy)
	if !reverse {
		c.cubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
		c.cubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
		c.cubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
		c.cubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	} else {
		c.cubeTo(cx+r, cy-k, cx+k, cy-r, cx, cy-r)
		c.cubeTo(cx-k, cy-r, cx-r, cy-k, cx-r, cy)
		c.cubeTo(cx-r, cy+k, cx-k, cy+r, cx, cy+r)
		c.cubeTo(cx+k, cy+r, cx+r, cy+k, cx+r, cy)
	}
	c.ras.ClosePath()
}
