// Package widgets provides custom Fyne widgets for the Dreamtune player.
package widgets

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/visualizer"
)

// Visualizer is a widget that shows the frames of a visualizer.Renderer.
//
// The renderer's loop produces frames off the UI thread; the widget keeps a
// copy of the newest one and asks Fyne to redraw. The raster's size drives
// the renderer's surface, so resizing the window resizes the drawing.
type Visualizer struct {
	widget.BaseWidget

	renderer *visualizer.Renderer
	logger   *slog.Logger
	raster   *canvas.Raster

	mu     sync.Mutex
	frame  *image.RGBA
	width  int
	height int
}

// NewVisualizer creates a visualizer widget over renderer.
func NewVisualizer(logger *slog.Logger, renderer *visualizer.Renderer) *Visualizer {
	v := &Visualizer{
		renderer: renderer,
		logger:   logger.With("component", "visualizer_widget"),
	}

	v.raster = canvas.NewRaster(v.draw)
	v.ExtendBaseWidget(v)

	return v
}

// CreateRenderer implements fyne.Widget.
func (v *Visualizer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize returns a small size so the widget expands to fill available space.
func (v *Visualizer) MinSize() fyne.Size {
	return fyne.NewSize(64, 64)
}

// Start runs the renderer loop until ctx is done or Stop is called.
func (v *Visualizer) Start(ctx context.Context) error {
	return v.renderer.Start(ctx, v.onFrame)
}

// Stop ends the renderer loop.
func (v *Visualizer) Stop() error {
	return v.renderer.Stop()
}

// SetTheme switches the visuals to theme.
func (v *Visualizer) SetTheme(theme domain.VisualizerTheme) error {
	return v.renderer.SetTheme(theme)
}

// onFrame runs on the renderer loop.
func (v *Visualizer) onFrame(frame *image.RGBA) {
	v.mu.Lock()
	if v.frame == nil || v.frame.Rect != frame.Rect {
		v.frame = image.NewRGBA(frame.Rect)
	}
	copy(v.frame.Pix, frame.Pix)
	v.mu.Unlock()

	fyne.Do(v.raster.Refresh)
}

// draw is the raster generator. It resizes the renderer when the raster size
// changes and returns the newest frame.
func (v *Visualizer) draw(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	v.mu.Lock()
	resized := w != v.width || h != v.height
	if resized {
		v.width, v.height = w, h
	}
	frame := v.frame
	v.mu.Unlock()

	if resized {
		if err := v.renderer.Resize(w, h, 1); err != nil {
			v.logger.Warn("visualizer resize failed", slog.Int("width", w), slog.Int("height", h), slog.Any("error", err))
		}
	}

	if frame == nil || frame.Rect.Dx() != w || frame.Rect.Dy() != h {
		// First frame at this size, or the loop is not running.
		img, err := v.renderer.Frame()
		if err != nil {
			return image.NewRGBA(image.Rect(0, 0, w, h))
		}
		out := image.NewRGBA(img.Rect)
		copy(out.Pix, img.Pix)
		return out
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	out := image.NewRGBA(v.frame.Rect)
	copy(out.Pix, v.frame.Pix)
	return out
}
