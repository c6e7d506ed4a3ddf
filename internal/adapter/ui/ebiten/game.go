// Package ebiten shows the visualizer full-window with Ebitengine.
package ebiten

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/visualizer"
)

const (
	// WindowWidth and WindowHeight are the windowed size in logical pixels.
	WindowWidth  = 1280
	WindowHeight = 720
)

// KeyHandler receives player shortcuts and reports whether one was used.
type KeyHandler func(key domain.Key) bool

// Caption returns the text shown in the info overlay.
type Caption func() string

// Game drives a visualizer.Renderer from the Ebitengine game loop. Each Draw
// advances the renderer by one frame, so the animation runs at the display rate.
type Game struct {
	logger   *slog.Logger
	renderer *visualizer.Renderer
	onKey    KeyHandler
	caption  Caption

	mu         sync.Mutex
	width      int
	height     int
	dpr        float64
	image      *ebiten.Image
	showInfo   bool
	fullscreen bool
	quit       bool
}

// NewGame creates a game around renderer. onKey and caption may be nil.
func NewGame(logger *slog.Logger, renderer *visualizer.Renderer, onKey KeyHandler, caption Caption) *Game {
	return &Game{
		logger:   logger.With("component", "ambient"),
		renderer: renderer,
		onKey:    onKey,
		caption:  caption,
		dpr:      1,
	}
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run(title string) error {
	ebiten.SetWindowSize(WindowWidth, WindowHeight)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("ambient window: %w", err)
	}
	return nil
}

// Quit ends the game loop on the next update.
func (g *Game) Quit() {
	g.mu.Lock()
	g.quit = true
	g.mu.Unlock()
}

// Update handles input.
func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() || g.quitting() {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		g.mu.Lock()
		g.fullscreen = !g.fullscreen
		ebiten.SetFullscreen(g.fullscreen)
		if !g.fullscreen {
			ebiten.SetWindowSize(WindowWidth, WindowHeight)
		}
		g.mu.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.ToggleInfo()
	}

	for _, k := range playerKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.handleKey(keyFor(k))
		}
	}
	return nil
}

// Draw renders the next visualizer frame onto the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	frame, err := g.renderer.Frame()
	if err != nil {
		g.logger.Debug("frame skipped", slog.Any("error", err))
		return
	}

	g.mu.Lock()
	img := g.surface(frame.Bounds())
	showInfo := g.showInfo
	g.mu.Unlock()

	img.WritePixels(frame.Pix)
	screen.DrawImage(img, nil)

	if showInfo && g.caption != nil {
		ebitenutil.DebugPrintAt(screen, g.caption(), 12, 12)
	}
}

// Layout renders at device resolution: the screen is the outside size times
// the monitor scale factor.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := ebiten.Monitor().DeviceScaleFactor()
	return g.resize(outsideWidth, outsideHeight, dpr)
}

// resize keeps the renderer's surface in step with the window and returns the
// physical screen size.
func (g *Game) resize(width, height int, dpr float64) (int, int) {
	if width <= 0 || height <= 0 {
		return 1, 1
	}
	if dpr <= 0 {
		dpr = 1
	}

	g.mu.Lock()
	changed := width != g.width || height != g.height || dpr != g.dpr
	if changed {
		g.width, g.height, g.dpr = width, height, dpr
	}
	g.mu.Unlock()

	if changed {
		if err := g.renderer.Resize(width, height, dpr); err != nil {
			g.logger.Warn("visualizer resize failed",
				slog.Int("width", width),
				slog.Int("height", height),
				slog.Any("error", err))
		}
	}

	return int(math.Ceil(float64(width) * dpr)), int(math.Ceil(float64(height) * dpr))
}

// surface returns an offscreen image matching the frame, recreating it after resizes.
func (g *Game) surface(bounds image.Rectangle) *ebiten.Image {
	if g.image != nil && g.image.Bounds().Size() == bounds.Size() {
		return g.image
	}
	if g.image != nil {
		g.image.Deallocate()
	}
	g.image = ebiten.NewImage(bounds.Dx(), bounds.Dy())
	return g.image
}

// ToggleInfo shows or hides the caption overlay.
func (g *Game) ToggleInfo() {
	g.mu.Lock()
	g.showInfo = !g.showInfo
	g.mu.Unlock()
}

func (g *Game) handleKey(key domain.Key) {
	if key == domain.KeyUnknown || g.onKey == nil {
		return
	}
	g.onKey(key)
}

func (g *Game) quitting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.quit
}

var _ ebiten.Game = (*Game)(nil)
