package fyne

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/dreamtune/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

const (
	// AppName is the window title.
	AppName = "Dreamtune"

	// Width and Height are the initial window size.
	Width  = 820
	Height = 560

	titleWidth     = 32
	scrollInterval = 300 * time.Millisecond
)

// MainWindow is the main UI window implementing ports.PlayerView.
// It handles all UI rendering and user interactions.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All business logic is in the Presenter
// - User interactions are forwarded to the Presenter
//
// PlayerView methods may be called from any goroutine; they hop onto the Fyne
// thread with fyne.Do.
type MainWindow struct {
	app     fyneapp.App
	window  fyneapp.Window
	version string

	// UI components
	prevButton     *widget.Button
	playButton     *widget.Button
	nextButton     *widget.Button
	libraryButton  *widget.Button
	songInfo       *widget.Label
	errorLabel     *widget.Label
	loading        *widget.ProgressBarInfinite
	currentTime    *widget.Label
	endTime        *widget.Label
	progressSlider *widget.Slider
	volumeSlider   *widget.Slider
	themeSelect    *widget.Select
	queueList      *widget.List
	transport      *fyneapp.Container
	sidebar        *fyneapp.Container
	visualizer     *widgets.Visualizer

	// State
	queue      []domain.Track
	themeIDs   []string
	immersive  bool
	rotator    *widgets.Rotator
	rotatorMu  sync.Mutex
	stopScroll chan struct{}
	library    *CatalogWindow
	catalog    ports.Catalog

	// Lifecycle management
	closeOnce sync.Once
	scrollOnce sync.Once

	// Presenter (set after construction)
	presenter *Presenter
}

// NewMainWindow creates a new main window around an embedded visualizer.
// themeIDs are the albums offered in the visualizer menu.
func NewMainWindow(app fyneapp.App, visualizer *widgets.Visualizer, catalog ports.Catalog, themeIDs []string, version string) *MainWindow {
	w := &MainWindow{
		app:        app,
		version:    version,
		visualizer: visualizer,
		catalog:    catalog,
		themeIDs:   themeIDs,
		rotator:    widgets.NewRotator(AppName, titleWidth),
		stopScroll: make(chan struct{}),
	}

	w.window = app.NewWindow(AppName)
	w.buildUI()
	w.window.Resize(fyneapp.NewSize(Width, Height))

	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.wirePresenterHandlers()
	w.addShortcuts()
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI() {
	// Control buttons
	w.prevButton = widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), nil)
	w.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), nil)
	w.nextButton = widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), nil)
	w.libraryButton = widget.NewButtonWithIcon("", theme.ListIcon(), nil)

	// Song info
	w.songInfo = widget.NewLabel(AppName)
	w.songInfo.Truncation = fyneapp.TextTruncateClip
	w.songInfo.TextStyle = fyneapp.TextStyle{Bold: true, Italic: true}
	w.errorLabel = widget.NewLabel("")
	w.errorLabel.Importance = widget.DangerImportance
	w.errorLabel.Hide()
	w.loading = widget.NewProgressBarInfinite()
	w.loading.Stop()
	w.loading.Hide()

	// Volume slider
	w.volumeSlider = widget.NewSlider(0, 1)
	w.volumeSlider.Step = 0.01
	volIcon := widget.NewIcon(theme.VolumeUpIcon())
	volumeHolder := container.NewBorder(nil, nil, volIcon, nil, w.volumeSlider)

	// Button container
	buttonsHBox := container.NewHBox(w.prevButton, w.playButton, w.nextButton, w.libraryButton)
	info := container.NewVBox(w.songInfo, w.errorLabel)
	buttonsHolder := container.NewBorder(nil, nil, buttonsHBox, container.NewGridWrap(fyneapp.NewSize(160, 36), volumeHolder), info)

	// Progress slider
	w.progressSlider = widget.NewSlider(0, 1)
	w.progressSlider.Step = 0.001
	w.currentTime = widget.NewLabel("00:00")
	w.endTime = widget.NewLabel("00:00")
	sliderHolder := container.NewBorder(nil, nil, w.currentTime, w.endTime, w.progressSlider)

	w.transport = container.NewVBox(w.loading, buttonsHolder, sliderHolder)

	// Queue and theme picker
	w.themeSelect = widget.NewSelect(w.themeIDs, nil)
	w.themeSelect.PlaceHolder = "Visualizer"
	w.queueList = widget.NewList(
		func() int { return len(w.queue) },
		func() fyneapp.CanvasObject { return widgets.NewTrackLabel(nil, w.onQueueSecondaryTapped) },
		func(i widget.ListItemID, obj fyneapp.CanvasObject) {
			if label, ok := obj.(*widgets.TrackLabel); ok && i < len(w.queue) {
				label.Set(i, w.queue[i].Title, false)
			}
		},
	)
	clearQueue := widget.NewButtonWithIcon("", theme.ContentClearIcon(), func() {
		if w.presenter != nil {
			w.presenter.OnClearQueue()
		}
	})
	queueHeader := container.NewBorder(nil, nil, nil, clearQueue, widget.NewLabel("Up next"))
	w.sidebar = container.NewGridWrap(fyneapp.NewSize(240, Height-160),
		container.NewBorder(container.NewVBox(w.themeSelect, queueHeader), nil, nil, nil, w.queueList))

	stage := widgets.NewTappableStack(w.visualizer, w.toggleImmersive, nil)

	w.window.SetContent(container.NewBorder(nil, w.transport, nil, w.sidebar, stage))
	w.window.SetMainMenu(fyneapp.NewMainMenu(w.createMenu()...))
}

// wirePresenterHandlers connects UI events to presenter handlers.
func (w *MainWindow) wirePresenterHandlers() {
	if w.presenter == nil {
		return
	}

	w.playButton.OnTapped = w.presenter.OnPlayPauseClicked
	w.nextButton.OnTapped = w.presenter.OnNextClicked
	w.prevButton.OnTapped = w.presenter.OnPreviousClicked
	w.libraryButton.OnTapped = w.showLibrary

	w.volumeSlider.OnChanged = w.presenter.OnVolumeChanged
	w.progressSlider.OnChangeEnded = w.presenter.OnSeekRequested

	w.themeSelect.OnChanged = func(albumID string) {
		_ = w.presenter.OnVisualizerSelected(albumID)
	}
}

func (w *MainWindow) onQueueSecondaryTapped(index int, _ fyneapp.Position) {
	if w.presenter != nil {
		w.presenter.OnRemoveFromQueue(index)
	}
}

func (w *MainWindow) toggleImmersive() {
	if w.presenter == nil {
		return
	}
	w.immersive = !w.immersive
	w.presenter.OnVisualizerToggled(w.immersive)
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyneapp.Menu {
	library := fyneapp.NewMenuItem("Library", w.showLibrary)
	immersive := fyneapp.NewMenuItem("Immersive Visualizer", w.toggleImmersive)
	about := fyneapp.NewMenuItem("About", func() {
		showAboutDialog(w.window, w.version)
	})
	exitMenu := fyneapp.NewMenuItem("Exit", func() {
		w.window.Close()
	})

	return []*fyneapp.Menu{
		fyneapp.NewMenu("File", library, fyneapp.NewMenuItemSeparator(), exitMenu),
		fyneapp.NewMenu("View", immersive),
		fyneapp.NewMenu("Help", about),
	}
}

// showLibrary opens the catalog window, reusing it while it is open.
func (w *MainWindow) showLibrary() {
	if w.presenter == nil || w.catalog == nil {
		return
	}
	if w.library == nil || !w.library.IsVisible() {
		w.library = NewCatalogWindow(w.app, w.presenter.logger, w.presenter, w.catalog)
		w.library.SetOnWindowClosed(func() { w.library = nil })
	}
	w.library.Show()
}

// addShortcuts routes typed keys to the presenter.
func (w *MainWindow) addShortcuts() {
	w.window.Canvas().SetOnTypedKey(func(ev *fyneapp.KeyEvent) {
		key := keyFor(ev.Name)
		if key == domain.KeyUnknown {
			return
		}
		w.presenter.OnKey(key, isTextInput(w.window.Canvas().Focused()))
	})
}

// startScrollInfoRoutine scrolls long titles in the song label.
func (w *MainWindow) startScrollInfoRoutine() {
	go func() {
		ticker := time.NewTicker(scrollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-w.stopScroll:
				return
			case <-ticker.C:
				w.rotatorMu.Lock()
				scrolls := w.rotator.Scrolls()
				text := w.rotator.Rotate()
				w.rotatorMu.Unlock()
				if scrolls {
					fyneapp.Do(func() { w.songInfo.SetText(text) })
				}
			}
		}
	}()
}

// ShowAndRun shows the window, starts the visualizer and runs the application.
func (w *MainWindow) ShowAndRun(ctx context.Context) {
	w.startScrollInfoRoutine()
	if err := w.visualizer.Start(ctx); err != nil && w.presenter != nil {
		w.presenter.logger.Warn("visualizer did not start", slog.Any("error", err))
	}
	w.window.SetOnClosed(func() {
		w.stopScrolling()
		_ = w.visualizer.Stop()
	})
	w.window.ShowAndRun()
}

// Close closes the window and stops the scrolling animation.
// It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		w.stopScrolling()
		w.window.Close()
	})
}

func (w *MainWindow) stopScrolling() {
	w.scrollOnce.Do(func() { close(w.stopScroll) })
}

// Window returns the underlying Fyne window.
func (w *MainWindow) Window() fyneapp.Window {
	return w.window
}

// PlayerView interface implementation

// SetTrackInfo updates the displayed track.
func (w *MainWindow) SetTrackInfo(track *domain.Track) {
	text := AppName
	if track != nil {
		text = track.Title
	}
	w.rotatorMu.Lock()
	w.rotator = widgets.NewRotator(text, titleWidth)
	w.rotatorMu.Unlock()
	fyneapp.Do(func() { w.songInfo.SetText(text) })
}

// SetPlayState updates the play/pause button state.
func (w *MainWindow) SetPlayState(playing bool) {
	icon := theme.MediaPlayIcon()
	if playing {
		icon = theme.MediaPauseIcon()
	}
	fyneapp.Do(func() { w.playButton.SetIcon(icon) })
}

// SetLoading toggles the buffering bar.
func (w *MainWindow) SetLoading(loading bool) {
	fyneapp.Do(func() {
		if loading {
			w.loading.Show()
			w.loading.Start()
		} else {
			w.loading.Stop()
			w.loading.Hide()
		}
	})
}

// SetProgress updates the progress slider and time labels.
func (w *MainWindow) SetProgress(progress, elapsed, duration float64) {
	fyneapp.Do(func() {
		// Assigning Value directly keeps OnChanged from firing a seek.
		w.progressSlider.Value = progress
		w.progressSlider.Refresh()
		w.currentTime.SetText(formatTime(elapsed))
		w.endTime.SetText(formatTime(duration))
	})
}

// SetVolume updates the volume slider.
func (w *MainWindow) SetVolume(volume float64) {
	fyneapp.Do(func() {
		w.volumeSlider.Value = volume
		w.volumeSlider.Refresh()
	})
}

// SetQueue shows the pending tracks.
func (w *MainWindow) SetQueue(queue []domain.Track) {
	queue = append([]domain.Track(nil), queue...)
	fyneapp.Do(func() {
		w.queue = queue
		w.queueList.Refresh()
	})
}

// ShowError shows a message under the title; "" hides it.
func (w *MainWindow) ShowError(message string) {
	fyneapp.Do(func() {
		w.errorLabel.SetText(message)
		if message == "" {
			w.errorLabel.Hide()
		} else {
			w.errorLabel.Show()
		}
	})
}

// SetTransportVisible hides the transport bar and queue for the immersive view.
func (w *MainWindow) SetTransportVisible(visible bool) {
	fyneapp.Do(func() {
		if visible {
			w.transport.Show()
			w.sidebar.Show()
		} else {
			w.transport.Hide()
			w.sidebar.Hide()
		}
	})
}

// SetTheme switches the embedded visualizer.
func (w *MainWindow) SetTheme(albumID string, t domain.VisualizerTheme) {
	if err := w.visualizer.SetTheme(t); err != nil && w.presenter != nil {
		w.presenter.logger.Warn("invalid theme", slog.String("album_id", albumID), slog.Any("error", err))
		return
	}
	fyneapp.Do(func() {
		if w.themeSelect.Selected != albumID {
			// Setting Selected directly keeps OnChanged from republishing.
			w.themeSelect.Selected = albumID
			w.themeSelect.Refresh()
		}
	})
}

// ShowLocked tells the listener why a track cannot be played.
func (w *MainWindow) ShowLocked(track domain.Track, message string) {
	fyneapp.Do(func() { showLockedDialog(w.window, track, message) })
}

// formatTime renders seconds as mm:ss.
func formatTime(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "00:00"
	}
	return fmt.Sprintf("%.2d:%.2d", int(seconds/60), int(math.Mod(seconds, 60)))
}

// Verify PlayerView implementation
var _ ports.PlayerView = (*MainWindow)(nil)
