package fyne

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/dreamtune/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// catalogTimeout bounds one catalog request made from the UI.
const catalogTimeout = 15 * time.Second

// CatalogWindow browses the catalog's albums with search.
// Double tapping a track plays the album from that track, a secondary tap
// queues it, and the album button plays the whole album.
type CatalogWindow struct {
	window      fyneapp.Window
	logger      *slog.Logger
	albumSelect *widget.Select
	playAlbum   *widget.Button
	list        *widget.List
	searchEntry *widget.Entry

	// Data state
	albums []domain.Playlist
	album  domain.Playlist
	data   []domain.Track // Filtered view (shown in the list)
	locked map[string]bool

	// Dependencies
	presenter *Presenter
	catalog   ports.Catalog

	// Lifecycle
	onWindowClosed func()
	isVisible      bool
}

// NewCatalogWindow creates the catalog window and loads the album list.
func NewCatalogWindow(app fyneapp.App, logger *slog.Logger, presenter *Presenter, catalog ports.Catalog) *CatalogWindow {
	w := &CatalogWindow{
		logger:    logger.With("component", "catalog_window"),
		presenter: presenter,
		catalog:   catalog,
		locked:    make(map[string]bool),
	}

	w.window = app.NewWindow("Library")
	w.window.Resize(fyneapp.NewSize(500, 600))

	w.buildUI()

	w.window.SetOnClosed(func() {
		w.isVisible = false
		if w.onWindowClosed != nil {
			w.onWindowClosed()
		}
	})

	w.loadAlbums()
	return w
}

// buildUI constructs the catalog window UI layout.
func (w *CatalogWindow) buildUI() {
	w.searchEntry = widget.NewEntry()
	w.searchEntry.SetPlaceHolder("Search...")
	w.searchEntry.OnChanged = func(query string) {
		w.searchCollection(query)
	}

	w.albumSelect = widget.NewSelect(nil, func(name string) {
		w.selectAlbum(name)
	})
	w.playAlbum = widget.NewButton("Play album", func() {
		w.onPlayAlbum()
	})

	w.list = widget.NewList(
		func() int {
			return len(w.data)
		},
		func() fyneapp.CanvasObject {
			return widgets.NewTrackLabel(w.onCellDoubleTapped, w.onCellSecondaryTapped)
		},
		func(i widget.ListItemID, obj fyneapp.CanvasObject) {
			w.updateCell(i, obj)
		},
	)

	top := container.NewVBox(
		container.NewBorder(nil, nil, nil, w.playAlbum, w.albumSelect),
		w.searchEntry,
	)
	w.window.SetContent(container.NewBorder(top, nil, nil, nil, w.list))
}

// updateCell updates a list cell with track information.
func (w *CatalogWindow) updateCell(i widget.ListItemID, obj fyneapp.CanvasObject) {
	label, ok := obj.(*widgets.TrackLabel)
	if !ok || i < 0 || i >= len(w.data) {
		return
	}
	track := w.data[i]
	label.Set(i, trackText(track), w.locked[track.ID])
}

func (w *CatalogWindow) onCellDoubleTapped(index int) {
	if index < 0 || index >= len(w.data) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
	defer cancel()
	w.report("play track", w.presenter.OnAlbumTrackSelected(ctx, w.album, albumIndex(w.album, w.data[index].ID)))
}

func (w *CatalogWindow) onCellSecondaryTapped(index int, _ fyneapp.Position) {
	if index < 0 || index >= len(w.data) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
	defer cancel()
	w.report("queue track", w.presenter.OnQueueTrack(ctx, w.data[index]))
}

func (w *CatalogWindow) onPlayAlbum() {
	if len(w.album.Tracks) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
	defer cancel()
	w.report("play album", w.presenter.OnAlbumSelected(ctx, w.album))
}

// report logs a failed command. Locks are already shown through the view.
func (w *CatalogWindow) report(op string, err error) {
	if err == nil || errors.Is(err, domain.ErrAccessDenied) {
		return
	}
	w.logger.Warn("catalog command failed", slog.String("op", op), slog.Any("error", err))
}

// albumIndex finds a track's position in the album, -1 if it is not there.
func albumIndex(album domain.Playlist, trackID string) int {
	for i, t := range album.Tracks {
		if t.ID == trackID {
			return i
		}
	}
	return -1
}

// loadAlbums fetches the album list off the UI thread.
func (w *CatalogWindow) loadAlbums() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()

		albums, err := w.catalog.Albums(ctx)
		if err != nil {
			w.logger.Error("failed to load albums", slog.Any("error", err))
			return
		}
		locked := w.lockedTracks(ctx, albums)

		fyneapp.Do(func() {
			w.albums = albums
			w.locked = locked
			names := make([]string, 0, len(albums))
			for _, a := range albums {
				names = append(names, a.Name)
			}
			w.albumSelect.Options = names
			w.albumSelect.Refresh()
			if len(names) > 0 {
				w.albumSelect.SetSelected(names[0])
			}
		})
	}()
}

func (w *CatalogWindow) lockedTracks(ctx context.Context, albums []domain.Playlist) map[string]bool {
	session := w.presenter.Session()
	locked := make(map[string]bool)
	for _, a := range albums {
		for _, t := range a.Tracks {
			if ok, _ := w.presenter.access.CanPlay(ctx, session, t.ID); !ok {
				locked[t.ID] = true
			}
		}
	}
	return locked
}

// selectAlbum shows the album's tracks, reapplying the search filter.
func (w *CatalogWindow) selectAlbum(name string) {
	for _, a := range w.albums {
		if a.Name == name {
			w.album = a
			break
		}
	}
	w.searchCollection(w.searchEntry.Text)
}

// searchCollection filters the album based on the search query.
func (w *CatalogWindow) searchCollection(query string) {
	w.data = filterTracks(w.album.Tracks, query)
	w.updateWindowTitle()
	w.list.Refresh()
}

// filterTracks keeps the tracks whose title, genre or mood contain query.
func filterTracks(tracks []domain.Track, query string) []domain.Track {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return tracks
	}
	filtered := make([]domain.Track, 0)
	for _, track := range tracks {
		if matchesSearch(track, query) {
			filtered = append(filtered, track)
		}
	}
	return filtered
}

func matchesSearch(track domain.Track, query string) bool {
	if strings.Contains(strings.ToLower(track.Title), query) {
		return true
	}
	for _, s := range []*string{track.Genre, track.Mood} {
		if s != nil && strings.Contains(strings.ToLower(*s), query) {
			return true
		}
	}
	return false
}

func trackText(track domain.Track) string {
	if track.Duration <= 0 {
		return track.Title
	}
	return fmt.Sprintf("%s  (%s)", track.Title, formatTime(float64(track.Duration)))
}

// updateWindowTitle updates the window title with the track count.
func (w *CatalogWindow) updateWindowTitle() {
	title := "Library"
	if w.album.Name != "" {
		title = fmt.Sprintf("%s (%d tracks)", w.album.Name, len(w.data))
	}
	w.window.SetTitle(title)
}

// Show displays the catalog window.
func (w *CatalogWindow) Show() {
	w.isVisible = true
	w.window.Show()
}

// Close closes the catalog window.
func (w *CatalogWindow) Close() {
	w.isVisible = false
	w.window.Close()
}

// IsVisible returns whether the window is currently visible.
func (w *CatalogWindow) IsVisible() bool {
	return w.isVisible
}

// SetOnWindowClosed sets a callback to be invoked when the window is closed.
func (w *CatalogWindow) SetOnWindowClosed(callback func()) {
	w.onWindowClosed = callback
}
