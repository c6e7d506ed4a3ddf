package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/dreamtune/internal/adapter/ui/ebiten"
	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// Ambient plays one album behind a full-window visualizer.
type Ambient struct {
	*core

	album domain.Playlist
	game  *ebiten.Game

	shutdownOnce sync.Once
}

// NewAmbient wires the playback core to an ebiten window for albumID.
// An empty albumID uses the saved visualizer album.
func NewAmbient(ctx context.Context, config Config, albumID string) (*Ambient, error) {
	logger := config.Logger()
	c, err := newCore(ctx, config, logger, "ambient", nil)
	if err != nil {
		return nil, err
	}

	if albumID == "" {
		albumID = c.initialAlbum()
	}
	album, err := c.catalog.Album(ctx, albumID)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("load album %s: %w", albumID, err)
	}
	if theme, err := c.themes.ThemeFor(albumID); err == nil {
		if err := c.renderer.SetTheme(theme); err != nil {
			logger.Warn("failed to apply theme", slog.String("album_id", albumID), slog.Any("error", err))
		}
		c.bus.Publish(domain.NewThemeChangedEvent(albumID, theme))
	}

	a := &Ambient{core: c, album: album}
	a.game = ebiten.NewGame(logger, c.renderer, a.handleKey, a.caption)
	return a, nil
}

// Run starts the album and blocks until the window closes.
func (a *Ambient) Run(ctx context.Context) error {
	session := a.config.Session()
	playable := make([]domain.Track, 0, len(a.album.Tracks))
	for _, t := range a.album.Tracks {
		if ok, _ := a.access.CanPlay(ctx, session, t.ID); ok {
			playable = append(playable, t)
		}
	}
	if len(playable) == 0 {
		a.logger.Warn("nothing playable on album, showing visuals only",
			slog.String("album_id", a.album.ID),
			slog.Int("tracks", len(a.album.Tracks)))
	} else {
		a.analyzer.ResumeAudioContext()
		a.store.PlayAll(playable)
	}

	return a.game.Run(a.album.Name)
}

// handleKey is the ebiten key callback. Space also counts as a playback gesture.
func (a *Ambient) handleKey(key domain.Key) bool {
	if key == domain.KeySpace {
		a.analyzer.ResumeAudioContext()
	}
	return a.bridge.HandleKey(key, false)
}

// caption shows the album and what is playing.
func (a *Ambient) caption() string {
	state := a.store.State()
	if state.CurrentTrack == nil {
		return a.album.Name
	}
	text := fmt.Sprintf("%s\n%s", a.album.Name, state.CurrentTrack.Title)
	if state.Error != "" {
		text += "\n" + state.Error
	}
	return text
}

// Shutdown releases the core. It's safe to call multiple times.
func (a *Ambient) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.game.Quit()
		a.core.close()
	})
	return nil
}
