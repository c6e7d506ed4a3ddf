package ports

import (
	"context"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// StreamResolver turns a stream identifier into a playable URL.
// It must be callable per track without prior session state.
type StreamResolver interface {
	ResolveStreamURL(ctx context.Context, streamID string) (string, error)
}

// Catalog looks up tracks and albums.
type Catalog interface {
	StreamResolver

	// Track returns one track, or domain.ErrTrackNotFound.
	Track(ctx context.Context, id string) (domain.Track, error)

	// Album returns one album with its tracks, or domain.ErrAlbumNotFound.
	Album(ctx context.Context, id string) (domain.Playlist, error)

	// Albums lists the albums the catalog knows about.
	Albums(ctx context.Context) ([]domain.Playlist, error)
}

// ThemeLookup returns the static visualizer theme for an album.
type ThemeLookup interface {
	// ThemeFor returns the theme, or domain.ErrThemeNotFound.
	ThemeFor(albumID string) (domain.VisualizerTheme, error)
}
