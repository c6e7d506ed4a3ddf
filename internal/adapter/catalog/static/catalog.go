// Package static serves catalogs compiled into the binary: the Dreampeace
// ambient albums with their visualizer themes and a display catalog whose
// tracks stream placeholder audio from another source.
package static

import (
	"context"
	"fmt"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// Catalog implements ports.Catalog over fixed album tables.
// Stream resolution is delegated, since the tables only carry stream identifiers.
//
// Thread-safety: Read-only after construction.
type Catalog struct {
	albums   []domain.Playlist
	byAlbum  map[string]int
	tracks   map[string]domain.Track
	resolver ports.StreamResolver
}

// New builds a catalog over albums. resolver may be nil, in which case
// ResolveStreamURL fails with domain.ErrStreamUnavailable.
func New(resolver ports.StreamResolver, albums ...domain.Playlist) *Catalog {
	c := &Catalog{
		albums:   albums,
		byAlbum:  make(map[string]int, len(albums)),
		tracks:   make(map[string]domain.Track),
		resolver: resolver,
	}
	for i, a := range albums {
		c.byAlbum[a.ID] = i
		for _, t := range a.Tracks {
			c.tracks[t.ID] = t
		}
	}
	return c
}

// ResolveStreamURL delegates to the configured resolver.
func (c *Catalog) ResolveStreamURL(ctx context.Context, streamID string) (string, error) {
	if c.resolver == nil {
		return "", fmt.Errorf("%w: no resolver for %q", domain.ErrStreamUnavailable, streamID)
	}
	return c.resolver.ResolveStreamURL(ctx, streamID)
}

// Track returns a track by display ID.
func (c *Catalog) Track(_ context.Context, id string) (domain.Track, error) {
	t, ok := c.tracks[id]
	if !ok {
		return domain.Track{}, fmt.Errorf("%w: %s", domain.ErrTrackNotFound, id)
	}
	return t, nil
}

// Album returns an album with its tracks.
func (c *Catalog) Album(_ context.Context, id string) (domain.Playlist, error) {
	i, ok := c.byAlbum[id]
	if !ok {
		return domain.Playlist{}, fmt.Errorf("%w: %s", domain.ErrAlbumNotFound, id)
	}
	return cloneAlbum(c.albums[i]), nil
}

// Albums lists every album in table order.
func (c *Catalog) Albums(_ context.Context) ([]domain.Playlist, error) {
	out := make([]domain.Playlist, len(c.albums))
	for i, a := range c.albums {
		out[i] = cloneAlbum(a)
	}
	return out, nil
}

// Tracks lists every track across all albums.
func (c *Catalog) Tracks() []domain.Track {
	var out []domain.Track
	for _, a := range c.albums {
		out = append(out, a.Tracks...)
	}
	return out
}

func cloneAlbum(a domain.Playlist) domain.Playlist {
	a.Tracks = append([]domain.Track(nil), a.Tracks...)
	return a
}

func strPtr(s string) *string {
	return &s
}

var _ ports.Catalog = (*Catalog)(nil)
