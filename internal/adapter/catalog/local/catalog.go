// Package local serves a catalog built from audio files in a directory tree.
package local

import (
	"cmp"
	"context"
	"crypto/sha1" // nolint:gosec // G505: identifiers only, not security
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dhowden/tag"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// supportedExts are the containers the stream decoder can play.
var supportedExts = []string{".mp3", ".wav"}

// Catalog implements ports.Catalog over a music directory.
// Tracks stream from their file path; albums group tracks by album tag,
// falling back to the containing directory.
//
// Thread-safety: All methods are thread-safe. Scan replaces the index atomically.
type Catalog struct {
	logger *slog.Logger
	root   string

	mu      sync.RWMutex
	tracks  map[string]domain.Track
	albums  []domain.Playlist
	byAlbum map[string]int
}

// New creates an empty catalog rooted at dir. Call Scan to index it.
func New(logger *slog.Logger, dir string) *Catalog {
	return &Catalog{
		logger:  logger.With("component", "local_catalog"),
		root:    dir,
		tracks:  make(map[string]domain.Track),
		byAlbum: make(map[string]int),
	}
}

// IsFormatSupported reports whether a file can be played.
func IsFormatSupported(path string) bool {
	return slices.Contains(supportedExts, strings.ToLower(filepath.Ext(path)))
}

type scanned struct {
	track   domain.Track
	album   string
	number  int
	artwork bool
}

// Scan walks the directory and rebuilds the index. Files whose tags cannot be
// read are still listed under their file name.
func (c *Catalog) Scan(ctx context.Context) (int, error) {
	var found []scanned
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !IsFormatSupported(path) {
			return nil
		}
		found = append(found, c.readFile(path))
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		return 0, domain.NewCatalogError("scan", c.root, 0, err)
	}

	c.index(found)
	c.logger.Info("library scanned", slog.String("root", c.root), slog.Int("tracks", len(found)))
	return len(found), nil
}

func (c *Catalog) readFile(path string) scanned {
	base := filepath.Base(path)
	s := scanned{
		track: domain.Track{
			ID:       trackID(path),
			StreamID: path,
			Title:    strings.TrimSuffix(base, filepath.Ext(base)),
		},
		album: filepath.Base(filepath.Dir(path)),
	}

	file, err := os.Open(path)
	if err != nil {
		c.logger.Debug("cannot open file", slog.String("path", path), slog.Any("error", err))
		return s
	}
	defer file.Close()

	metadata, err := tag.ReadFrom(file)
	if err != nil || metadata == nil {
		return s
	}

	if title := strings.TrimSpace(metadata.Title()); title != "" {
		s.track.Title = title
	}
	if album := strings.TrimSpace(metadata.Album()); album != "" {
		s.album = album
	}
	if genre := strings.TrimSpace(metadata.Genre()); genre != "" {
		s.track.Genre = &genre
	}
	if year := metadata.Year(); year > 0 {
		date := fmt.Sprintf("%04d-01-01", year)
		s.track.ReleaseDate = &date
	}
	if comment := strings.TrimSpace(metadata.Comment()); comment != "" {
		s.track.Description = &comment
	}
	s.number, _ = metadata.Track()
	s.artwork = metadata.Picture() != nil
	return s
}

func (c *Catalog) index(found []scanned) {
	slices.SortStableFunc(found, func(a, b scanned) int {
		if n := cmp.Compare(a.album, b.album); n != 0 {
			return n
		}
		if n := cmp.Compare(a.number, b.number); n != 0 {
			return n
		}
		return cmp.Compare(a.track.Title, b.track.Title)
	})

	tracks := make(map[string]domain.Track, len(found))
	byAlbum := make(map[string]int)
	var albums []domain.Playlist
	for _, s := range found {
		tracks[s.track.ID] = s.track
		id := albumID(s.album)
		i, ok := byAlbum[id]
		if !ok {
			i = len(albums)
			byAlbum[id] = i
			albums = append(albums, domain.Playlist{ID: id, Name: s.album, IsAlbum: true})
		}
		albums[i].Tracks = append(albums[i].Tracks, s.track)
		albums[i].TrackCount++
	}

	c.mu.Lock()
	c.tracks = tracks
	c.albums = albums
	c.byAlbum = byAlbum
	c.mu.Unlock()
}

// ResolveStreamURL returns a file URL for a track path inside the library.
func (c *Catalog) ResolveStreamURL(_ context.Context, streamID string) (string, error) {
	info, err := os.Stat(streamID)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", domain.ErrStreamUnavailable, streamID)
	}
	abs, err := filepath.Abs(streamID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStreamUnavailable, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// Track returns an indexed track.
func (c *Catalog) Track(_ context.Context, id string) (domain.Track, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tracks[id]
	if !ok {
		return domain.Track{}, fmt.Errorf("%w: %s", domain.ErrTrackNotFound, id)
	}
	return t, nil
}

// Album returns an indexed album with its tracks.
func (c *Catalog) Album(_ context.Context, id string) (domain.Playlist, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byAlbum[id]
	if !ok {
		return domain.Playlist{}, fmt.Errorf("%w: %s", domain.ErrAlbumNotFound, id)
	}
	a := c.albums[i]
	a.Tracks = slices.Clone(a.Tracks)
	return a, nil
}

// Albums lists albums by name.
func (c *Catalog) Albums(_ context.Context) ([]domain.Playlist, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Playlist, len(c.albums))
	for i, a := range c.albums {
		a.Tracks = slices.Clone(a.Tracks)
		out[i] = a
	}
	return out, nil
}

// trackID derives a stable identifier from the file path so rules and
// listens survive rescans.
func trackID(path string) string {
	sum := sha1.Sum([]byte(filepath.Clean(path))) // nolint:gosec // G401
	return "local-" + hex.EncodeToString(sum[:6])
}

func albumID(name string) string {
	sum := sha1.Sum([]byte(strings.ToLower(name))) // nolint:gosec // G401
	return "album-" + hex.EncodeToString(sum[:6])
}

var _ ports.Catalog = (*Catalog)(nil)
