package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/logger"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not really audio, just bytes for the scanner"), 0o600))
}

func newTestLibrary(t *testing.T) (string, *Catalog) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Ghost", "02 Heart Baby.mp3"))
	writeFile(t, filepath.Join(root, "Ghost", "01 Fly.mp3"))
	writeFile(t, filepath.Join(root, "Ki", "Coast.wav"))
	writeFile(t, filepath.Join(root, "Ki", "cover.jpg"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	return root, New(logger.NewTestLogger(), root)
}

func TestIsFormatSupported(t *testing.T) {
	assert.True(t, IsFormatSupported("a/b.MP3"))
	assert.True(t, IsFormatSupported("b.wav"))
	assert.False(t, IsFormatSupported("b.flac"))
	assert.False(t, IsFormatSupported("cover.jpg"))
}

func TestScan_GroupsByDirectoryWithoutTags(t *testing.T) {
	_, c := newTestLibrary(t)

	n, err := c.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	albums, err := c.Albums(context.Background())
	require.NoError(t, err)
	require.Len(t, albums, 2)
	assert.Equal(t, "Ghost", albums[0].Name)
	assert.Equal(t, 2, albums[0].TrackCount)
	assert.Equal(t, "01 Fly", albums[0].Tracks[0].Title)
	assert.Equal(t, "Ki", albums[1].Name)

	album, err := c.Album(context.Background(), albums[1].ID)
	require.NoError(t, err)
	require.Len(t, album.Tracks, 1)
	assert.Equal(t, "Coast", album.Tracks[0].Title)
}

func TestScan_StableIDs(t *testing.T) {
	_, c := newTestLibrary(t)
	_, err := c.Scan(context.Background())
	require.NoError(t, err)
	first, _ := c.Albums(context.Background())

	_, err = c.Scan(context.Background())
	require.NoError(t, err)
	second, _ := c.Albums(context.Background())

	assert.Equal(t, first[0].Tracks[0].ID, second[0].Tracks[0].ID)
	assert.True(t, strings.HasPrefix(first[0].Tracks[0].ID, "local-"))
}

func TestTrackAndStream(t *testing.T) {
	root, c := newTestLibrary(t)
	_, err := c.Scan(context.Background())
	require.NoError(t, err)

	albums, _ := c.Albums(context.Background())
	want := albums[1].Tracks[0]

	track, err := c.Track(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Ki", "Coast.wav"), track.StreamKey())

	u, err := c.ResolveStreamURL(context.Background(), track.StreamKey())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file://"))
	assert.True(t, strings.HasSuffix(u, "/Ki/Coast.wav"))

	_, err = c.Track(context.Background(), "local-missing")
	assert.ErrorIs(t, err, domain.ErrTrackNotFound)
	_, err = c.Album(context.Background(), "album-missing")
	assert.ErrorIs(t, err, domain.ErrAlbumNotFound)
}

func TestResolveStreamURL_Missing(t *testing.T) {
	root, c := newTestLibrary(t)

	_, err := c.ResolveStreamURL(context.Background(), filepath.Join(root, "gone.mp3"))
	assert.ErrorIs(t, err, domain.ErrStreamUnavailable)

	_, err = c.ResolveStreamURL(context.Background(), root)
	assert.ErrorIs(t, err, domain.ErrStreamUnavailable)
}

func TestScan_Errors(t *testing.T) {
	c := New(logger.NewTestLogger(), filepath.Join(t.TempDir(), "nope"))
	_, err := c.Scan(context.Background())
	var catErr *domain.CatalogError
	assert.ErrorAs(t, err, &catErr)

	_, lib := newTestLibrary(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = lib.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
