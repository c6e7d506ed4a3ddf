package audius

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/logger"
)

func newTestClient(t *testing.T, handler http.Handler, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.DiscoveryURL = srv.URL + "/"
	if cfg.Backoff == 0 {
		cfg.Backoff = time.Millisecond
	}
	return NewClient(logger.NewTestLogger(), srv.Client(), cfg)
}

func TestResolveStreamURL(t *testing.T) {
	c := NewClient(logger.NewTestLogger(), nil, Config{AppName: "dream tune"})

	got, err := c.ResolveStreamURL(context.Background(), "bbzxO")
	require.NoError(t, err)
	assert.Equal(t, "https://discoveryprovider.audius.co/v1/tracks/bbzxO/stream?app_name=dream+tune", got)

	_, err = c.ResolveStreamURL(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrStreamUnavailable)
}

func TestTrack(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/tracks/abc", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dreamtune", r.URL.Query().Get("app_name"))
		_, _ = w.Write([]byte(`{"data":{"id":"abc","title":"Seventh Wave","duration":410,
			"artwork":{"150x150":"s.jpg","480x480":"m.jpg"},"genre":"Metal","mood":"",
			"play_count":12,"release_date":"1997-01-01"}}`))
	})
	c := newTestClient(t, mux, Config{})

	track, err := c.Track(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", track.ID)
	assert.Equal(t, "abc", track.StreamKey())
	assert.Equal(t, "Seventh Wave", track.Title)
	assert.Equal(t, 410, track.Duration)
	require.NotNil(t, track.Artwork)
	assert.Equal(t, "m.jpg", *track.Artwork)
	assert.Nil(t, track.Mood)
	assert.Nil(t, track.Description)
	assert.Equal(t, 12, track.PlayCount)
}

func TestTrack_NotFound(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler(), Config{})

	_, err := c.Track(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrTrackNotFound)

	var catErr *domain.CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, http.StatusNotFound, catErr.Status)
	assert.Equal(t, "missing", catErr.ID)
}

func TestTrack_EmptyData(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	}), Config{})

	_, err := c.Track(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrTrackNotFound)
}

func TestAlbum(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/playlists/p1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"p1","playlist_name":"Ghost","is_album":true}]}`))
	})
	mux.HandleFunc("/v1/playlists/p1/tracks", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"a","title":"Fly"},{"id":"b","title":"Heart Baby"}]}`))
	})
	c := newTestClient(t, mux, Config{})

	album, err := c.Album(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Ghost", album.Name)
	assert.True(t, album.IsAlbum)
	assert.Equal(t, 2, album.TrackCount)
	require.Len(t, album.Tracks, 2)
	assert.Equal(t, "Heart Baby", album.Tracks[1].Title)
}

func TestAlbums(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/u1/albums", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"p1","playlist_name":"Ki","track_count":13,"is_album":true}]}`))
	})

	c := newTestClient(t, mux, Config{ArtistID: "u1"})
	albums, err := c.Albums(context.Background())
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, 13, albums[0].TrackCount)

	none := newTestClient(t, mux, Config{})
	albums, err = none.Albums(context.Background())
	require.NoError(t, err)
	assert.Empty(t, albums)
}

func TestArtist(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/u1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"u1","handle":"devintownsend","name":"Devin Townsend",
			"profile_picture":{"150x150":"p.jpg"},"cover_photo":{"640x":"c.jpg"},"follower_count":9}}`))
	})
	c := newTestClient(t, mux, Config{})

	artist, err := c.Artist(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "devintownsend", artist.Handle)
	require.NotNil(t, artist.ProfileImage)
	assert.Equal(t, "p.jpg", *artist.ProfileImage)
	require.NotNil(t, artist.CoverImage)
	assert.Equal(t, "c.jpg", *artist.CoverImage)

	_, err = c.Artist(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrArtistNotFound)
}

func TestTrendingTracks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/u1/tracks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"data":[{"id":"a","play_count":5},{"id":"b","play_count":50},{"id":"c","play_count":20}]}`))
	})
	c := newTestClient(t, mux, Config{})

	tracks, err := c.TrendingTracks(context.Background(), "u1", 2)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "b", tracks[0].ID)
	assert.Equal(t, "c", tracks[1].ID)
}

func TestSearchTracks(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tracks/search", r.URL.Path)
		assert.Equal(t, "ocean", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"data":[{"id":"a","title":"The Ocean"}]}`))
	}), Config{})

	tracks, err := c.SearchTracks(context.Background(), "ocean")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "The Ocean", tracks[0].Title)
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"id":"abc","title":"Life"}}`))
	}), Config{MaxRetries: 3})

	track, err := c.Track(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Life", track.Title)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}), Config{MaxRetries: 2})

	_, err := c.Track(context.Background(), "abc")
	var catErr *domain.CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, http.StatusTooManyRequests, catErr.Status)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}), Config{})

	_, err := c.Track(context.Background(), "abc")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}), Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Track(ctx, "abc")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.Zero(t, parseRetryAfter(resp))

	resp.Header.Set("Retry-After", "2")
	assert.Equal(t, 2*time.Second, parseRetryAfter(resp))

	resp.Header.Set("Retry-After", "soon")
	assert.Zero(t, parseRetryAfter(resp))
}
