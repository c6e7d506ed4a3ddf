// Package audius resolves streams and looks up catalog records on the Audius discovery API.
package audius

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

const (
	// DefaultDiscoveryURL is the public discovery node.
	DefaultDiscoveryURL = "https://discoveryprovider.audius.co"

	// DefaultAppName identifies this player to Audius.
	DefaultAppName = "dreamtune"
)

// Config configures the client.
type Config struct {
	// DiscoveryURL is the discovery node base URL
	DiscoveryURL string

	// AppName is sent as app_name on every request
	AppName string

	// ArtistID scopes Albums to one artist; empty lists nothing
	ArtistID string

	// MaxRetries bounds attempts on 429 and 5xx responses
	MaxRetries int

	// Backoff is the first retry delay, doubled on each attempt
	Backoff time.Duration
}

// Client implements ports.Catalog on the Audius discovery API.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	appName    string
	artistID   string

	maxRetries  int
	baseBackoff time.Duration
}

// NewClient creates an Audius client. A nil httpClient uses one with a 15 second timeout.
func NewClient(logger *slog.Logger, httpClient *http.Client, cfg Config) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.DiscoveryURL == "" {
		cfg.DiscoveryURL = DefaultDiscoveryURL
	}
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}
	return &Client{
		logger:      logger.With("component", "audius"),
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(cfg.DiscoveryURL, "/"),
		appName:     cfg.AppName,
		artistID:    cfg.ArtistID,
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.Backoff,
	}
}

// ResolveStreamURL builds the stream URL for a track. It needs no session and
// performs no request; the audio output fetches the URL itself.
func (c *Client) ResolveStreamURL(_ context.Context, streamID string) (string, error) {
	if strings.TrimSpace(streamID) == "" {
		return "", fmt.Errorf("%w: empty stream id", domain.ErrStreamUnavailable)
	}
	return fmt.Sprintf("%s/v1/tracks/%s/stream?app_name=%s",
		c.baseURL, url.PathEscape(streamID), url.QueryEscape(c.appName)), nil
}

// Track fetches one track.
func (c *Client) Track(ctx context.Context, id string) (domain.Track, error) {
	var resp trackResponse
	if err := c.get(ctx, "track", id, "/v1/tracks/"+url.PathEscape(id), nil, domain.ErrTrackNotFound, &resp); err != nil {
		return domain.Track{}, err
	}
	if resp.Data == nil {
		return domain.Track{}, domain.NewCatalogError("track", id, 0, domain.ErrTrackNotFound)
	}
	return normalizeTrack(*resp.Data), nil
}

// Album fetches a playlist or album together with its tracks.
func (c *Client) Album(ctx context.Context, id string) (domain.Playlist, error) {
	path := "/v1/playlists/" + url.PathEscape(id)

	var resp playlistResponse
	if err := c.get(ctx, "playlist", id, path, nil, domain.ErrAlbumNotFound, &resp); err != nil {
		return domain.Playlist{}, err
	}
	if len(resp.Data) == 0 {
		return domain.Playlist{}, domain.NewCatalogError("playlist", id, 0, domain.ErrAlbumNotFound)
	}

	var tracks tracksResponse
	if err := c.get(ctx, "playlist_tracks", id, path+"/tracks", nil, domain.ErrAlbumNotFound, &tracks); err != nil {
		return domain.Playlist{}, err
	}
	return normalizePlaylist(resp.Data[0], normalizeTracks(tracks.Data)), nil
}

// Albums lists the configured artist's albums without their tracks.
func (c *Client) Albums(ctx context.Context) ([]domain.Playlist, error) {
	if c.artistID == "" {
		return nil, nil
	}
	var resp playlistsResponse
	path := "/v1/users/" + url.PathEscape(c.artistID) + "/albums"
	if err := c.get(ctx, "albums", c.artistID, path, nil, domain.ErrArtistNotFound, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Playlist, 0, len(resp.Data))
	for _, p := range resp.Data {
		out = append(out, normalizePlaylist(p, nil))
	}
	return out, nil
}

// Artist fetches an artist profile.
func (c *Client) Artist(ctx context.Context, id string) (domain.Artist, error) {
	var resp userResponse
	if err := c.get(ctx, "artist", id, "/v1/users/"+url.PathEscape(id), nil, domain.ErrArtistNotFound, &resp); err != nil {
		return domain.Artist{}, err
	}
	if resp.Data == nil {
		return domain.Artist{}, domain.NewCatalogError("artist", id, 0, domain.ErrArtistNotFound)
	}
	return normalizeArtist(*resp.Data), nil
}

// ArtistTracks pages through an artist's tracks.
func (c *Client) ArtistTracks(ctx context.Context, userID string, limit, offset int) ([]domain.Track, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var resp tracksResponse
	path := "/v1/users/" + url.PathEscape(userID) + "/tracks"
	if err := c.get(ctx, "artist_tracks", userID, path, q, domain.ErrArtistNotFound, &resp); err != nil {
		return nil, err
	}
	return normalizeTracks(resp.Data), nil
}

// TrendingTracks returns an artist's most played tracks, highest first.
func (c *Client) TrendingTracks(ctx context.Context, userID string, limit int) ([]domain.Track, error) {
	tracks, err := c.ArtistTracks(ctx, userID, 100, 0)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(tracks, func(a, b domain.Track) int {
		return cmp.Compare(b.PlayCount, a.PlayCount)
	})
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

// SearchTracks runs a free-text track search.
func (c *Client) SearchTracks(ctx context.Context, query string) ([]domain.Track, error) {
	q := url.Values{}
	q.Set("query", query)

	var resp tracksResponse
	if err := c.get(ctx, "search", query, "/v1/tracks/search", q, domain.ErrTrackNotFound, &resp); err != nil {
		return nil, err
	}
	return normalizeTracks(resp.Data), nil
}

// get performs a GET and decodes the JSON body into out.
// A 404 becomes a CatalogError wrapping notFound.
func (c *Client) get(ctx context.Context, op, id, path string, query url.Values, notFound error, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("app_name", c.appName)
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.NewCatalogError(op, id, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return domain.NewCatalogError(op, id, 0, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.NewCatalogError(op, id, resp.StatusCode, notFound)
	case resp.StatusCode != http.StatusOK:
		return domain.NewCatalogError(op, id, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewCatalogError(op, id, 0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

var _ ports.Catalog = (*Client)(nil)
