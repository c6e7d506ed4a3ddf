// Package stream decodes audio sources with beep and exposes them through a
// media-element style output that any sample sink can drain.
package stream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// DefaultMaxDownload bounds how much of a remote stream is buffered.
const DefaultMaxDownload = 256 << 20

type codec int

const (
	codecUnknown codec = iota
	codecMP3
	codecWAV
)

// Source is one decoded, seekable audio source.
type Source struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
}

// Format returns the decoded format.
func (s *Source) Format() beep.Format {
	return s.format
}

// Duration returns the length in seconds.
func (s *Source) Duration() float64 {
	return s.format.SampleRate.D(s.streamer.Len()).Seconds()
}

// Close releases the decoder and its input.
func (s *Source) Close() error {
	return s.streamer.Close()
}

// Loader opens sources from file and http(s) URLs.
type Loader struct {
	client   *http.Client
	maxBytes int64
}

// NewLoader creates a loader. A nil client uses one with a 60 second timeout.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Loader{client: client, maxBytes: DefaultMaxDownload}
}

// Open fetches and decodes rawURL.
// Remote sources are buffered in memory so they can be seeked.
func (l *Loader) Open(ctx context.Context, rawURL string) (*Source, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, domain.NewAudioOutputError("load", rawURL, "invalid url", err)
	}

	switch u.Scheme {
	case "file", "":
		return l.openFile(u.Path, rawURL)
	case "http", "https":
		return l.openRemote(ctx, rawURL, u)
	default:
		return nil, domain.NewAudioOutputError("load", rawURL, "unsupported scheme "+u.Scheme, domain.ErrUnsupportedFormat)
	}
}

func (l *Loader) openFile(p, rawURL string) (*Source, error) {
	kind := codecFromExt(p)
	if kind == codecUnknown {
		return nil, domain.NewAudioOutputError("load", rawURL, "unknown container", domain.ErrUnsupportedFormat)
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, domain.NewAudioOutputError("load", rawURL, "cannot open file", err)
	}
	src, err := decode(f, kind)
	if err != nil {
		_ = f.Close()
		return nil, domain.NewAudioOutputError("decode", rawURL, "cannot decode", err)
	}
	return src, nil
}

func (l *Loader) openRemote(ctx context.Context, rawURL string, u *url.URL) (*Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, domain.NewAudioOutputError("load", rawURL, "bad request", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, domain.NewAudioOutputError("load", rawURL, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewAudioOutputError("load", rawURL,
			fmt.Sprintf("status %d", resp.StatusCode), domain.ErrStreamUnavailable)
	}

	kind := codecFromExt(u.Path)
	if kind == codecUnknown {
		kind = codecFromContentType(resp.Header.Get("Content-Type"))
	}
	if kind == codecUnknown {
		// Stream endpoints without an extension serve mp3.
		kind = codecMP3
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, domain.NewAudioOutputError("load", rawURL, "download interrupted", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, domain.NewAudioOutputError("load", rawURL, "stream too large", domain.ErrStreamUnavailable)
	}

	src, err := decode(&memoryFile{Reader: bytes.NewReader(data)}, kind)
	if err != nil {
		return nil, domain.NewAudioOutputError("decode", rawURL, "cannot decode", err)
	}
	return src, nil
}

func decode(rc io.ReadCloser, kind codec) (*Source, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch kind {
	case codecMP3:
		s, format, err = mp3.Decode(rc)
	case codecWAV:
		s, format, err = wav.Decode(rc)
	default:
		return nil, domain.ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return &Source{streamer: s, format: format}, nil
}

func codecFromExt(p string) codec {
	switch strings.ToLower(path.Ext(p)) {
	case ".mp3":
		return codecMP3
	case ".wav", ".wave":
		return codecWAV
	default:
		return codecUnknown
	}
}

func codecFromContentType(ct string) codec {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return codecUnknown
	}
	switch mediaType {
	case "audio/mpeg", "audio/mp3":
		return codecMP3
	case "audio/wav", "audio/wave", "audio/x-wav", "audio/vnd.wave":
		return codecWAV
	default:
		return codecUnknown
	}
}

// memoryFile is a seekable in-memory body.
type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func secondsToDuration(s float64) time.Duration {
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
