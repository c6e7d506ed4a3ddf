package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"github.com/caarlos0/env/v11"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/logger"
)

// envPrefix is prepended to every variable name.
const envPrefix = "DREAMTUNE_"

// Audio outputs
const (
	OutputDevice = "oto"
	OutputMock   = "mock"
)

// Catalogs
const (
	CatalogStatic = "static"
	CatalogAudius = "audius"
	CatalogLocal  = "local"
)

// Config holds application configuration, read from DREAMTUNE_* variables.
type Config struct {
	// AppID is the unique application identifier
	AppID string `env:"APP_ID" envDefault:"com.dreamtune.app"`

	// LogLevel is debug, info, warn or error
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LogFormat is text or json
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// AudioOutput selects the sound device (oto) or the simulated element (mock)
	AudioOutput string `env:"AUDIO_OUTPUT" envDefault:"oto"`

	// SampleRate is the device sample rate
	SampleRate int `env:"SAMPLE_RATE" envDefault:"44100"`

	// Catalog selects where albums come from: static, audius or local
	Catalog string `env:"CATALOG" envDefault:"static"`

	AudiusDiscoveryURL string `env:"AUDIUS_DISCOVERY_URL" envDefault:"https://discoveryprovider.audius.co"`
	AudiusAppName      string `env:"AUDIUS_APP_NAME" envDefault:"dreamtune"`
	AudiusArtistID     string `env:"AUDIUS_ARTIST_ID"`

	// LocalMusicDir is scanned when Catalog is local
	LocalMusicDir string `env:"LOCAL_MUSIC_DIR"`

	// DataDir holds the preferences and access rule databases.
	// Empty means the user config directory.
	DataDir string `env:"DATA_DIR"`

	ErrorSkipDelay time.Duration `env:"ERROR_SKIP_DELAY" envDefault:"2s"`
	FrameRate      int           `env:"FRAME_RATE" envDefault:"60"`

	// UserTiers and Authenticated describe the listener handed over by the sign-in flow
	UserTiers     []string `env:"USER_TIERS" envSeparator:","`
	Authenticated bool     `env:"AUTHENTICATED"`
	UserID        string   `env:"USER_ID"`

	AccessCacheTTL time.Duration `env:"ACCESS_CACHE_TTL" envDefault:"5m"`

	// Album is the album the ambient window plays
	Album string `env:"ALBUM"`

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App `env:"-"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	return parseConfig(nil)
}

// DefaultConfig returns the defaults without reading the environment.
func DefaultConfig() Config {
	cfg, err := parseConfig(map[string]string{})
	if err != nil {
		panic(fmt.Sprintf("invalid config defaults: %v", err))
	}
	return cfg
}

func parseConfig(environment map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: envPrefix}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.AudioOutput {
	case OutputDevice, OutputMock:
	default:
		return fmt.Errorf("unknown audio output %q", c.AudioOutput)
	}
	switch c.Catalog {
	case CatalogStatic, CatalogAudius:
	case CatalogLocal:
		if c.LocalMusicDir == "" {
			return fmt.Errorf("catalog %q needs %sLOCAL_MUSIC_DIR", CatalogLocal, envPrefix)
		}
	default:
		return fmt.Errorf("unknown catalog %q", c.Catalog)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	return nil
}

// Logger builds the configured logger.
func (c Config) Logger() *slog.Logger {
	return logger.NewLogger(logger.Config{
		Level:  logger.ParseLevel(c.LogLevel),
		Format: c.LogFormat,
	})
}

// Session is the listener described by the configuration.
func (c Config) Session() domain.UserSession {
	if !c.Authenticated {
		return domain.UserSession{}
	}
	id := c.UserID
	if id == "" {
		id = "local"
	}
	return domain.UserSession{UserID: id, Tiers: c.UserTiers, IsAuthenticated: true}
}

// dataDir returns the directory for local databases, creating it.
func (c Config) dataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locate config dir: %w", err)
		}
		dir = filepath.Join(base, "dreamtune")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return dir, nil
}
