package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/tejashwikalptaru/dreamtune/internal/adapter/audio/device"
	"github.com/tejashwikalptaru/dreamtune/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/dreamtune/internal/adapter/audio/stream"
	"github.com/tejashwikalptaru/dreamtune/internal/adapter/catalog/audius"
	"github.com/tejashwikalptaru/dreamtune/internal/adapter/catalog/local"
	"github.com/tejashwikalptaru/dreamtune/internal/adapter/catalog/static"
	"github.com/tejashwikalptaru/dreamtune/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/dreamtune/internal/adapter/repository/bolt"
	"github.com/tejashwikalptaru/dreamtune/internal/adapter/repository/sqlite"
	"github.com/tejashwikalptaru/dreamtune/internal/analyzer"
	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
	"github.com/tejashwikalptaru/dreamtune/internal/service"
	"github.com/tejashwikalptaru/dreamtune/internal/visualizer"
)

const (
	preferencesFile = "preferences.db"
	accessRulesFile = "access.db"

	// mockClockInterval drives the simulated element in real time.
	mockClockInterval = stream.DefaultTimeUpdateInterval
)

// audioOutput is an audio element whose samples the analyzer can read.
type audioOutput interface {
	ports.AudioOutput
	ports.SampleTap
}

// core is the playback core shared by the desktop player and the ambient window.
type core struct {
	logger *slog.Logger
	config Config

	// Infrastructure
	bus     *eventbus.SyncEventBus
	catalog ports.Catalog
	themes  *static.Themes
	output  audioOutput

	// Repositories
	preferencesRepo ports.PreferencesRepository
	accessRepo      *sqlite.AccessRulesRepository

	// Services
	store       *service.PlayerStore
	bridge      *service.AudioBridge
	access      *service.AccessService
	preferences *service.PreferenceService
	tracker     *service.PlayTracker
	analyzer    *analyzer.Analyzer
	renderer    *visualizer.Renderer
}

// fallbackPreferences supplies a preferences store when the database is unavailable.
type fallbackPreferences func() ports.PreferencesRepository

// newCore wires everything below the UI. On error, whatever was created is released.
// fallback may be nil.
func newCore(ctx context.Context, cfg Config, logger *slog.Logger, source string, fallback fallbackPreferences) (c *core, err error) {
	c = &core{logger: logger, config: cfg}
	defer func() {
		if err != nil {
			c.close()
			c = nil
		}
	}()

	// Step 1: Create an event bus
	c.bus = eventbus.NewSyncEventBus()
	c.bus.SetLogger(logger.With(slog.String("component", "eventbus")))

	// Step 2: Create the catalog
	c.themes = static.NewThemes()
	if c.catalog, err = c.buildCatalog(ctx); err != nil {
		return c, err
	}

	// Step 3: Create the audio output
	if c.output, err = c.buildOutput(); err != nil {
		return c, err
	}

	// Step 4: Open local repositories
	dir, err := cfg.dataDir()
	if err != nil {
		return c, err
	}
	if c.preferencesRepo, err = c.openPreferences(filepath.Join(dir, preferencesFile), fallback); err != nil {
		return c, err
	}
	if c.accessRepo, err = sqlite.NewAccessRulesRepository(filepath.Join(dir, accessRulesFile)); err != nil {
		return c, fmt.Errorf("failed to open access rules: %w", err)
	}

	// Step 5: Create services (with dependency injection)
	c.store = service.NewPlayerStore(logger, c.bus)

	bridgeCfg := service.DefaultBridgeConfig()
	bridgeCfg.ErrorSkipDelay = cfg.ErrorSkipDelay
	c.bridge = service.NewAudioBridge(logger, c.store, c.output, c.catalog, c.bus, bridgeCfg)

	c.access = service.NewAccessService(logger, c.accessRepo, cfg.AccessCacheTTL)

	c.preferences = service.NewPreferenceService(logger, c.preferencesRepo, c.bus)
	c.preferences.Bind(c.store)

	c.tracker = service.NewPlayTracker(logger, c.store, c.bus, service.NewLogPlaySink(logger), service.TrackerConfig{
		UserID:     cfg.Session().UserID,
		Source:     source,
		DeviceType: "desktop",
	})

	// Step 6: Create the analyzer and the visualizer
	c.analyzer = analyzer.New(logger.With(slog.String("component", "analyzer")), c.bus)
	c.analyzer.RegisterAudioElement(c.output)

	theme, err := c.themes.ThemeFor(c.initialAlbum())
	if err != nil {
		return c, err
	}
	if c.renderer, err = visualizer.NewRenderer(logger, c.analyzer, theme); err != nil {
		return c, fmt.Errorf("failed to create visualizer: %w", err)
	}
	c.renderer.SetFrameRate(cfg.FrameRate)

	return c, nil
}

// openPreferences opens the database, or the fallback when another instance holds it.
func (c *core) openPreferences(path string, fallback fallbackPreferences) (ports.PreferencesRepository, error) {
	repo, err := bolt.NewPreferencesRepository(path)
	if err == nil {
		return repo, nil
	}
	if fallback == nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	c.logger.Warn("preferences database unavailable, using app preferences",
		slog.String("path", path),
		slog.Any("error", err))
	return fallback(), nil
}

func (c *core) buildCatalog(ctx context.Context) (ports.Catalog, error) {
	client := audius.NewClient(c.logger, nil, audius.Config{
		DiscoveryURL: c.config.AudiusDiscoveryURL,
		AppName:      c.config.AudiusAppName,
		ArtistID:     c.config.AudiusArtistID,
	})

	switch c.config.Catalog {
	case CatalogAudius:
		return client, nil
	case CatalogLocal:
		lib := local.New(c.logger, c.config.LocalMusicDir)
		n, err := lib.Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", c.config.LocalMusicDir, err)
		}
		c.logger.Info("local library scanned", slog.Int("tracks", n))
		return lib, nil
	default:
		albums := append(static.DreampeaceAlbums(), static.TownsendAlbums()...)
		return static.New(client, albums...), nil
	}
}

func (c *core) buildOutput() (audioOutput, error) {
	if c.config.AudioOutput == OutputMock {
		out := mock.NewOutput()
		out.SetLogger(c.logger.With(slog.String("output", "mock")))
		out.SetAutoLoad(true, 180)
		out.StartClock(mockClockInterval)
		return out, nil
	}

	out, err := device.NewOutput(c.logger, stream.NewLoader(nil), device.Config{SampleRate: c.config.SampleRate})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio output: %w", err)
	}
	return out, nil
}

// initialAlbum is the saved visualizer album, or the first themed album.
func (c *core) initialAlbum() string {
	if id := c.preferences.VisualizerAlbum(); id != "" {
		if _, err := c.themes.ThemeFor(id); err == nil {
			return id
		}
	}
	return c.themes.AlbumIDs()[0]
}

// close releases everything in reverse order of creation. Safe on a partial core.
func (c *core) close() {
	if c.renderer != nil {
		if err := c.renderer.Stop(); err != nil && !errors.Is(err, domain.ErrNotRunning) {
			c.logger.Warn("failed to stop visualizer", slog.Any("error", err))
		}
	}
	if c.tracker != nil {
		if err := c.tracker.Close(); err != nil {
			c.logger.Warn("failed to close play tracker", slog.Any("error", err))
		}
	}
	if c.preferences != nil {
		if err := c.preferences.Shutdown(); err != nil {
			c.logger.Warn("failed to shutdown preference service", slog.Any("error", err))
		}
	}
	if c.bridge != nil {
		if err := c.bridge.Close(); err != nil {
			c.logger.Warn("failed to close audio bridge", slog.Any("error", err))
		}
	} else if c.output != nil {
		_ = c.output.Close()
	}
	if c.accessRepo != nil {
		if err := c.accessRepo.Close(); err != nil {
			c.logger.Warn("failed to close access rules", slog.Any("error", err))
		}
	}
	if c.preferencesRepo != nil {
		if err := c.preferencesRepo.Close(); err != nil {
			c.logger.Warn("failed to close preferences", slog.Any("error", err))
		}
	}
}
