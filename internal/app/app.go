// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tejashwikalptaru/dreamtune/internal/adapter/repository/memory"
	fyneui "github.com/tejashwikalptaru/dreamtune/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/dreamtune/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
	"github.com/tejashwikalptaru/dreamtune/internal/service"
)

// Application is the desktop player: the playback core behind a Fyne window.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	*core

	fyneApp fyne.App

	// UI
	visualizer *widgets.Visualizer
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	shutdownOnce sync.Once
}

// NewApplication creates the desktop player with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(ctx context.Context, config Config) (*Application, error) {
	logger := config.Logger()
	logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("version", GetVersionInfo().FullString()),
		slog.String("catalog", config.Catalog),
		slog.String("audio_output", config.AudioOutput))

	// Step 1: Create Fyne application
	var fyneApp fyne.App
	if config.TestFyneApp != nil {
		fyneApp = config.TestFyneApp
	} else {
		fyneApp = fyneapp.NewWithID(config.AppID)
	}

	// Step 2: Create the playback core
	c, err := newCore(ctx, config, logger, "desktop", func() ports.PreferencesRepository {
		return memory.NewPreferencesRepository(fyneApp.Preferences())
	})
	if err != nil {
		return nil, err
	}
	app := &Application{core: c, fyneApp: fyneApp}

	// Step 3: Create UI
	app.visualizer = widgets.NewVisualizer(logger, c.renderer)
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp, app.visualizer, c.catalog, c.themes.AlbumIDs(), Version)

	// Step 4: Create Presenter and wire with UI
	app.presenter = fyneui.NewPresenter(
		logger,
		c.store,
		c.bridge,
		c.access,
		c.analyzer,
		c.themes,
		c.bus,
		app.mainWindow,
		config.Session(),
	)
	app.mainWindow.SetPresenter(app.presenter)

	// Show the saved theme
	if err := app.presenter.OnVisualizerSelected(c.initialAlbum()); err != nil {
		logger.Warn("failed to restore visualizer theme", slog.Any("error", err))
	}

	return app, nil
}

// Run shows the window and blocks until it is closed.
func (a *Application) Run(ctx context.Context) error {
	a.logger.Info("Dreamtune started")
	a.mainWindow.ShowAndRun(ctx)
	return nil
}

// Shutdown gracefully shuts down the application.
// It's safe to call multiple times (idempotent).
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if a.presenter != nil {
			a.presenter.Shutdown()
		}
		a.core.close()

		a.logger.Info("application shutdown complete")
	})
	return nil
}

// Store returns the player store.
func (a *Application) Store() *service.PlayerStore {
	return a.store
}

// Presenter returns the window presenter.
func (a *Application) Presenter() *fyneui.Presenter {
	return a.presenter
}

// Catalog returns the configured catalog.
func (a *Application) Catalog() ports.Catalog {
	return a.catalog
}

// Preferences returns the preference service.
func (a *Application) Preferences() *service.PreferenceService {
	return a.preferences
}
