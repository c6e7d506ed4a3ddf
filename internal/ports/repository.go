// Package ports define repository interfaces for data persistence abstraction.
// These interfaces enable the repository pattern and allow swapping persistence mechanisms.
package ports

import (
	"context"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// PreferencesRepository handles the persistence of local listener preferences.
//
// Thread-safety: Implementations must be thread-safe.
type PreferencesRepository interface {
	// SaveVolume persists the volume level.
	SaveVolume(volume float64) error

	// LoadVolume retrieves the saved volume level.
	// If no volume was saved, returns the default (0.8).
	LoadVolume() (float64, error)

	// SaveVisualizerAlbum persists the album whose theme was last shown.
	SaveVisualizerAlbum(albumID string) error

	// LoadVisualizerAlbum retrieves the last visualizer album, "" if none.
	LoadVisualizerAlbum() (string, error)

	// Close releases the underlying storage.
	Close() error
}

// AccessRulesRepository stores the tier each track requires.
//
// Thread-safety: Implementations must be thread-safe.
type AccessRulesRepository interface {
	// Rule returns the rule for a track, or domain.ErrAccessRuleNotFound.
	Rule(ctx context.Context, trackID string) (domain.ContentAccess, error)

	// Rules returns every stored rule.
	Rules(ctx context.Context) ([]domain.ContentAccess, error)

	// SaveRule inserts or replaces a rule.
	SaveRule(ctx context.Context, rule domain.ContentAccess) error

	// DeleteRule removes a rule. Deleting a missing rule is not an error.
	DeleteRule(ctx context.Context, trackID string) error

	// Close releases the underlying storage.
	Close() error
}

// PlayEventSink receives summarized listens.
type PlayEventSink interface {
	RecordPlay(ctx context.Context, play domain.PlayEvent) error
}
