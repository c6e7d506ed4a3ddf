package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/dreamtune/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/logger"
)

// Mock preferences repository for testing
type mockPreferencesRepository struct {
	mu        sync.RWMutex
	volume    float64
	album     string
	saves     int
	failSave  bool
	failLoads bool
}

func newMockPreferencesRepository() *mockPreferencesRepository {
	return &mockPreferencesRepository{volume: 0.8}
}

func (m *mockPreferencesRepository) SaveVolume(volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("disk full")
	}
	m.volume = volume
	m.saves++
	return nil
}

func (m *mockPreferencesRepository) LoadVolume() (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failLoads {
		return 0, errors.New("corrupt")
	}
	return m.volume, nil
}

func (m *mockPreferencesRepository) SaveVisualizerAlbum(albumID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("disk full")
	}
	m.album = albumID
	return nil
}

func (m *mockPreferencesRepository) LoadVisualizerAlbum() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failLoads {
		return "", errors.New("corrupt")
	}
	return m.album, nil
}

func (m *mockPreferencesRepository) Close() error { return nil }

func (m *mockPreferencesRepository) savedVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

func (m *mockPreferencesRepository) savedAlbum() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.album
}

func TestPreferenceService_LoadsSavedPreferences(t *testing.T) {
	repo := newMockPreferencesRepository()
	repo.volume = 0.35
	repo.album = "dp4"

	svc := NewPreferenceService(logger.NewTestLogger(), repo, nil)

	assert.Equal(t, domain.Preferences{Volume: 0.35, VisualizerAlbum: "dp4"}, svc.Preferences())
}

func TestPreferenceService_LoadFailureFallsBackToDefaults(t *testing.T) {
	repo := newMockPreferencesRepository()
	repo.failLoads = true

	svc := NewPreferenceService(logger.NewTestLogger(), repo, nil)

	assert.Equal(t, DefaultVolume, svc.Volume())
	assert.Empty(t, svc.VisualizerAlbum())
}

func TestPreferenceService_SetVolume(t *testing.T) {
	repo := newMockPreferencesRepository()
	svc := NewPreferenceService(logger.NewTestLogger(), repo, nil)

	require.NoError(t, svc.SetVolume(0.5))
	assert.Equal(t, 0.5, svc.Volume())
	assert.Equal(t, 0.5, repo.savedVolume())

	assert.ErrorIs(t, svc.SetVolume(1.5), domain.ErrInvalidVolume)
	assert.ErrorIs(t, svc.SetVolume(-0.1), domain.ErrInvalidVolume)
	assert.Equal(t, 0.5, svc.Volume())
}

func TestPreferenceService_SaveFailureIsServiceError(t *testing.T) {
	repo := newMockPreferencesRepository()
	repo.failSave = true
	svc := NewPreferenceService(logger.NewTestLogger(), repo, nil)

	err := svc.SetVolume(0.2)
	var serviceErr *domain.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "preferences", serviceErr.Service)
}

func TestPreferenceService_BindRestoresAndFollowsVolume(t *testing.T) {
	repo := newMockPreferencesRepository()
	repo.volume = 0.3
	store, bus := newTestStore()

	svc := NewPreferenceService(logger.NewTestLogger(), repo, bus)
	svc.Bind(store)
	defer func() { _ = svc.Shutdown() }()

	assert.Equal(t, 0.3, store.State().Volume)

	store.SetVolume(0.65)
	assert.Equal(t, 0.65, repo.savedVolume())

	// Unrelated transitions do not touch storage
	saves := repo.saves
	store.Play(createTestTrack("a", "Tryptophan"))
	assert.Equal(t, saves, repo.saves)
}

func TestPreferenceService_ShutdownStopsFollowing(t *testing.T) {
	repo := newMockPreferencesRepository()
	store, bus := newTestStore()

	svc := NewPreferenceService(logger.NewTestLogger(), repo, bus)
	svc.Bind(store)
	require.NoError(t, svc.Shutdown())

	store.SetVolume(0.1)
	assert.Equal(t, DefaultVolume, repo.savedVolume())
	assert.False(t, bus.HasSubscribers(domain.EventThemeChanged))
}

func TestPreferenceService_ThemeChangeRecordsAlbum(t *testing.T) {
	repo := newMockPreferencesRepository()
	bus := eventbus.NewSyncEventBus()
	svc := NewPreferenceService(logger.NewTestLogger(), repo, bus)

	bus.Publish(domain.NewThemeChangedEvent("dp6", domain.VisualizerTheme{DrawStyle: domain.StyleRisingBubbles}))

	assert.Equal(t, "dp6", svc.VisualizerAlbum())
	assert.Equal(t, "dp6", repo.savedAlbum())
}

func TestPreferenceService_ResetToDefaults(t *testing.T) {
	repo := newMockPreferencesRepository()
	svc := NewPreferenceService(logger.NewTestLogger(), repo, nil)
	require.NoError(t, svc.SetVolume(0.1))
	require.NoError(t, svc.SetVisualizerAlbum("dp2"))

	require.NoError(t, svc.ResetToDefaults())

	assert.Equal(t, domain.Preferences{Volume: DefaultVolume}, svc.Preferences())
	assert.Equal(t, DefaultVolume, repo.savedVolume())
	assert.Empty(t, repo.savedAlbum())
}
