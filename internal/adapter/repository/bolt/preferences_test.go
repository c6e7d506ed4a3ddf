package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

func newTestRepository(t *testing.T) (*PreferencesRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.db")
	repo, err := NewPreferencesRepository(path)
	require.NoError(t, err)
	return repo, path
}

func TestPreferencesRepository_Defaults(t *testing.T) {
	repo, _ := newTestRepository(t)
	defer repo.Close()

	volume, err := repo.LoadVolume()
	require.NoError(t, err)
	assert.Equal(t, DefaultVolume, volume)

	album, err := repo.LoadVisualizerAlbum()
	require.NoError(t, err)
	assert.Empty(t, album)
}

func TestPreferencesRepository_SaveAndLoad(t *testing.T) {
	repo, _ := newTestRepository(t)
	defer repo.Close()

	require.NoError(t, repo.SaveVolume(0.42))
	require.NoError(t, repo.SaveVisualizerAlbum("dp3"))

	volume, err := repo.LoadVolume()
	require.NoError(t, err)
	assert.Equal(t, 0.42, volume)

	album, err := repo.LoadVisualizerAlbum()
	require.NoError(t, err)
	assert.Equal(t, "dp3", album)
}

func TestPreferencesRepository_SurvivesReopen(t *testing.T) {
	repo, path := newTestRepository(t)
	require.NoError(t, repo.SaveVolume(0.1))
	require.NoError(t, repo.Close())

	reopened, err := NewPreferencesRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	volume, err := reopened.LoadVolume()
	require.NoError(t, err)
	assert.Equal(t, 0.1, volume)
}

func TestPreferencesRepository_CorruptValue(t *testing.T) {
	repo, _ := newTestRepository(t)
	defer repo.Close()

	require.NoError(t, repo.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(preferencesBucket).Put(volumeKey, []byte("not json"))
	}))

	volume, err := repo.LoadVolume()
	var repoErr *domain.RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "LoadVolume", repoErr.Op)
	assert.Equal(t, DefaultVolume, volume)
}

func TestPreferencesRepository_ClosedDatabase(t *testing.T) {
	repo, _ := newTestRepository(t)
	require.NoError(t, repo.Close())

	assert.Error(t, repo.SaveVolume(0.5))
}
