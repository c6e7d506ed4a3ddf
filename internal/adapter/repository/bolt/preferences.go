// Package bolt provides bbolt-backed repositories for state kept on the listener's machine.
package bolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// DefaultVolume is returned when no volume has been saved.
const DefaultVolume = 0.8

var (
	preferencesBucket = []byte("preferences")

	volumeKey          = []byte("volume")
	visualizerAlbumKey = []byte("visualizer_album")
)

// PreferencesRepository implements ports.PreferencesRepository on a bbolt file.
// Values are stored as JSON under fixed keys of one bucket.
//
// Thread-safe: bbolt serializes writers and isolates readers.
type PreferencesRepository struct {
	db *bbolt.DB
}

// NewPreferencesRepository opens (or creates) the database at path.
func NewPreferencesRepository(path string) (*PreferencesRepository, error) {
	options := &bbolt.Options{Timeout: 1 * time.Second}
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, domain.NewRepositoryError("open", "preferences", "could not open preferences database", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(preferencesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, domain.NewRepositoryError("open", "preferences", "could not create preferences bucket", err)
	}

	return &PreferencesRepository{db: db}, nil
}

// SaveVolume persists the volume level.
func (r *PreferencesRepository) SaveVolume(volume float64) error {
	return r.put("SaveVolume", volumeKey, volume)
}

// LoadVolume retrieves the saved volume level, DefaultVolume if none.
func (r *PreferencesRepository) LoadVolume() (float64, error) {
	volume := DefaultVolume
	if err := r.get("LoadVolume", volumeKey, &volume); err != nil {
		return DefaultVolume, err
	}
	return volume, nil
}

// SaveVisualizerAlbum persists the album whose theme was last shown.
func (r *PreferencesRepository) SaveVisualizerAlbum(albumID string) error {
	return r.put("SaveVisualizerAlbum", visualizerAlbumKey, albumID)
}

// LoadVisualizerAlbum retrieves the last visualizer album, "" if none.
func (r *PreferencesRepository) LoadVisualizerAlbum() (string, error) {
	var album string
	if err := r.get("LoadVisualizerAlbum", visualizerAlbumKey, &album); err != nil {
		return "", err
	}
	return album, nil
}

// Close releases the database file.
func (r *PreferencesRepository) Close() error {
	return r.db.Close()
}

func (r *PreferencesRepository) put(op string, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return domain.NewRepositoryError(op, "preferences", "error serializing value", err)
	}

	err = r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(preferencesBucket).Put(key, data)
	})
	if err != nil {
		return domain.NewRepositoryError(op, "preferences", "write failed", err)
	}
	return nil
}

// errMissing marks an absent key inside get.
var errMissing = errors.New("missing")

// get decodes the value at key into out, leaving out untouched when the key is absent.
func (r *PreferencesRepository) get(op string, key []byte, out any) error {
	err := r.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(preferencesBucket).Get(key)
		if v == nil {
			return errMissing
		}
		if err := json.Unmarshal(v, out); err != nil {
			return fmt.Errorf("error deserializing %s: %w", key, err)
		}
		return nil
	})
	switch {
	case err == nil, errors.Is(err, errMissing):
		return nil
	default:
		return domain.NewRepositoryError(op, "preferences", "read failed", err)
	}
}

var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
