package badger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/cvindex/core"
	"github.com/poiesic/cvindex/storage"
)

// ProfileRepository implements storage.ProfileRepository for BadgerDB.
type ProfileRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(backend *Backend) (*ProfileRepository, error) {
	idSeq, err := backend.GetSequence(profileIDSeq)
	if err != nil {
		return nil, err
	}

	return &ProfileRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ProfileRepository) Close() error {
	return r.idSeq.Release()
}

// FindSimilar delegates to the backend.
func (r *ProfileRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ProfileMatch, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *ProfileRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddProfile adds a profile to storage, claiming its email and document
// path in the unique indices.
func (r *ProfileRepository) AddProfile(ctx context.Context, profile *core.Profile) (*core.Profile, error) {
	if err := core.ValidateStoredProfile(profile); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Uniqueness checks before any write
		if err := r.checkIndexFree(tx, makeEmailKey(profile.Email), "email", profile.Email); err != nil {
			return err
		}
		if err := r.checkIndexFree(tx, makeDocPathKey(profile.CvPath), "document path", profile.CvPath); err != nil {
			return err
		}

		if profile.Id == 0 {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			profile.Id = core.ID(nextID)
		}

		if profile.InsertedAt.IsZero() {
			profile.InsertedAt = time.Now().UTC()
		}
		profile.UpdatedAt = profile.InsertedAt

		key := makeProfileKey(profile.Id)
		if err := tx.Set(key, storage.MarshalProfile(profile)); err != nil {
			return err
		}

		idValue := storage.MarshalID(profile.Id)
		if err := tx.Set(makeEmailKey(profile.Email), idValue); err != nil {
			return err
		}
		if err := tx.Set(makeDocPathKey(profile.CvPath), idValue); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile updates an existing profile and maintains its indices.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, profile *core.Profile) (*core.Profile, error) {
	if err := core.ValidateStoredProfile(profile); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProfileKey(profile.Id)

		old, err := r.readProfile(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		idValue := storage.MarshalID(profile.Id)

		// Move the email index if the email changed
		if old.Email != profile.Email {
			if err := r.checkIndexFree(tx, makeEmailKey(profile.Email), "email", profile.Email); err != nil {
				return err
			}
			if err := tx.Delete(makeEmailKey(old.Email)); err != nil {
				return err
			}
			if err := tx.Set(makeEmailKey(profile.Email), idValue); err != nil {
				return err
			}
		}

		// Move the document path index if the path changed
		if old.CvPath != profile.CvPath {
			if err := r.checkIndexFree(tx, makeDocPathKey(profile.CvPath), "document path", profile.CvPath); err != nil {
				return err
			}
			if err := tx.Delete(makeDocPathKey(old.CvPath)); err != nil {
				return err
			}
			if err := tx.Set(makeDocPathKey(profile.CvPath), idValue); err != nil {
				return err
			}
		}

		profile.InsertedAt = old.InsertedAt
		profile.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalProfile(profile)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteProfile removes a profile by ID along with its indices.
func (r *ProfileRepository) DeleteProfile(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProfileKey(id)

		profile, err := r.readProfile(tx, key)
		if err != nil {
			return err
		}
		if profile == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeEmailKey(profile.Email)); err != nil {
			return err
		}
		if err := tx.Delete(makeDocPathKey(profile.CvPath)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// GetProfile retrieves a single profile by ID.
func (r *ProfileRepository) GetProfile(ctx context.Context, id core.ID) (*core.Profile, error) {
	var result *core.Profile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readProfile(tx, makeProfileKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetProfiles retrieves multiple profiles by their IDs.
func (r *ProfileRepository) GetProfiles(ctx context.Context, ids ...core.ID) ([]*core.Profile, error) {
	var result []*core.Profile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			profile, err := r.readProfile(tx, makeProfileKey(id))
			if err != nil {
				return err
			}
			if profile != nil {
				result = append(result, profile)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListProfiles retrieves stored profiles in ID order starting after afterID.
// Record keys use decimal IDs, so the iteration order is lexicographic and
// the results are collected and sorted numerically before paging.
func (r *ProfileRepository) ListProfiles(ctx context.Context, afterID core.ID, limit int) ([]*core.Profile, error) {
	var all []*core.Profile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profileRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var profile *core.Profile
			err := iter.Item().Value(func(val []byte) error {
				var err error
				profile, err = storage.UnmarshalProfile(val)
				return err
			})
			if err != nil {
				return err
			}
			if profile != nil && profile.Id > afterID {
				all = append(all, profile)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(all, func(a, b *core.Profile) int {
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// FindProfileByEmail finds the profile that owns an email address.
func (r *ProfileRepository) FindProfileByEmail(ctx context.Context, email string) (*core.Profile, error) {
	return r.findByIndex(makeEmailKey(email))
}

// FindProfileByDocumentPath finds the profile extracted from a stored document.
func (r *ProfileRepository) FindProfileByDocumentPath(ctx context.Context, path string) (*core.Profile, error) {
	return r.findByIndex(makeDocPathKey(path))
}

// Helper methods

// readProfile reads a profile from the transaction.
func (r *ProfileRepository) readProfile(tx *badger.Txn, key []byte) (*core.Profile, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var profile *core.Profile
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		profile, unmarshalErr = storage.UnmarshalProfile(val)
		return unmarshalErr
	})
	return profile, err
}

// checkIndexFree returns ErrDuplicateKey when the index key is already set.
func (r *ProfileRepository) checkIndexFree(tx *badger.Txn, key []byte, field, value string) error {
	_, err := tx.Get(key)
	if err == nil {
		return fmt.Errorf("%w: %s %q already exists", storage.ErrDuplicateKey, field, value)
	}
	if err != badger.ErrKeyNotFound {
		return err
	}
	return nil
}

// findByIndex resolves an index key to its profile.
func (r *ProfileRepository) findByIndex(indexKey []byte) (*core.Profile, error) {
	var result *core.Profile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(indexKey)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = r.readProfile(tx, makeProfileKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}
