package storage

import (
	"context"

	"github.com/poiesic/cvindex/core"
)

// Repository provides common storage operations shared by all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds profiles whose embedding is similar to the given vector.
	// Returns profiles with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ProfileMatch, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ProfileRepository provides operations for managing candidate profiles.
type ProfileRepository interface {
	Repository
	// AddProfile adds a profile to storage.
	// For profiles with ID=0, generates a new ID from sequence.
	// Sets InsertedAt timestamp if not already set.
	// Returns ErrDuplicateKey if the email or document path is already
	// claimed by another profile.
	AddProfile(ctx context.Context, profile *core.Profile) (*core.Profile, error)

	// UpdateProfile updates an existing profile.
	// Updates the UpdatedAt timestamp automatically and maintains the
	// email and document path indices.
	// Returns ErrNotFound if the profile doesn't exist.
	UpdateProfile(ctx context.Context, profile *core.Profile) (*core.Profile, error)

	// DeleteProfile removes a profile by ID along with its indices.
	// Returns ErrNotFound if the profile doesn't exist.
	DeleteProfile(ctx context.Context, id core.ID) error

	// GetProfile retrieves a single profile by ID.
	// Returns ErrNotFound if the profile doesn't exist.
	GetProfile(ctx context.Context, id core.ID) (*core.Profile, error)

	// GetProfiles retrieves multiple profiles by their IDs.
	// Returns only the profiles that exist (no error for missing profiles).
	GetProfiles(ctx context.Context, ids ...core.ID) ([]*core.Profile, error)

	// ListProfiles retrieves stored profiles in ID order starting after
	// afterID, up to limit results. Pass afterID=0 to start from the
	// beginning and limit<=0 for no limit.
	ListProfiles(ctx context.Context, afterID core.ID, limit int) ([]*core.Profile, error)

	// FindProfileByEmail finds the profile that owns an email address.
	// Returns ErrNotFound if no profile claims the email.
	FindProfileByEmail(ctx context.Context, email string) (*core.Profile, error)

	// FindProfileByDocumentPath finds the profile extracted from a stored
	// document. Returns ErrNotFound if no profile claims the path.
	FindProfileByDocumentPath(ctx context.Context, path string) (*core.Profile, error)
}
