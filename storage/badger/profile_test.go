package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/cvindex/core"
	"github.com/poiesic/cvindex/storage"
)

func newTestRepository(t *testing.T) storage.ProfileRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func testProfile(n int) *core.Profile {
	return &core.Profile{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       fmt.Sprintf("jane.doe%d@example.com", n),
		PhoneNumber: "+1-555-0100",
		Skills:      []string{"Go", "Kubernetes"},
		Education: []core.Education{
			{Degree: "BSc Computer Science", University: "MIT", Year: "2015"},
		},
		WorkExperience: []core.WorkExperience{
			{JobTitle: "Backend Engineer", Company: "Acme", Duration: "2015-2020"},
		},
		Certifications: []string{"CKA"},
		Embedding:      []float32{1, 0, 0},
		CvPath:         fmt.Sprintf("/srv/cv-storage/resume%d.pdf", n),
	}
}

func TestAddProfile(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	t.Run("AssignsIDAndTimestamps", func(t *testing.T) {
		added, err := repo.AddProfile(ctx, testProfile(1))
		require.NoError(t, err)
		assert.NotZero(t, added.Id)
		assert.False(t, added.InsertedAt.IsZero())
		assert.Equal(t, added.InsertedAt, added.UpdatedAt)
	})

	t.Run("RejectsDuplicateEmail", func(t *testing.T) {
		dup := testProfile(2)
		_, err := repo.AddProfile(ctx, dup)
		require.NoError(t, err)

		other := testProfile(3)
		other.Email = dup.Email
		_, err = repo.AddProfile(ctx, other)
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("RejectsDuplicateDocumentPath", func(t *testing.T) {
		dup := testProfile(4)
		_, err := repo.AddProfile(ctx, dup)
		require.NoError(t, err)

		other := testProfile(5)
		other.CvPath = dup.CvPath
		_, err = repo.AddProfile(ctx, other)
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("RejectsMissingEmail", func(t *testing.T) {
		invalid := testProfile(6)
		invalid.Email = ""
		_, err := repo.AddProfile(ctx, invalid)
		assert.ErrorIs(t, err, core.ErrMissingEmail)
	})
}

func TestGetProfile(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	added, err := repo.AddProfile(ctx, testProfile(1))
	require.NoError(t, err)

	t.Run("RoundTrip", func(t *testing.T) {
		got, err := repo.GetProfile(ctx, added.Id)
		require.NoError(t, err)
		assert.Equal(t, added.Email, got.Email)
		assert.Equal(t, added.Skills, got.Skills)
		assert.Equal(t, added.Education, got.Education)
		assert.Equal(t, added.WorkExperience, got.WorkExperience)
		assert.Equal(t, added.Embedding, got.Embedding)
		assert.Equal(t, added.CvPath, got.CvPath)
	})

	t.Run("MissingProfile", func(t *testing.T) {
		_, err := repo.GetProfile(ctx, core.ID(99999))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestGetProfiles(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.AddProfile(ctx, testProfile(1))
	require.NoError(t, err)
	second, err := repo.AddProfile(ctx, testProfile(2))
	require.NoError(t, err)

	// Missing IDs are silently skipped
	got, err := repo.GetProfiles(ctx, first.Id, core.ID(99999), second.Id)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFindProfileByEmail(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	added, err := repo.AddProfile(ctx, testProfile(1))
	require.NoError(t, err)

	got, err := repo.FindProfileByEmail(ctx, added.Email)
	require.NoError(t, err)
	assert.Equal(t, added.Id, got.Id)

	_, err = repo.FindProfileByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFindProfileByDocumentPath(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	added, err := repo.AddProfile(ctx, testProfile(1))
	require.NoError(t, err)

	got, err := repo.FindProfileByDocumentPath(ctx, added.CvPath)
	require.NoError(t, err)
	assert.Equal(t, added.Id, got.Id)

	_, err = repo.FindProfileByDocumentPath(ctx, "/srv/cv-storage/missing.pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	t.Run("MovesEmailIndex", func(t *testing.T) {
		added, err := repo.AddProfile(ctx, testProfile(1))
		require.NoError(t, err)
		oldEmail := added.Email

		added.Email = "jane.new@example.com"
		_, err = repo.UpdateProfile(ctx, added)
		require.NoError(t, err)

		_, err = repo.FindProfileByEmail(ctx, oldEmail)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		got, err := repo.FindProfileByEmail(ctx, "jane.new@example.com")
		require.NoError(t, err)
		assert.Equal(t, added.Id, got.Id)
	})

	t.Run("RejectsEmailClaimedByOther", func(t *testing.T) {
		a, err := repo.AddProfile(ctx, testProfile(2))
		require.NoError(t, err)
		b, err := repo.AddProfile(ctx, testProfile(3))
		require.NoError(t, err)

		b.Email = a.Email
		_, err = repo.UpdateProfile(ctx, b)
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("MissingProfile", func(t *testing.T) {
		ghost := testProfile(4)
		ghost.Id = core.ID(99999)
		_, err := repo.UpdateProfile(ctx, ghost)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestDeleteProfile(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	added, err := repo.AddProfile(ctx, testProfile(1))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteProfile(ctx, added.Id))

	_, err = repo.GetProfile(ctx, added.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Indices released with the record
	_, err = repo.FindProfileByEmail(ctx, added.Email)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repo.FindProfileByDocumentPath(ctx, added.CvPath)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Email is reusable after deletion
	again := testProfile(1)
	_, err = repo.AddProfile(ctx, again)
	assert.NoError(t, err)

	assert.ErrorIs(t, repo.DeleteProfile(ctx, core.ID(99999)), storage.ErrNotFound)
}

func TestListProfiles(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	var ids []core.ID
	for i := 1; i <= 5; i++ {
		added, err := repo.AddProfile(ctx, testProfile(i))
		require.NoError(t, err)
		ids = append(ids, added.Id)
	}

	t.Run("AllInIDOrder", func(t *testing.T) {
		got, err := repo.ListProfiles(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, got, 5)
		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1].Id, got[i].Id)
		}
	})

	t.Run("AfterIDAndLimit", func(t *testing.T) {
		got, err := repo.ListProfiles(ctx, ids[1], 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ids[2], got[0].Id)
		assert.Equal(t, ids[3], got[1].Id)
	})
}

func TestFindSimilar(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	embeddings := [][]float32{
		{1, 0, 0},
		{0.9486833, 0.31622776, 0}, // ~0.95 against the x axis
		{0, 1, 0},
	}
	for i, vec := range embeddings {
		p := testProfile(i + 1)
		p.Embedding = vec
		_, err := repo.AddProfile(ctx, p)
		require.NoError(t, err)
	}

	t.Run("FiltersAndOrders", func(t *testing.T) {
		matches, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, 0.8, 10)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.InDelta(t, 1.0, matches[0].Score, 1e-5)
		assert.InDelta(t, 0.9486833, matches[1].Score, 1e-5)
	})

	t.Run("AppliesLimit", func(t *testing.T) {
		matches, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, 0.8, 1)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.InDelta(t, 1.0, matches[0].Score, 1e-5)
	})

	t.Run("NoMatchesAboveFloor", func(t *testing.T) {
		matches, err := repo.FindSimilar(ctx, []float32{0, 0, 1}, 0.8, 10)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}
