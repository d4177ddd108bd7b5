package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/cvindex/ai"
	"github.com/poiesic/cvindex/core"
	"github.com/poiesic/cvindex/storage"
)

// BatchProcessor handles embedding regeneration for batches of profiles.
type BatchProcessor struct {
	repo           storage.ProfileRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.ProfileRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process regenerates embeddings for a batch of profiles and updates them
// in the database. The digest is recomputed from each profile's stored
// fields, and vectors are normalized so the dot product stays a cosine
// similarity.
func (bp *BatchProcessor) Process(ctx context.Context, profiles []*core.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	digests := make([]string, len(profiles))
	for i, profile := range profiles {
		digests[i] = core.EmbeddingDigest(profile)
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, digests)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(profiles) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(profiles), len(embeddings))
	}

	for i := range profiles {
		profiles[i].Embedding = core.NormalizeVector(embeddings[i])
		if _, err := bp.repo.UpdateProfile(ctx, profiles[i]); err != nil {
			return fmt.Errorf("failed to update profile %d: %w", profiles[i].Id, err)
		}
	}

	return nil
}
