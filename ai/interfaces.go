package ai

import (
	"context"

	"github.com/poiesic/cvindex/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// The same model and endpoint are used for document digests and search queries
// so the resulting vectors are comparable.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ProfileExtractor converts normalized resume text into a structured profile
// using a generative model.
// Implementations must be thread-safe for concurrent use.
type ProfileExtractor interface {
	// ExtractProfile analyzes resume text and extracts candidate details.
	// Extraction is best-effort: fields the model omits or mangles are left
	// at their zero values, and a wholly unparseable model reply yields an
	// empty profile rather than an error. An error is returned only when the
	// model service itself fails.
	ExtractProfile(ctx context.Context, resumeText string) (*core.Profile, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and ProfileExtractor
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// ProfileExtractor returns the resume extraction service.
	// The returned ProfileExtractor is safe for concurrent use.
	ProfileExtractor() ProfileExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
