package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/cvindex/ai"
	"github.com/poiesic/cvindex/core"
	"github.com/poiesic/cvindex/storage"
)

const (
	// DefaultMinScore is the similarity floor a profile must clear to be
	// returned.
	DefaultMinScore float32 = 0.80

	// DefaultMaxHits is the number of results returned to the caller.
	DefaultMaxHits = 5

	// DefaultCandidatePool is how many candidates are drawn from storage
	// before trimming to DefaultMaxHits.
	DefaultCandidatePool = 6
)

// Searcher provides semantic search over candidate profiles.
type Searcher struct {
	profiles      storage.ProfileRepository
	embedder      ai.Embedder
	minScore      float32
	maxHits       int
	candidatePool int
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinScore sets the similarity floor.
func WithMinScore(minScore float32) Option {
	return func(s *Searcher) error {
		s.minScore = minScore
		return nil
	}
}

// WithMaxHits sets the number of results returned.
func WithMaxHits(maxHits int) Option {
	return func(s *Searcher) error {
		if maxHits > 0 {
			s.maxHits = maxHits
		}
		return nil
	}
}

// WithCandidatePool sets how many candidates are drawn from storage before
// trimming to the hit limit.
func WithCandidatePool(pool int) Option {
	return func(s *Searcher) error {
		if pool > 0 {
			s.candidatePool = pool
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	profiles storage.ProfileRepository,
	provider ai.Provider,
	opts ...Option,
) (*Searcher, error) {
	if profiles == nil {
		return nil, ErrProfileRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		profiles:      profiles,
		embedder:      provider.Embedder(),
		minScore:      DefaultMinScore,
		maxHits:       DefaultMaxHits,
		candidatePool: DefaultCandidatePool,
		logger:        slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.candidatePool < s.maxHits {
		s.candidatePool = s.maxHits
	}

	return s, nil
}

// Search finds profiles semantically matching the query, ranked by
// similarity score descending.
func (s *Searcher) Search(ctx context.Context, query string) ([]*core.ProfileMatch, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor runs Search with stage callbacks for observability.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) ([]*core.ProfileMatch, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	// A blank query matches nothing and costs no embedding call
	if strings.TrimSpace(query) == "" {
		results := []*core.ProfileMatch{}
		monitor.Finish(results)
		return results, nil
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	embedding = core.NormalizeVector(embedding)
	monitor.AfterQueryEmbedding(embedding)

	// Draw a slightly larger candidate pool, then trim to the hit limit
	matches, err := s.profiles.FindSimilar(ctx, embedding, s.minScore, s.candidatePool)
	if err != nil {
		s.logger.Error("error querying for similar profiles", "err", err)
		return nil, err
	}
	monitor.AfterVectorSearch(matches)

	if len(matches) > s.maxHits {
		matches = matches[:s.maxHits]
	}
	if matches == nil {
		matches = []*core.ProfileMatch{}
	}

	s.logger.Debug("search finished", "query", query, "hits", len(matches))
	monitor.Finish(matches)
	return matches, nil
}
