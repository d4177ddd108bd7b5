// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/cvindex/ai"
	"github.com/poiesic/cvindex/core"
	"github.com/poiesic/cvindex/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of profiles to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of profiles)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the embedding of every stored profile, for use
// after switching embedding models. Digests are recomputed from the stored
// structured fields, so no document re-parsing or LLM extraction happens.
type Reembedder struct {
	repo      storage.ProfileRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *ProfileIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.ProfileRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay)
	iterator := NewProfileIterator(repo, config.BatchSize)

	return &Reembedder{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}
}

// Run executes the reembedding operation.
// Every profile in the database is reembedded with the configured embedder.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	totalProfiles, err := r.countProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to count profiles: %w", err)
	}

	if totalProfiles == 0 {
		fmt.Fprintf(r.progress, "No profiles found in database (0 profiles)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d profiles (batch size: %d)\n",
		totalProfiles, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalProfiles, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	err = r.iterator.ForEach(ctx, func(profiles []*core.Profile) error {
		if err := r.processor.Process(ctx, profiles); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(profiles)
		tracker.Update(processed)

		return nil
	})

	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d profiles in %v (%.1f profiles/sec)\n",
		totalProfiles, elapsed.Round(time.Second), float64(totalProfiles)/elapsed.Seconds())

	return nil
}

// countProfiles pages through the repository counting profiles without
// holding them all in memory.
func (r *Reembedder) countProfiles(ctx context.Context) (int, error) {
	total := 0
	err := r.iterator.ForEach(ctx, func(profiles []*core.Profile) error {
		total += len(profiles)
		return nil
	})
	return total, err
}
