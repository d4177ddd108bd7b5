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

package cvindex

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/cvindex/ai"
	"github.com/poiesic/cvindex/ai/openai"
	"github.com/poiesic/cvindex/document"
	"github.com/poiesic/cvindex/ingestion"
	"github.com/poiesic/cvindex/queue"
	"github.com/poiesic/cvindex/reembed"
	"github.com/poiesic/cvindex/search"
	"github.com/poiesic/cvindex/storage"
	"github.com/poiesic/cvindex/storage/badger"
)

// Database is the top-level handle for a resume index: profile storage,
// the raw document store, the job queue, and the AI provider, rooted in a
// single data directory.
type Database struct {
	backend     *badger.Backend
	profileRepo storage.ProfileRepository
	docStore    *document.Store
	queue       *queue.Queue
	provider    ai.Provider
	logger      *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	queueWorkers int
}

// WithAIConfig sets the AI service configuration used to build the default
// provider.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithProvider replaces the AI provider entirely, bypassing aiConfig.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithQueueWorkers sets the number of concurrent processing workers.
func WithQueueWorkers(n int) DatabaseOption {
	return func(o *databaseOptions) {
		o.queueWorkers = n
	}
}

// NewDatabase opens a resume index rooted at dataDir. The profile store
// lives under dataDir/db and raw documents under dataDir/cv-storage.
func NewDatabase(dataDir string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filepath.Join(dataDir, "db"), false)
	if err != nil {
		return nil, err
	}

	profileRepo, err := badger.NewProfileRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	docStore, err := document.NewStore(filepath.Join(dataDir, "cv-storage"))
	if err != nil {
		profileRepo.Close()
		backend.Close()
		return nil, err
	}

	var queueOpts []queue.Option
	if options.queueWorkers > 0 {
		queueOpts = append(queueOpts, queue.WithWorkers(options.queueWorkers))
	}
	q, err := queue.New(queueOpts...)
	if err != nil {
		profileRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			q.Release()
			profileRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:     backend,
		profileRepo: profileRepo,
		docStore:    docStore,
		queue:       q,
		provider:    provider,
		logger:      slog.Default(),
	}, nil
}

// Close drains the queue and releases every component.
func (db *Database) Close() error {
	db.queue.Release()

	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.profileRepo.Close(); err != nil {
		db.logger.Error("error closing profile repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ProfileRepository returns the profile storage.
func (db *Database) ProfileRepository() storage.ProfileRepository {
	return db.profileRepo
}

// DocumentStore returns the raw document store.
func (db *Database) DocumentStore() *document.Store {
	return db.docStore
}

// Queue returns the job queue.
func (db *Database) Queue() *queue.Queue {
	return db.queue
}

// NewIngestionPipeline creates a processing pipeline bound to this
// database's storage, documents, provider, and queue.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.profileRepo, db.docStore, db.provider, db.queue, opts...)
}

// NewSearcher creates a semantic searcher over this database's profiles.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.profileRepo, db.provider, opts...)
}

// NewReembedder creates a reembedder over this database's profiles.
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.profileRepo, db.provider.Embedder(), config, progress)
}
