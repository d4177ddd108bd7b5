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

package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/cvindex/ai"
	"github.com/poiesic/cvindex/document"
	"github.com/poiesic/cvindex/queue"
	"github.com/poiesic/cvindex/storage"
)

// TaskProcessCV is the queue task type for resume processing jobs.
const TaskProcessCV = "process-cv"

// DefaultDelay is how long a submitted document waits before processing
// begins.
const DefaultDelay = 3 * time.Second

// File is one resume document submitted for processing.
type File struct {
	Name string
	Data []byte
}

// jobPayload is the JSON body of a processing job.
type jobPayload struct {
	DocumentPath string `json:"documentPath"`
	FileName     string `json:"fileName"`
}

// Pipeline orchestrates asynchronous resume processing: persist the raw
// document, queue a delayed job, and on dispatch run extraction,
// validation, embedding, and storage.
type Pipeline struct {
	profiles    storage.ProfileRepository
	docs        *document.Store
	embedder    ai.Embedder
	extractor   ai.ProfileExtractor
	queue       *queue.Queue
	delay       time.Duration
	extractText func([]byte) (string, error)
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithDelay sets the queue delay applied to submitted documents.
// Default is DefaultDelay.
func WithDelay(delay time.Duration) Option {
	return func(p *Pipeline) error {
		if delay >= 0 {
			p.delay = delay
		}
		return nil
	}
}

// WithTextExtractor replaces the PDF text extraction function.
// Default is document.ExtractText.
func WithTextExtractor(fn func([]byte) (string, error)) Option {
	return func(p *Pipeline) error {
		if fn != nil {
			p.extractText = fn
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a processing pipeline and binds its job handler to
// the queue.
func NewPipeline(
	profiles storage.ProfileRepository,
	docs *document.Store,
	provider ai.Provider,
	q *queue.Queue,
	opts ...Option,
) (*Pipeline, error) {
	if profiles == nil {
		return nil, ErrProfileRepositoryRequired
	}
	if docs == nil {
		return nil, ErrDocumentStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if q == nil {
		return nil, ErrQueueRequired
	}

	p := &Pipeline{
		profiles:    profiles,
		docs:        docs,
		embedder:    provider.Embedder(),
		extractor:   provider.ProfileExtractor(),
		queue:       q,
		delay:       DefaultDelay,
		extractText: document.ExtractText,
		logger:      slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	q.RegisterHandler(TaskProcessCV, p.process)
	return p, nil
}

// Submit validates and persists one resume document, then queues its
// processing job. Returns the job ID.
func (p *Pipeline) Submit(ctx context.Context, fileName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNoDocument
	}
	if !document.IsPDF(data) {
		return "", fmt.Errorf("%w: %s", document.ErrNotPDF, fileName)
	}

	// The document is durable before the job referencing it exists
	path, err := p.docs.Save(fileName, data)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(jobPayload{DocumentPath: path, FileName: fileName})
	if err != nil {
		return "", err
	}

	jobID, err := p.queue.Enqueue(ctx, TaskProcessCV, payload, p.delay)
	if err != nil {
		return "", err
	}

	p.logger.Info("document submitted", "file", fileName, "path", path, "job", jobID)
	return jobID, nil
}

// SubmitAll submits a batch of documents, stopping at the first failure.
// Returns the job IDs of every successfully queued document.
func (p *Pipeline) SubmitAll(ctx context.Context, files []File) ([]string, error) {
	ids := make([]string, 0, len(files))
	for _, f := range files {
		id, err := p.Submit(ctx, f.Name, f.Data)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Wait blocks until every queued job has finished.
func (p *Pipeline) Wait() {
	p.queue.Wait()
}
