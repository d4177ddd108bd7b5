package ingestion

import "errors"

var (
	// ErrProfileRepositoryRequired is returned when a profile repository is not provided.
	ErrProfileRepositoryRequired = errors.New("profile repository required")

	// ErrDocumentStoreRequired is returned when a document store is not provided.
	ErrDocumentStoreRequired = errors.New("document store required")

	// ErrQueueRequired is returned when a job queue is not provided.
	ErrQueueRequired = errors.New("job queue required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrNoDocument is returned when a submission carries no document bytes.
	ErrNoDocument = errors.New("no document provided")

	// ErrExternalService indicates a failure calling the extraction or
	// embedding service. The job fails; the document stays on disk for
	// re-submission.
	ErrExternalService = errors.New("external service failure")
)
