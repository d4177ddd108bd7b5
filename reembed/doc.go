// Package reembed regenerates the embeddings of stored candidate profiles
// after an embedding model change.
//
// Digests are rebuilt from the structured fields already in storage, so
// reembedding never touches the original documents or the extraction
// model. The package supports batch processing, progress tracking, and
// retry with exponential backoff.
package reembed
