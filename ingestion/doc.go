// Package ingestion implements the asynchronous resume processing
// pipeline.
//
// Submission is synchronous only up to durability: the raw document is
// validated, written to the document store, and a delayed job is queued.
// All semantic work happens later on a queue worker: PDF text extraction,
// LLM profile extraction, email validation, embedding generation, and
// profile storage. A failure at any stage fails the job terminally and
// leaves the stored document in place.
package ingestion
