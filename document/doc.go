// Package document handles raw resume documents: persistence under an
// injected storage root, PDF detection, and plain-text extraction with
// whitespace normalization.
//
// The pipeline writes a document exactly once at submission time and reads
// it exactly once at processing time; documents are never mutated. Failed
// jobs leave their document in place for manual inspection and
// re-submission.
package document
