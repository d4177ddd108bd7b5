// Package search provides embedding-based semantic search over stored
// candidate profiles.
//
// A query is embedded once, normalized, and matched against stored profile
// embeddings by cosine similarity. Only profiles clearing the similarity
// floor are returned, ranked highest first.
package search
