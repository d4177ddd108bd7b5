// Package storage defines the persistence interfaces and serialization
// helpers for candidate profiles.
//
// The ProfileRepository interface is the storage contract consumed by the
// ingestion pipeline and the searcher. The badger subpackage provides the
// embedded implementation; tests can use its in-memory mode.
//
// Profiles are serialized with the mus-go binary format. Each profile owns
// two unique secondary indices, one on its email address and one on its
// stored document path; violating either surfaces as ErrDuplicateKey.
package storage
