// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder,
// ai.ProfileExtractor, and ai.Provider for use in unit tests. The mocks allow
// tests to run without external AI service dependencies and enable
// controlled, deterministic behavior.
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockProfileExtractor: Scrapes name and email tokens from the text
//   - MockProvider: Aggregates mock embedder and extractor
//
// Inject custom behavior through the exported function fields and check call
// counts with CallCount().
package mock
