package search

import "github.com/poiesic/cvindex/core"

// SearchMonitor receives callbacks at each stage of a search.
// Implementations must not retain the slices they are handed.
type SearchMonitor interface {
	// Start is called when a search begins.
	Start(query string)

	// AfterQueryEmbedding is called with the normalized query vector.
	AfterQueryEmbedding(vector []float32)

	// AfterVectorSearch is called with the raw candidate matches, before
	// trimming to the hit limit.
	AfterVectorSearch(matches []*core.ProfileMatch)

	// Finish is called with the final ranked results.
	Finish(results []*core.ProfileMatch)
}

// noopMonitor is used when no monitor is provided.
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (m *noopMonitor) Start(query string)                            {}
func (m *noopMonitor) AfterQueryEmbedding(vector []float32)          {}
func (m *noopMonitor) AfterVectorSearch(matches []*core.ProfileMatch) {}
func (m *noopMonitor) Finish(results []*core.ProfileMatch)           {}
