package mock

import (
	"context"
	"strings"

	"github.com/poiesic/cvindex/core"
)

// MockProfileExtractor is a test double for ai.ProfileExtractor.
// It allows custom behavior injection via function fields.
type MockProfileExtractor struct {
	// ExtractProfileFunc is called by ExtractProfile if set.
	// If nil, uses default naive text scraping.
	ExtractProfileFunc func(ctx context.Context, resumeText string) (*core.Profile, error)

	callCount int
}

// NewMockProfileExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockProfileExtractor() *MockProfileExtractor {
	return &MockProfileExtractor{}
}

// ExtractProfile scrapes a minimal profile from the text.
// Default behavior: the first token containing '@' becomes the email, the
// first two tokens become first and last name. Mirrors the best-effort,
// possibly-empty semantics of the real extractor.
func (m *MockProfileExtractor) ExtractProfile(ctx context.Context, resumeText string) (*core.Profile, error) {
	m.callCount++

	if m.ExtractProfileFunc != nil {
		return m.ExtractProfileFunc(ctx, resumeText)
	}

	profile := &core.Profile{}
	tokens := strings.Fields(resumeText)
	for i, token := range tokens {
		if profile.Email == "" && strings.Contains(token, "@") {
			profile.Email = strings.Trim(token, ".,;:()<>")
			continue
		}
		if i == 0 {
			profile.FirstName = token
		}
		if i == 1 {
			profile.LastName = token
		}
	}

	return profile, nil
}

// CallCount returns the number of times ExtractProfile was called.
func (m *MockProfileExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockProfileExtractor) Reset() {
	m.callCount = 0
	m.ExtractProfileFunc = nil
}
