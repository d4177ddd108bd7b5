package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddingDigest_AllSegments(t *testing.T) {
	profile := &Profile{
		Email:  "jane@example.com",
		Skills: []string{"Go", "PostgreSQL"},
		Education: []Education{
			{Degree: "BSc Computer Science", University: "MIT", Year: "2015"},
		},
		WorkExperience: []WorkExperience{
			{JobTitle: "Backend Engineer", Company: "Acme", Duration: "2015-2019"},
			{JobTitle: "Staff Engineer", Company: "Globex", Duration: "2019-2024"},
		},
		Certifications: []string{"CKA"},
	}

	want := "Experience: Backend Engineer at Acme (2015-2019); Staff Engineer at Globex (2019-2024)" +
		" | Skills: Go, PostgreSQL" +
		" | Education: BSc Computer Science from MIT (2015)" +
		" | Certifications: CKA"
	assert.Equal(t, want, EmbeddingDigest(profile))
}

func TestEmbeddingDigest_Deterministic(t *testing.T) {
	profile := &Profile{
		Skills: []string{"Go", "Rust"},
		WorkExperience: []WorkExperience{
			{JobTitle: "Engineer", Company: "Acme", Duration: "3 years"},
		},
	}

	first := EmbeddingDigest(profile)
	second := EmbeddingDigest(profile)
	assert.Equal(t, first, second)
}

func TestEmbeddingDigest_OmitsEmptySegments(t *testing.T) {
	tests := []struct {
		name    string
		profile *Profile
		want    string
	}{
		{
			name:    "empty profile",
			profile: &Profile{Email: "jane@example.com"},
			want:    "",
		},
		{
			name:    "skills only",
			profile: &Profile{Skills: []string{"Go"}},
			want:    "Skills: Go",
		},
		{
			name: "skills and certifications skip middle segments",
			profile: &Profile{
				Skills:         []string{"Go"},
				Certifications: []string{"CKA", "CKS"},
			},
			want: "Skills: Go | Certifications: CKA, CKS",
		},
		{
			name: "experience only",
			profile: &Profile{
				WorkExperience: []WorkExperience{
					{JobTitle: "Engineer", Company: "Acme", Duration: "2 years"},
				},
			},
			want: "Experience: Engineer at Acme (2 years)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EmbeddingDigest(tt.profile))
		})
	}
}
