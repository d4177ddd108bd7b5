package openai

import (
	"testing"

	"github.com/poiesic/cvindex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "bare object",
			reply: `{"email":"jane@example.com"}`,
			want:  `{"email":"jane@example.com"}`,
		},
		{
			name:  "object surrounded by prose",
			reply: "Here is the extracted data:\n{\"email\":\"jane@example.com\"}\nLet me know if you need more.",
			want:  `{"email":"jane@example.com"}`,
		},
		{
			name:  "markdown fenced object",
			reply: "```json\n{\"email\":\"jane@example.com\"}\n```",
			want:  `{"email":"jane@example.com"}`,
		},
		{
			name:  "no braces",
			reply: "I could not find any structured data in that resume.",
			want:  "",
		},
		{
			name:  "closing brace before opening brace",
			reply: "} nothing useful {",
			want:  "",
		},
		{
			name:  "empty reply",
			reply: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONObject(tt.reply))
		})
	}
}

func TestParseExtractionReply_FullProfile(t *testing.T) {
	reply := `Sure! Here is the JSON:
{
  "firstName": "Jane",
  "lastName": "Doe",
  "email": "jane@example.com",
  "phoneNumber": "+1 555 0100",
  "skills": ["Go", "Kubernetes"],
  "education": [
    {"degree": "BSc", "university": "MIT", "year": "2015"}
  ],
  "workExperience": [
    {"jobTitle": "Backend Engineer", "company": "Acme", "duration": "4 years"}
  ],
  "certifications": ["CKA"]
}`

	profile := parseExtractionReply(reply)
	require.NotNil(t, profile)
	assert.Equal(t, "Jane", profile.FirstName)
	assert.Equal(t, "Doe", profile.LastName)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, "+1 555 0100", profile.PhoneNumber)
	assert.Equal(t, []string{"Go", "Kubernetes"}, profile.Skills)
	assert.Equal(t, []core.Education{{Degree: "BSc", University: "MIT", Year: "2015"}}, profile.Education)
	assert.Equal(t, []core.WorkExperience{{JobTitle: "Backend Engineer", Company: "Acme", Duration: "4 years"}}, profile.WorkExperience)
	assert.Equal(t, []string{"CKA"}, profile.Certifications)
}

func TestParseExtractionReply_NoBraces(t *testing.T) {
	profile := parseExtractionReply("no structured data here")
	require.NotNil(t, profile)
	assert.Equal(t, &core.Profile{}, profile)
}

func TestParseExtractionReply_UnparseableObject(t *testing.T) {
	profile := parseExtractionReply(`{"email": "jane@example.com", [[[}`)
	require.NotNil(t, profile)
	assert.Empty(t, profile.Email)
}

func TestDecodeProfile_DropsMismatchedFields(t *testing.T) {
	// skills is a string instead of an array, email is a number:
	// each mismatched field is dropped, the rest survive.
	data := []byte(`{
	  "firstName": "Jane",
	  "email": 42,
	  "skills": "Go, Kubernetes",
	  "certifications": ["CKA"]
	}`)

	profile := decodeProfile(data)
	assert.Equal(t, "Jane", profile.FirstName)
	assert.Empty(t, profile.Email)
	assert.Empty(t, profile.Skills)
	assert.Equal(t, []string{"CKA"}, profile.Certifications)
}

func TestDecodeProfile_DropsMismatchedEntryShape(t *testing.T) {
	// education entries are strings, not objects: the whole field is dropped
	// rather than fabricating defaults.
	data := []byte(`{
	  "email": "jane@example.com",
	  "education": ["BSc, MIT, 2015"]
	}`)

	profile := decodeProfile(data)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Empty(t, profile.Education)
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "missing opening quote on key",
			input: `{email": "jane@example.com"}`,
			want:  `{"email": "jane@example.com"}`,
		},
		{
			name:  "missing opening quote after comma",
			input: `{"firstName": "Jane", email": "jane@example.com"}`,
			want:  `{"firstName": "Jane", "email": "jane@example.com"}`,
		},
		{
			name:  "well-formed input unchanged",
			input: `{"email": "jane@example.com"}`,
			want:  `{"email": "jane@example.com"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.input))
		})
	}
}
