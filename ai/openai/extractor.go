// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/cvindex/ai"
	"github.com/poiesic/cvindex/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ProfileExtractor implements ai.ProfileExtractor using OpenAI-compatible chat APIs.
type ProfileExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// newProfileExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newProfileExtractor(config *ai.Config) (*ProfileExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &ProfileExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewProfileExtractor creates a new profile extractor using the provided configuration.
//
// Returns ai.ProfileExtractor interface to enforce abstraction.
func NewProfileExtractor(config *ai.Config) (ai.ProfileExtractor, error) {
	return newProfileExtractor(config)
}

// ExtractProfile sends the resume text to the language model with a fixed
// instruction prompt and coerces the free-text reply into a Profile.
//
// The reply is untrusted: the substring between the first '{' and the last '}'
// is parsed, and each expected field is decoded independently so a single
// malformed field drops only that field. A reply with no parseable object
// yields an empty profile; the email validation gate downstream decides
// whether the job fails.
func (e *ProfileExtractor) ExtractProfile(ctx context.Context, resumeText string) (*core.Profile, error) {
	prompt := fmt.Sprintf(extractionPromptTemplate, extractionShapeExample, resumeText)
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		e.logger.Error("failed to generate content", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		e.logger.Debug("no choices returned from model")
		return &core.Profile{}, nil
	}

	profile := parseExtractionReply(response.Choices[0].Content)
	e.logger.Debug("extracted profile",
		"email", profile.Email,
		"skills", len(profile.Skills),
		"experience", len(profile.WorkExperience))
	return profile, nil
}

// parseExtractionReply coerces a model reply into a Profile, best-effort.
func parseExtractionReply(reply string) *core.Profile {
	object := extractJSONObject(reply)
	if object == "" {
		return &core.Profile{}
	}

	// Try to repair common JSON issues before decoding
	object = repairJSON(object)
	return decodeProfile([]byte(object))
}

// extractJSONObject returns the substring between the first '{' and the last
// '}' in s, or "" when no such pair exists.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

// decodeProfile performs a strict per-field decode of the extracted object.
// Fields that are absent or of the wrong shape are dropped rather than
// failing the whole result; a wholly unparseable object yields an empty
// profile.
func decodeProfile(data []byte) *core.Profile {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return &core.Profile{}
	}

	profile := &core.Profile{}
	decodeField(fields, "firstName", &profile.FirstName)
	decodeField(fields, "lastName", &profile.LastName)
	decodeField(fields, "email", &profile.Email)
	decodeField(fields, "phoneNumber", &profile.PhoneNumber)
	decodeField(fields, "skills", &profile.Skills)
	decodeField(fields, "education", &profile.Education)
	decodeField(fields, "workExperience", &profile.WorkExperience)
	decodeField(fields, "certifications", &profile.Certifications)
	return profile
}

// decodeField decodes one field into dst, leaving dst untouched when the
// field is missing or does not match the expected shape.
func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return
	}
	*dst = value
}
