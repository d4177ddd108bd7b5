// Package openai implements the ai service interfaces against
// OpenAI-compatible HTTP APIs using langchaingo.
//
// It works with any endpoint speaking the OpenAI wire protocol, including
// local Ollama, LocalAI and vLLM deployments. Model replies are treated as
// untrusted free text: the extractor scans for a brace-delimited JSON object,
// repairs common formatting damage, and decodes fields individually so a
// partially malformed reply still yields a partial profile.
package openai
