// Package ai defines the interfaces for external model services used by the
// processing pipeline: text embedding and LLM-backed profile extraction.
//
// The package contains only interfaces and configuration; concrete
// implementations live in subpackages:
//
//   - ai/openai: langchaingo-backed client for OpenAI-compatible endpoints
//     (Ollama, LocalAI, vLLM, OpenAI itself)
//   - ai/mock: deterministic test doubles
//
// Both services are treated as unreliable collaborators: transport failures
// propagate as errors, while malformed-but-reachable model output degrades to
// partial or empty extraction results.
package ai
