// Package providers implements the LLM client used by the built-in reviewer
// commands.
//
// Client talks to a single OpenAI-compatible chat completions endpoint
// configured by URL: OpenAI, Ollama, LM Studio, vLLM, or any in-house
// gateway speaking that wire format. Rate-limit responses are retried with exponential backoff;
// authentication failures are surfaced as typed errors and never retried.
package providers
