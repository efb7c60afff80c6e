// Package review implements the three LLM-backed collaborators of the
// pipeline: MR context extraction, per-chunk review, and summary
// aggregation.
//
// Each operation reads its inputs from the run workspace, assembles a
// prompt, calls the configured chat completions endpoint, and writes one
// markdown artifact. Oversized inputs are truncated before prompting:
// the whole diff for context extraction, the original file for chunk review
// (keeping the head and the tail), and the concatenated reviews for
// summarization (keeping the tail). Responses are cached outside the
// workspace keyed by model and prompt, so unchanged chunks skip the model
// call on re-runs.
package review
