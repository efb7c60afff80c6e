// Package pipeline sequences one review run.
//
// The Driver advances through a fixed stage order: input validation,
// workspace reset, multi-project merge (when more than one diff is
// supplied), MR context extraction, chunking, per-chunk dispatch, and
// summary aggregation. Every stage returns an explicit error and the first
// failure short-circuits the remaining stages; nothing is retried.
//
// The Dispatcher invokes the reviewer entry point once per chunk, strictly
// in ascending sequence order, never starting a chunk before the previous
// invocation has returned. Collaborator processes (reviewer, context
// extractor, aggregator) are reached through the CommandRunner seam; by
// default the configured entry points are executed, falling back to the
// running binary's own subcommands when none are configured.
package pipeline
