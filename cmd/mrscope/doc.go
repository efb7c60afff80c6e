// Mrscope is a CLI pipeline for LLM-backed merge request review.
//
// It splits a unified diff into one chunk per changed file, reviews each
// chunk with an LLM against the original file content, and aggregates the
// per-chunk reports into one summary document. Diffs from multiple projects
// can be merged into a single run, with every path prefixed by its project
// name.
//
// Usage:
//
//	mrscope run --diff mr.diff --project ~/src/backend
//	mrscope run --range origin/main..HEAD --project ~/src/backend
//	mrscope run --diffs be.diff,fe.diff --names backend,frontend
//	mrscope merge --diffs be.diff,fe.diff --names backend,frontend
//	mrscope config init
//
// See https://github.com/dshills/mrscope for full documentation.
package main
