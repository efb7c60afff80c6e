// Package cli wires together the Cobra command tree for the mrscope binary.
//
// It defines the root command and all subcommands (run, merge, review-chunk,
// extract-context, summarize, config, version), binds flags, loads
// configuration, drives the pipeline, and returns deterministic exit codes.
package cli
