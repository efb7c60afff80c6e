package review

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// maxContextDiffChars caps the diff size sent for context extraction.
const maxContextDiffChars = 60_000

var changedFileRe = regexp.MustCompile(`(?m)^diff --git a/(.*?) b/`)

// changedFiles extracts the list of changed file paths from a diff stream.
func changedFiles(diff string) []string {
	var files []string
	for _, m := range changedFileRe.FindAllStringSubmatch(diff, -1) {
		files = append(files, m[1])
	}
	return files
}

// ExtractContext analyzes the whole (merged) diff and writes the MR context
// artifact to its fixed location in the output directory.
func (s *Service) ExtractContext(ctx context.Context, diffPath string) error {
	s.log.Info("MR_CONTEXT EXTRACTION START", "diff", diffPath)

	data, err := os.ReadFile(diffPath)
	if err != nil {
		return fmt.Errorf("reading diff: %w", err)
	}
	diff := string(data)
	s.log.Info("DIFF LOADED", "bytes", len(diff))

	files := changedFiles(diff)
	s.log.Info("FILES CHANGED", "count", len(files))

	if len(diff) > maxContextDiffChars {
		s.log.Warn("DIFF TOO LARGE, TRUNCATING", "bytes", len(diff), "limit", maxContextDiffChars)
		diff = diff[:maxContextDiffChars]
	}

	prompt := renderContextPrompt(s.sanitize(diff), s.now().Format(timestampLayout), len(files))
	content, err := s.complete(ctx, contextSystemPrompt, prompt)
	if err != nil {
		return fmt.Errorf("extracting MR context: %w", err)
	}

	outPath := s.cfg.Paths.ContextFilePath()
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing MR context: %w", err)
	}

	s.log.Info("MR_CONTEXT WRITTEN", "path", outPath, "bytes", len(content))
	return nil
}

// loadMRContext reads the MR context artifact, falling back to a stub when
// the extraction stage has not run.
func (s *Service) loadMRContext() string {
	data, err := os.ReadFile(s.cfg.Paths.ContextFilePath())
	if err != nil {
		s.log.Warn("MR_CONTEXT FILE NOT FOUND", "path", s.cfg.Paths.ContextFilePath())
		return "MR context not available - reviewing in isolation."
	}
	return strings.ToValidUTF8(string(data), "")
}
