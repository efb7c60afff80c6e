package review

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/mrscope/internal/config"
)

// maxReviewsChars caps the concatenated reviews sent for summarization;
// overflow drops the oldest reviews (the head).
const maxReviewsChars = 250_000

// Summarize aggregates every per-chunk review in the output directory into
// the summary artifact at outPath. Returns the number of reviews collected;
// zero reviews produce no artifact and no error.
func (s *Service) Summarize(ctx context.Context, outPath string) (int, error) {
	s.log.Info("SUMMARY START", "results_dir", s.cfg.Paths.OutDir)

	entries, err := os.ReadDir(s.cfg.Paths.OutDir)
	if err != nil {
		return 0, fmt.Errorf("reading results directory: %w", err)
	}

	// Never ingest a previous summary when it lives in the results dir.
	skip := ""
	if filepath.Clean(filepath.Dir(outPath)) == filepath.Clean(s.cfg.Paths.OutDir) {
		skip = filepath.Base(outPath)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") || name == config.ContextFileName || name == skip {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var reviews strings.Builder
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.cfg.Paths.OutDir, name))
		if err != nil {
			return 0, fmt.Errorf("reading review %s: %w", name, err)
		}
		fmt.Fprintf(&reviews, "\n# File: %s\n%s\n", name, strings.ToValidUTF8(string(data), ""))
	}

	if len(names) == 0 {
		s.log.Warn("NO REVIEW FILES FOUND")
		return 0, nil
	}

	all := reviews.String()
	s.log.Info("LOADED REVIEWS", "chars", len(all), "files", len(names))
	if len(all) > maxReviewsChars {
		s.log.Warn("REVIEWS TOO LARGE, TRUNCATING", "chars", len(all), "limit", maxReviewsChars)
		all = all[len(all)-maxReviewsChars:]
	}

	prompt := renderSummaryPrompt(s.loadMRContext(), all, s.now().Format(timestampLayout), len(names))
	content, err := s.complete(ctx, summarySystemPrompt, prompt)
	if err != nil {
		return 0, fmt.Errorf("summarizing reviews: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, fmt.Errorf("creating summary directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return 0, fmt.Errorf("writing summary: %w", err)
	}

	s.log.Info("SUMMARY WRITTEN", "path", outPath, "bytes", len(content))
	return len(names), nil
}
