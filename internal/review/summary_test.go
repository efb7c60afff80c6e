package review

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/mrscope/internal/config"
)

func TestSummarize(t *testing.T) {
	llm := &mockCompleter{content: "# Review Summary\n\nAll good.\n"}
	s, cfg := newTestService(t, llm)

	writeFile(t, filepath.Join(cfg.Paths.OutDir, "001.md"), "first review\n")
	writeFile(t, filepath.Join(cfg.Paths.OutDir, "002.md"), "second review\n")
	writeFile(t, filepath.Join(cfg.Paths.OutDir, config.ContextFileName), "the MR context\n")
	writeFile(t, filepath.Join(cfg.Paths.OutDir, "notes.txt"), "not a review\n")

	count, err := s.Summarize(context.Background(), cfg.Paths.SummaryFile)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	data, err := os.ReadFile(cfg.Paths.SummaryFile)
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	if !strings.Contains(string(data), "All good.") {
		t.Errorf("summary content = %q", data)
	}

	prompt := llm.requests[0].UserPrompt
	if !strings.Contains(prompt, "# File: 001.md") || !strings.Contains(prompt, "# File: 002.md") {
		t.Error("prompt missing per-review headers")
	}
	if !strings.Contains(prompt, "first review") || !strings.Contains(prompt, "second review") {
		t.Error("prompt missing review bodies")
	}
	if strings.Contains(prompt, "not a review") {
		t.Error("non-markdown file was ingested")
	}
	// The context artifact feeds the prompt separately, never as a review.
	if strings.Contains(prompt, "# File: "+config.ContextFileName) {
		t.Error("context artifact was ingested as a review")
	}
}

func TestSummarize_NoReviews(t *testing.T) {
	s, cfg := newTestService(t, &mockCompleter{})
	if err := os.MkdirAll(cfg.Paths.OutDir, 0o755); err != nil {
		t.Fatal(err)
	}

	count, err := s.Summarize(context.Background(), cfg.Paths.SummaryFile)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	if _, err := os.Stat(cfg.Paths.SummaryFile); !os.IsNotExist(err) {
		t.Error("summary artifact written despite zero reviews")
	}
}

func TestSummarize_SkipsOwnArtifact(t *testing.T) {
	llm := &mockCompleter{content: "summary"}
	s, cfg := newTestService(t, llm)

	// Summary configured to live inside the results directory.
	outPath := filepath.Join(cfg.Paths.OutDir, "summary.md")
	writeFile(t, outPath, "a previous run's summary\n")
	writeFile(t, filepath.Join(cfg.Paths.OutDir, "001.md"), "review one\n")

	count, err := s.Summarize(context.Background(), outPath)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if strings.Contains(llm.requests[0].UserPrompt, "a previous run's summary") {
		t.Error("previous summary was ingested as a review")
	}
}

func TestSummarize_TruncatesOldestFirst(t *testing.T) {
	llm := &mockCompleter{content: "summary"}
	s, cfg := newTestService(t, llm)

	writeFile(t, filepath.Join(cfg.Paths.OutDir, "001.md"), "OLDEST "+strings.Repeat("a", maxReviewsChars))
	writeFile(t, filepath.Join(cfg.Paths.OutDir, "002.md"), "NEWEST review\n")

	if _, err := s.Summarize(context.Background(), cfg.Paths.SummaryFile); err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	prompt := llm.requests[0].UserPrompt
	if strings.Contains(prompt, "OLDEST") {
		t.Error("head of oversized reviews not dropped")
	}
	if !strings.Contains(prompt, "NEWEST review") {
		t.Error("tail of oversized reviews not kept")
	}
}
