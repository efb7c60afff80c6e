package review

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChangedFiles(t *testing.T) {
	diff := `diff --git a/src/main.go b/src/main.go
--- a/src/main.go
+++ b/src/main.go
@@ -1 +1 @@
diff --git a/docs/readme.md b/docs/readme.md
--- a/docs/readme.md
+++ b/docs/readme.md
`
	got := changedFiles(diff)
	want := []string{"src/main.go", "docs/readme.md"}
	if len(got) != len(want) {
		t.Fatalf("changedFiles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("changedFiles[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if files := changedFiles("not a diff at all"); files != nil {
		t.Errorf("changedFiles on non-diff = %v, want nil", files)
	}
}

func TestExtractContext(t *testing.T) {
	llm := &mockCompleter{content: "# MR Context\n\nRefactors the main loop.\n"}
	s, cfg := newTestService(t, llm)

	diffPath := filepath.Join(t.TempDir(), "mr.diff")
	writeFile(t, diffPath, chunkFixture)

	if err := s.ExtractContext(context.Background(), diffPath); err != nil {
		t.Fatalf("ExtractContext error: %v", err)
	}

	data, err := os.ReadFile(cfg.Paths.ContextFilePath())
	if err != nil {
		t.Fatalf("context artifact not written: %v", err)
	}
	if !strings.Contains(string(data), "Refactors the main loop.") {
		t.Errorf("artifact content = %q", data)
	}
	if !strings.Contains(llm.requests[0].UserPrompt, "+// changed") {
		t.Error("prompt missing diff content")
	}
}

func TestExtractContext_TruncatesLargeDiff(t *testing.T) {
	llm := &mockCompleter{content: "ctx"}
	s, _ := newTestService(t, llm)

	padding := strings.Repeat("+x\n", (maxContextDiffChars/3)+1000)
	diffPath := filepath.Join(t.TempDir(), "big.diff")
	writeFile(t, diffPath, chunkFixture+padding)

	if err := s.ExtractContext(context.Background(), diffPath); err != nil {
		t.Fatalf("ExtractContext error: %v", err)
	}
	prompt := llm.requests[0].UserPrompt
	if len(prompt) > maxContextDiffChars+5_000 {
		t.Errorf("prompt length %d, diff was not truncated", len(prompt))
	}
}

func TestLoadMRContext_Fallback(t *testing.T) {
	s, cfg := newTestService(t, &mockCompleter{})

	if got := s.loadMRContext(); !strings.Contains(got, "not available") {
		t.Errorf("fallback = %q", got)
	}

	writeFile(t, cfg.Paths.ContextFilePath(), "real context\n")
	if got := s.loadMRContext(); got != "real context\n" {
		t.Errorf("loadMRContext = %q", got)
	}
}
