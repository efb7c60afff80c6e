package review

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/mrscope/internal/logging"
)

const chunkFixture = `diff --git a/src/main.go b/src/main.go
index 1111111..2222222 100644
--- a/src/main.go
+++ b/src/main.go
@@ -1,3 +1,4 @@
 package main
+// changed
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReviewChunk(t *testing.T) {
	llm := &mockCompleter{content: "## Findings\nnone\n"}
	s, cfg := newTestService(t, llm)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.go"), "package main\n\nfunc main() {}\n")

	chunkPath := filepath.Join(cfg.Paths.ChunksDir, "001.diff")
	writeFile(t, chunkPath, chunkFixture)
	outPath := filepath.Join(cfg.Paths.OutDir, "001.md")

	if err := s.ReviewChunk(context.Background(), chunkPath, root, outPath); err != nil {
		t.Fatalf("ReviewChunk error: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if string(data) != "## Findings\nnone\n" {
		t.Errorf("report content = %q", data)
	}

	prompt := llm.requests[0].UserPrompt
	if !strings.Contains(prompt, "src/main.go") {
		t.Error("prompt missing target file path")
	}
	if !strings.Contains(prompt, "+// changed") {
		t.Error("prompt missing diff content")
	}
	if !strings.Contains(prompt, "func main() {}") {
		t.Error("prompt missing original file content")
	}
}

func TestReviewChunk_MissingOriginal(t *testing.T) {
	llm := &mockCompleter{content: "ok"}
	s, cfg := newTestService(t, llm)

	chunkPath := filepath.Join(cfg.Paths.ChunksDir, "001.diff")
	writeFile(t, chunkPath, chunkFixture)

	root := t.TempDir() // no src/main.go inside
	if err := s.ReviewChunk(context.Background(), chunkPath, root, filepath.Join(cfg.Paths.OutDir, "001.md")); err != nil {
		t.Fatalf("ReviewChunk error: %v", err)
	}
	if !strings.Contains(llm.requests[0].UserPrompt, "<FILE NOT FOUND: src/main.go>") {
		t.Error("prompt missing the not-found marker for a new file")
	}
}

func TestLoadOriginal_MultiRootPrefix(t *testing.T) {
	s, _ := newTestService(t, &mockCompleter{})

	base := t.TempDir()
	alpha := filepath.Join(base, "alpha")
	beta := filepath.Join(base, "beta")
	writeFile(t, filepath.Join(alpha, "src", "main.go"), "alpha content\n")
	writeFile(t, filepath.Join(beta, "src", "main.go"), "beta content\n")
	roots := []string{alpha, beta}

	// merged-diff paths carry the project name as first segment
	if got := s.loadOriginal(roots, "beta/src/main.go"); got != "beta content\n" {
		t.Errorf("loadOriginal = %q, want the beta project's file", got)
	}
	if got := s.loadOriginal(roots, "alpha/src/main.go"); got != "alpha content\n" {
		t.Errorf("loadOriginal = %q, want the alpha project's file", got)
	}
	if got := s.loadOriginal(roots, "gamma/src/main.go"); !strings.HasPrefix(got, "<FILE NOT FOUND:") {
		t.Errorf("loadOriginal = %q, want not-found marker for unknown project", got)
	}
}

func TestLoadOriginal_SingleRoot(t *testing.T) {
	s, _ := newTestService(t, &mockCompleter{})

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "util.go"), "util content\n")

	if got := s.loadOriginal([]string{root}, "src/util.go"); got != "util content\n" {
		t.Errorf("loadOriginal = %q", got)
	}
}

func TestTruncateOriginal(t *testing.T) {
	log := logging.Discard()

	small := strings.Repeat("a", 1000)
	if got := truncateOriginal(small, log); got != small {
		t.Error("small file was modified")
	}

	head := strings.Repeat("h", originalHeadBytes)
	middle := strings.Repeat("m", maxOriginalBytes)
	tail := strings.Repeat("t", 10_000)
	got := truncateOriginal(head+middle+tail, log)

	if !strings.HasPrefix(got, head) {
		t.Error("head not preserved")
	}
	if !strings.HasSuffix(got, strings.Repeat("t", 10_000)) {
		t.Error("tail not preserved")
	}
	if !strings.Contains(got, "[... middle section truncated ...]") {
		t.Error("truncation marker missing")
	}
}
