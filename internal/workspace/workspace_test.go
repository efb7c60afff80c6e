package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReset_ClearsContents(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "old.diff"), []byte("x"), 0o644)
	os.MkdirAll(filepath.Join(dir, "nested", "deep"), 0o755)
	os.WriteFile(filepath.Join(dir, "nested", "deep", "f"), []byte("y"), 0o644)

	if err := Reset(dir); err != nil {
		t.Fatalf("Reset error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("directory entry removed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("directory not empty after reset: %d entries", len(entries))
	}
}

func TestReset_CreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not", "yet", "there")
	if err := Reset(dir); err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}

func TestReset_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ws")
	for i := 0; i < 2; i++ {
		if err := Reset(dir); err != nil {
			t.Fatalf("Reset call %d error: %v", i+1, err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("Reset call %d: %v", i+1, err)
		}
		if len(entries) != 0 {
			t.Errorf("Reset call %d: directory not empty", i+1)
		}
	}
}

func TestReset_MultipleDirs(t *testing.T) {
	base := t.TempDir()
	dirs := []string{
		filepath.Join(base, "chunks"),
		filepath.Join(base, "out"),
		filepath.Join(base, "diff"),
		filepath.Join(base, "logs"),
	}
	if err := Reset(dirs...); err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	for _, d := range dirs {
		if _, err := os.Stat(d); err != nil {
			t.Errorf("%s missing after reset: %v", d, err)
		}
	}
}

func TestReset_UnsafeTargets(t *testing.T) {
	tests := []struct {
		name string
		dir  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"root", "/"},
		{"dot", "."},
		{"dotdot", ".."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Reset(tt.dir)
			if !errors.Is(err, ErrUnsafeResetTarget) {
				t.Errorf("Reset(%q) = %v, want ErrUnsafeResetTarget", tt.dir, err)
			}
		})
	}
}

func TestReset_RejectsUnsafeBeforeClearingAny(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "keep"), []byte("x"), 0o644)

	// The unsafe target comes first; nothing may be cleared.
	if err := Reset("", dir); !errors.Is(err, ErrUnsafeResetTarget) {
		t.Fatalf("err = %v, want ErrUnsafeResetTarget", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "keep")); err != nil {
		t.Error("valid directory was cleared despite unsafe sibling")
	}
}
