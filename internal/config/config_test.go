package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.LLM.APIURL == "" || cfg.LLM.Model == "" {
		t.Error("default llm section incomplete")
	}
	if !cfg.LLM.RedactSecrets {
		t.Error("secret redaction not on by default")
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `paths:
  LOG_DIR: /ws/logs
  LOG_FILE: /ws/logs/run.log
  OUT_DIR: /ws/out
  CHUNKS_DIR: /ws/chunks
  DIFF_DIR: /ws/diff
  SUMMARY_FILE: /ws/summary.md
  SCRIPT_PATH: python3 review_chunk.py
llm:
  model: llama3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Paths.OutDir != "/ws/out" {
		t.Errorf("OutDir = %q", cfg.Paths.OutDir)
	}
	if cfg.Paths.ScriptPath != "python3 review_chunk.py" {
		t.Errorf("ScriptPath = %q", cfg.Paths.ScriptPath)
	}
	if cfg.Paths.LogFile != "/ws/logs/run.log" {
		t.Errorf("LogFile = %q", cfg.Paths.LogFile)
	}

	// Keys absent from the file keep their defaults.
	if cfg.LLM.Model != "llama3" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.APIURL != Default().LLM.APIURL {
		t.Errorf("APIURL = %q, want default", cfg.LLM.APIURL)
	}
}

func TestLoad_EnvOverrideWithoutFile(t *testing.T) {
	// No config file anywhere on the search path.
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MRSCOPE_PATHS_OUT_DIR", "/env/override/out")
	t.Setenv("MRSCOPE_LLM_MODEL", "env-model")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Paths.OutDir != "/env/override/out" {
		t.Errorf("OutDir = %q, want env override", cfg.Paths.OutDir)
	}
	if cfg.LLM.Model != "env-model" {
		t.Errorf("Model = %q, want env override", cfg.LLM.Model)
	}
	// Untouched keys keep their defaults.
	if cfg.Paths.ChunksDir != Default().Paths.ChunksDir {
		t.Errorf("ChunksDir = %q, want default", cfg.Paths.ChunksDir)
	}
}

func TestLoad_EnvOverridesFileValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `paths:
  OUT_DIR: /file/out
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MRSCOPE_PATHS_OUT_DIR", "/env/out")
	// This key is absent from the file; the override must still apply.
	t.Setenv("MRSCOPE_PATHS_CHUNKS_DIR", "/env/chunks")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Paths.OutDir != "/env/out" {
		t.Errorf("OutDir = %q, want env to beat the file", cfg.Paths.OutDir)
	}
	if cfg.Paths.ChunksDir != "/env/chunks" {
		t.Errorf("ChunksDir = %q, want env override for a key the file omits", cfg.Paths.ChunksDir)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("err = %v, want ErrConfig", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("paths: [not: a: map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrConfig) {
		t.Errorf("err = %v, want ErrConfig", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := Default()
	cfg.Paths.ChunksDir = "  "
	err := Validate(cfg)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestWorkspaceDirs(t *testing.T) {
	p := Paths{ChunksDir: "/c", OutDir: "/o", DiffDir: "/d", LogDir: "/l"}
	dirs := p.WorkspaceDirs()
	if len(dirs) != 4 {
		t.Fatalf("got %d dirs, want 4", len(dirs))
	}
	for _, d := range []string{"/c", "/o", "/d", "/l"} {
		found := false
		for _, got := range dirs {
			if got == d {
				found = true
			}
		}
		if !found {
			t.Errorf("%s missing from workspace dirs", d)
		}
	}
}

func TestPathHelpers(t *testing.T) {
	p := Paths{OutDir: "/ws/out", DiffDir: "/ws/diff"}
	if got := p.ContextFilePath(); got != filepath.Join("/ws/out", ContextFileName) {
		t.Errorf("ContextFilePath = %q", got)
	}
	if got := p.MergedDiffPath(); got != "/ws/diff/merged.diff" {
		t.Errorf("MergedDiffPath = %q", got)
	}
}
