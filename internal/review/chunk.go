package review

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/mrscope/internal/diffstream"
)

const (
	// maxOriginalBytes caps the pre-MR file content included in a chunk
	// prompt; oversized files keep their head and tail.
	maxOriginalBytes  = 50_000
	originalHeadBytes = 5_000
)

// RootsSeparator joins multiple project roots into the single --projects
// argument the reviewer contract passes around.
const RootsSeparator = ":"

// ReviewChunk reviews one diff chunk against the original file content and
// writes the report artifact to outPath. projects is a colon-joined list of
// project root directories.
func (s *Service) ReviewChunk(ctx context.Context, chunkPath, projects, outPath string) error {
	s.log.Info("CHUNK REVIEW START", "chunk", chunkPath, "projects", projects)

	data, err := os.ReadFile(chunkPath)
	if err != nil {
		return fmt.Errorf("reading chunk: %w", err)
	}
	diff := string(data)

	filePath := diffstream.PathFromRecord(diff)
	s.log.Info("DIFF FILE PARSED", "target_file", filePath)
	if filePath == "" {
		filePath = filepath.Base(chunkPath)
	}

	original := s.loadOriginal(strings.Split(projects, RootsSeparator), filePath)
	original = truncateOriginal(original, s.log)

	prompt := renderChunkPrompt(s.loadMRContext(), filePath, s.sanitize(diff), s.sanitize(original))
	content, err := s.complete(ctx, chunkSystemPrompt, prompt)
	if err != nil {
		return fmt.Errorf("reviewing chunk %s: %w", filepath.Base(chunkPath), err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing review: %w", err)
	}

	s.log.Info("CHUNK REVIEW END", "chunk", chunkPath, "out", outPath, "bytes", len(content))
	return nil
}

// loadOriginal finds the pre-MR content of filePath across the given
// project roots. In multi-project mode the file path carries the project
// name as its first segment, which is matched against each root's base
// name. Missing files yield a marker string rather than an error: new files
// have no original.
func (s *Service) loadOriginal(roots []string, filePath string) string {
	prefix, rest, hasPrefix := strings.Cut(filePath, "/")

	if hasPrefix && len(roots) > 1 {
		for _, root := range roots {
			if filepath.Base(root) != prefix {
				continue
			}
			full := filepath.Join(root, rest)
			if data, err := os.ReadFile(full); err == nil {
				s.log.Info("ORIGINAL FOUND", "path", full)
				return strings.ToValidUTF8(string(data), "")
			}
		}
		s.log.Warn("ORIGINAL FILE NOT FOUND", "prefix", prefix, "file", filePath)
		return fmt.Sprintf("<FILE NOT FOUND: %s>", filePath)
	}

	for _, root := range roots {
		full := filepath.Join(root, filePath)
		if data, err := os.ReadFile(full); err == nil {
			s.log.Info("ORIGINAL FOUND", "path", full)
			return strings.ToValidUTF8(string(data), "")
		}
	}
	s.log.Warn("ORIGINAL FILE NOT FOUND", "file", filePath)
	return fmt.Sprintf("<FILE NOT FOUND: %s>", filePath)
}

// truncateOriginal keeps the head (imports, declarations) and the tail of
// an oversized original file.
func truncateOriginal(original string, log *slog.Logger) string {
	if len(original) <= maxOriginalBytes {
		return original
	}
	log.Warn("ORIGINAL FILE TOO LARGE, TRUNCATING", "bytes", len(original), "limit", maxOriginalBytes)
	head := original[:originalHeadBytes]
	tail := original[len(original)-(maxOriginalBytes-originalHeadBytes):]
	return head + "\n\n[... middle section truncated ...]\n\n" + tail
}
