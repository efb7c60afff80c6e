package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/mrscope/internal/diffstream"
	"github.com/dshills/mrscope/internal/review"
)

// ErrDispatchFailed marks a reviewer invocation that exited with failure.
var ErrDispatchFailed = errors.New("chunk dispatch failed")

// ReportSuffix is the extension of per-chunk report artifacts.
const ReportSuffix = ".md"

// Dispatcher invokes the reviewer entry point once per chunk.
type Dispatcher struct {
	// ScriptPath is the reviewer entry point; empty means the running
	// binary's review-chunk subcommand.
	ScriptPath string
	// OutDir receives one report artifact per chunk.
	OutDir string
	// ConfigFile is the parent's --config value, forwarded to own-binary
	// reviewer invocations.
	ConfigFile string
	Runner     CommandRunner
	Log        *slog.Logger
}

// ReportPath returns the output artifact path for a chunk file, derived
// from the chunk's base name.
func (d *Dispatcher) ReportPath(chunkPath string) string {
	base := strings.TrimSuffix(filepath.Base(chunkPath), diffstream.ChunkSuffix)
	return filepath.Join(d.OutDir, base+ReportSuffix)
}

// Dispatch reviews every chunk in order, strictly sequentially, aborting on
// the first failure. projectRoots are joined into the single --projects
// argument of the reviewer contract. An empty chunk list is a logged no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, chunks []string, projectRoots []string) error {
	if len(chunks) == 0 {
		d.Log.Info("DISPATCH SKIPPED: no chunks to review")
		return nil
	}

	name, baseArgs, err := resolveEntry(d.ScriptPath, "review-chunk", d.ConfigFile)
	if err != nil {
		return err
	}
	projects := strings.Join(projectRoots, review.RootsSeparator)

	for i, chunk := range chunks {
		outPath := d.ReportPath(chunk)
		d.Log.Info("DISPATCH START", "chunk", filepath.Base(chunk), "seq", i+1, "total", len(chunks))
		start := time.Now()

		args := append(append([]string{}, baseArgs...),
			"--chunk", chunk,
			"--projects", projects,
			"--out", outPath,
		)
		if err := d.Runner.Run(ctx, name, args...); err != nil {
			d.Log.Error("DISPATCH FAILED", "chunk", filepath.Base(chunk), "error", err)
			return fmt.Errorf("%w: %s: %v", ErrDispatchFailed, filepath.Base(chunk), err)
		}

		d.Log.Info("DISPATCH END", "chunk", filepath.Base(chunk), "seconds", time.Since(start).Seconds())
	}
	return nil
}
