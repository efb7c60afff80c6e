package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/mrscope/internal/config"
	"github.com/dshills/mrscope/internal/diffstream"
	"github.com/dshills/mrscope/internal/logging"
	"github.com/dshills/mrscope/internal/workspace"
)

// Request describes one review run.
type Request struct {
	// Refs lists the projects under review in supplied order. A single
	// reference runs in single-project mode; more trigger a merge.
	Refs []diffstream.ProjectRef
	// SummaryName optionally overrides the summary artifact's filename
	// inside its configured directory.
	SummaryName string
}

// Result reports what a successful run produced.
type Result struct {
	SummaryPath string
	Chunks      int
}

// Driver owns a run workspace and sequences the pipeline stages over it.
// One Driver invocation owns the workspace exclusively; concurrent runs
// sharing the same directories corrupt each other.
type Driver struct {
	Cfg    config.Config
	Runner CommandRunner
	// ConfigFile is the --config value Cfg was loaded from, forwarded to
	// own-binary collaborator children so they resolve the same paths.
	// Empty when the default search path was used.
	ConfigFile string
	// Log is the run logger. Left nil, the driver opens the configured
	// log file after the workspace reset and closes it when done.
	Log *slog.Logger
}

// Run executes the pipeline: validate, reset workspace, merge (multi-project
// only), extract context, chunk, dispatch, aggregate. The first failing
// stage aborts the run.
func (d *Driver) Run(ctx context.Context, req Request) (Result, error) {
	// Input validation happens before the workspace reset so a rejected
	// run leaves no partial state behind.
	if err := diffstream.Validate(req.Refs); err != nil {
		return Result{}, err
	}

	if err := workspace.Reset(d.Cfg.Paths.WorkspaceDirs()...); err != nil {
		return Result{}, err
	}

	log := d.Log
	if log == nil {
		var closeLog func() error
		var err error
		log, closeLog, err = logging.New(d.Cfg.Paths.LogFile, "pipeline")
		if err != nil {
			return Result{}, err
		}
		defer closeLog()
	}
	log.Info("PIPELINE START", "projects", projectNames(req.Refs))

	diffPath, err := d.stageDiff(req.Refs, log)
	if err != nil {
		log.Error("PIPELINE FAILED", "stage", "merge", "error", err)
		return Result{}, err
	}

	if err := d.runCollaborator(ctx, d.Cfg.Paths.ContextScript, "extract-context", "--diff", diffPath); err != nil {
		log.Error("PIPELINE FAILED", "stage", "extract-context", "error", err)
		return Result{}, err
	}

	count, err := d.stageChunk(diffPath, log)
	if err != nil {
		log.Error("PIPELINE FAILED", "stage", "chunk", "error", err)
		return Result{}, err
	}

	summaryPath := d.summaryPath(req.SummaryName)
	if count == 0 {
		// An empty diff is valid input with no review work.
		log.Info("PIPELINE END: empty diff, nothing to review")
		return Result{SummaryPath: summaryPath}, nil
	}

	chunks, err := diffstream.ListChunks(d.Cfg.Paths.ChunksDir)
	if err != nil {
		return Result{}, err
	}
	dispatcher := &Dispatcher{
		ScriptPath: d.Cfg.Paths.ScriptPath,
		OutDir:     d.Cfg.Paths.OutDir,
		ConfigFile: d.ConfigFile,
		Runner:     d.Runner,
		Log:        log,
	}
	if err := dispatcher.Dispatch(ctx, chunks, projectRoots(req.Refs)); err != nil {
		log.Error("PIPELINE FAILED", "stage", "dispatch", "error", err)
		return Result{}, err
	}

	if err := d.runCollaborator(ctx, d.Cfg.Paths.SummaryScript, "summarize", "--out", summaryPath); err != nil {
		log.Error("PIPELINE FAILED", "stage", "aggregate", "error", err)
		return Result{}, err
	}

	log.Info("PIPELINE END", "summary", summaryPath, "chunks", count)
	return Result{SummaryPath: summaryPath, Chunks: count}, nil
}

// stageDiff resolves the diff the rest of the pipeline consumes: the single
// supplied diff, or the merged stream written to its fixed staging path.
func (d *Driver) stageDiff(refs []diffstream.ProjectRef, log *slog.Logger) (string, error) {
	if len(refs) == 1 {
		return refs[0].DiffPath, nil
	}
	log.Info("MERGE START", "diffs", len(refs))
	merged, err := diffstream.Merge(refs)
	if err != nil {
		return "", err
	}
	path, err := diffstream.WriteMerged(merged, d.Cfg.Paths.DiffDir)
	if err != nil {
		return "", err
	}
	log.Info("MERGE END", "path", path, "bytes", len(merged))
	return path, nil
}

// stageChunk splits the diff into chunk files. A blank diff yields zero
// chunks and no error; a non-blank stream yielding zero chunks is a
// malformed input and fails the run.
func (d *Driver) stageChunk(diffPath string, log *slog.Logger) (int, error) {
	data, err := os.ReadFile(diffPath)
	if err != nil {
		return 0, fmt.Errorf("reading diff: %w", err)
	}
	count, err := diffstream.WriteChunks(string(data), d.Cfg.Paths.ChunksDir)
	if err != nil {
		return 0, err
	}
	if count == 0 && strings.TrimSpace(string(data)) != "" {
		return 0, fmt.Errorf("%w: %s", diffstream.ErrNoChunksProduced, diffPath)
	}
	log.Info("CHUNKING DONE", "chunks", count)
	return count, nil
}

func (d *Driver) runCollaborator(ctx context.Context, entry, subcommand string, args ...string) error {
	name, baseArgs, err := resolveEntry(entry, subcommand, d.ConfigFile)
	if err != nil {
		return err
	}
	return d.Runner.Run(ctx, name, append(baseArgs, args...)...)
}

func (d *Driver) summaryPath(override string) string {
	if override == "" {
		return d.Cfg.Paths.SummaryFile
	}
	return filepath.Join(filepath.Dir(d.Cfg.Paths.SummaryFile), override)
}

func projectNames(refs []diffstream.ProjectRef) []string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return names
}

func projectRoots(refs []diffstream.ProjectRef) []string {
	roots := make([]string, 0, len(refs))
	for _, r := range refs {
		roots = append(roots, r.RootPath)
	}
	return roots
}
