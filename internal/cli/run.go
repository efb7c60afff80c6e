package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/mrscope/internal/config"
	"github.com/dshills/mrscope/internal/diffstream"
	"github.com/dshills/mrscope/internal/gitdiff"
	"github.com/dshills/mrscope/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	flagDiff     string
	flagProject  string
	flagRange    string
	flagDiffs    string
	flagNames    string
	flagOutput   string
	flagNoBanner bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full review pipeline",
	Long: "Run the full review pipeline over one diff (--diff with --project) or over\n" +
		"several projects' diffs merged into one stream (--diffs with --names, resolved\n" +
		"under the configured projects root). With --range the diff is taken from the\n" +
		"project's git repository instead of a file.",
	Example: `  mrscope run --diff mr.diff --project ~/src/backend
  mrscope run --range origin/main..HEAD --project ~/src/backend
  mrscope run --diffs be.diff,fe.diff --names backend,frontend --output release-42.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			fail(ExitRuntimeError, err)
			return nil
		}

		req, cleanup, err := buildRequest(cfg)
		if err != nil {
			fail(ExitUsageError, err)
			return nil
		}
		if cleanup != nil {
			defer cleanup()
		}

		driver := &pipeline.Driver{
			Cfg:        cfg,
			Runner:     &pipeline.ExecRunner{},
			ConfigFile: flagConfig,
		}
		result, err := driver.Run(context.Background(), req)
		if err != nil {
			printFailure(err)
			fail(ExitRuntimeError, err)
			return nil
		}

		if result.Chunks == 0 {
			fmt.Fprintln(os.Stdout, "Empty diff: no chunks to review.")
			return nil
		}
		printSuccess(result)
		return nil
	},
}

// buildRequest turns the flag surface into a pipeline request. The returned
// cleanup removes a temporary diff generated from --range.
func buildRequest(cfg config.Config) (pipeline.Request, func(), error) {
	multi := flagDiffs != "" || flagNames != ""
	single := flagDiff != "" || flagRange != ""

	switch {
	case multi && single:
		return pipeline.Request{}, nil, fmt.Errorf("--diffs/--names cannot be combined with --diff/--range")
	case multi:
		refs, err := diffstream.BuildRefs(splitComma(flagDiffs), splitComma(flagNames), cfg.Paths.ProjectsRoot)
		if err != nil {
			return pipeline.Request{}, nil, err
		}
		return pipeline.Request{Refs: refs, SummaryName: flagOutput}, nil, nil
	case single:
		if flagProject == "" {
			return pipeline.Request{}, nil, fmt.Errorf("--project is required")
		}
		diffPath := flagDiff
		var cleanup func()
		if flagRange != "" {
			if flagDiff != "" {
				return pipeline.Request{}, nil, fmt.Errorf("--diff and --range are mutually exclusive")
			}
			path, rm, err := exportRangeDiff(flagProject, flagRange)
			if err != nil {
				return pipeline.Request{}, nil, err
			}
			diffPath = path
			cleanup = rm
		}
		ref := diffstream.ProjectRef{
			Name:     filepath.Base(filepath.Clean(flagProject)),
			DiffPath: diffPath,
			RootPath: flagProject,
		}
		return pipeline.Request{Refs: []diffstream.ProjectRef{ref}, SummaryName: flagOutput}, cleanup, nil
	default:
		return pipeline.Request{}, nil, fmt.Errorf("either --diff and --project, or --diffs and --names must be supplied")
	}
}

// exportRangeDiff materializes a git revision range diff into a temp file so
// the pipeline consumes it like any other diff input.
func exportRangeDiff(project, revRange string) (string, func(), error) {
	diff, err := gitdiff.Range(project, revRange, true)
	if err != nil {
		return "", nil, err
	}
	f, err := os.CreateTemp("", "mrscope-*.diff")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp diff: %w", err)
	}
	if _, err := f.WriteString(diff); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("writing temp diff: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}

func splitComma(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func init() {
	runCmd.Flags().StringVar(&flagDiff, "diff", "", "Diff file to review (single-project mode)")
	runCmd.Flags().StringVar(&flagProject, "project", "", "Project root directory (single-project mode)")
	runCmd.Flags().StringVar(&flagRange, "range", "", "Git revision range to diff instead of --diff (e.g. origin/main..HEAD)")
	runCmd.Flags().StringVar(&flagDiffs, "diffs", "", "Diff files to merge and review (comma-separated, multi-project mode)")
	runCmd.Flags().StringVar(&flagNames, "names", "", "Project names matching --diffs positionally (comma-separated)")
	runCmd.Flags().StringVar(&flagOutput, "output", "", "Summary artifact filename override")
	runCmd.Flags().BoolVar(&flagNoBanner, "no-banner", false, "Plain final status output")
}
