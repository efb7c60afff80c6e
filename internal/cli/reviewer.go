package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dshills/mrscope/internal/config"
	"github.com/dshills/mrscope/internal/logging"
	"github.com/dshills/mrscope/internal/providers"
	"github.com/dshills/mrscope/internal/review"
	"github.com/spf13/cobra"
)

// The reviewer, context extractor, and aggregator are separate entry points
// invoked by the pipeline as child processes, so each command builds its own
// logger and LLM client.

var (
	flagChunk     string
	flagProjects  string
	flagChunkOut  string
	flagCtxDiff   string
	flagSummarOut string
)

// newService builds the review service for a collaborator command.
func newService(script string) (*review.Service, config.Config, *slog.Logger, func() error, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, config.Config{}, nil, nil, err
	}
	log, closeLog, err := logging.New(cfg.Paths.LogFile, script)
	if err != nil {
		return nil, config.Config{}, nil, nil, err
	}
	client, err := providers.NewClient(cfg.LLM)
	if err != nil {
		closeLog()
		return nil, config.Config{}, nil, nil, err
	}
	svc, err := review.NewService(client, cfg, log)
	if err != nil {
		closeLog()
		return nil, config.Config{}, nil, nil, err
	}
	return svc, cfg, log, closeLog, nil
}

func collaboratorExit(err error) {
	if providers.IsAuthError(err) {
		fail(ExitAuthError, err)
		return
	}
	fail(ExitRuntimeError, err)
}

var reviewChunkCmd = &cobra.Command{
	Use:   "review-chunk",
	Short: "Review one diff chunk (pipeline collaborator)",
	Long: "Review a single diff chunk against the original file content found under the\n" +
		"given project roots, writing the report artifact to --out. This is the default\n" +
		"reviewer entry point the pipeline dispatches per chunk; point SCRIPT_PATH at\n" +
		"an external command to replace it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, _, closeLog, err := newService("review-chunk")
		if err != nil {
			fail(ExitRuntimeError, err)
			return nil
		}
		defer closeLog()

		if err := svc.ReviewChunk(context.Background(), flagChunk, flagProjects, flagChunkOut); err != nil {
			collaboratorExit(err)
		}
		return nil
	},
}

var extractContextCmd = &cobra.Command{
	Use:   "extract-context",
	Short: "Extract MR-level context from a diff (pipeline collaborator)",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, _, closeLog, err := newService("extract-context")
		if err != nil {
			fail(ExitRuntimeError, err)
			return nil
		}
		defer closeLog()

		if err := svc.ExtractContext(context.Background(), flagCtxDiff); err != nil {
			collaboratorExit(err)
		}
		return nil
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Aggregate per-chunk reviews into the summary artifact (pipeline collaborator)",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, log, closeLog, err := newService("summarize")
		if err != nil {
			fail(ExitRuntimeError, err)
			return nil
		}
		defer closeLog()

		outPath := flagSummarOut
		if outPath == "" {
			outPath = cfg.Paths.SummaryFile
		}

		count, err := svc.Summarize(context.Background(), outPath)
		if err != nil {
			collaboratorExit(err)
			return nil
		}
		if count == 0 {
			log.Warn("nothing to summarize")
			return nil
		}
		fmt.Fprintf(os.Stdout, "Summary written: %s (%d reviews)\n", outPath, count)
		return nil
	},
}

func init() {
	reviewChunkCmd.Flags().StringVar(&flagChunk, "chunk", "", "Path to the diff chunk file")
	reviewChunkCmd.Flags().StringVar(&flagProjects, "projects", "", "Project root directories, colon-separated")
	reviewChunkCmd.Flags().StringVar(&flagChunkOut, "out", "", "Report artifact output path")
	reviewChunkCmd.MarkFlagRequired("chunk")
	reviewChunkCmd.MarkFlagRequired("projects")
	reviewChunkCmd.MarkFlagRequired("out")

	extractContextCmd.Flags().StringVar(&flagCtxDiff, "diff", "", "Path to the (merged) diff file")
	extractContextCmd.MarkFlagRequired("diff")

	summarizeCmd.Flags().StringVar(&flagSummarOut, "out", "", "Summary artifact path (default: configured SUMMARY_FILE)")
}
