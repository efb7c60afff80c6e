package cli

import (
	"fmt"
	"os"

	"github.com/dshills/mrscope/internal/config"
	"github.com/dshills/mrscope/internal/diffstream"
	"github.com/dshills/mrscope/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagMergeDiffs string
	flagMergeNames string
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge multiple projects' diffs into one stream",
	Long: "Merge the given diff files into a single unified diff, prefixing every file\n" +
		"path with its project name so paths from different projects cannot collide.\n" +
		"The result is written to the fixed merged-diff location in the diff staging\n" +
		"directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			fail(ExitRuntimeError, err)
			return nil
		}
		log, closeLog, err := logging.New(cfg.Paths.LogFile, "merge")
		if err != nil {
			fail(ExitRuntimeError, err)
			return nil
		}
		defer closeLog()

		refs, err := diffstream.BuildRefs(splitComma(flagMergeDiffs), splitComma(flagMergeNames), cfg.Paths.ProjectsRoot)
		if err != nil {
			log.Error("MERGE_DIFFS FAILED", "error", err)
			fail(ExitUsageError, err)
			return nil
		}

		log.Info("MERGE_DIFFS START", "diffs", flagMergeDiffs, "names", flagMergeNames)
		merged, err := diffstream.Merge(refs)
		if err != nil {
			log.Error("MERGE_DIFFS FAILED", "error", err)
			fail(ExitRuntimeError, err)
			return nil
		}
		path, err := diffstream.WriteMerged(merged, cfg.Paths.DiffDir)
		if err != nil {
			log.Error("MERGE_DIFFS FAILED", "error", err)
			fail(ExitRuntimeError, err)
			return nil
		}
		log.Info("MERGE_DIFFS SUCCESS", "path", path, "bytes", len(merged))

		fmt.Fprintf(os.Stdout, "Merged %d diff files\nOutput: %s\nSize: %d bytes\n", len(refs), path, len(merged))
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVar(&flagMergeDiffs, "diffs", "", "Diff files to merge (comma-separated)")
	mergeCmd.Flags().StringVar(&flagMergeNames, "names", "", "Project names matching --diffs positionally (comma-separated)")
	mergeCmd.MarkFlagRequired("diffs")
	mergeCmd.MarkFlagRequired("names")
}
