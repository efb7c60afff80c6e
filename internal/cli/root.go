package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

// Exit codes. Any validation or stage failure exits non-zero with a
// human-readable line on stderr.
const (
	ExitSuccess      = 0
	ExitRuntimeError = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
)

var rootCmd = &cobra.Command{
	Use:   "mrscope",
	Short: "LLM-backed merge request review pipeline",
	Long: "Mrscope splits a merge request diff into per-file chunks, reviews each chunk\n" +
		"with an LLM, and aggregates the per-chunk reports into one summary. Diffs from\n" +
		"multiple projects can be merged into a single disambiguated review run.",
}

// flagConfig is the --config override shared by all commands.
var flagConfig string

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(reviewChunkCmd)
	rootCmd.AddCommand(extractContextCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

func fail(code int, err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if exitCode == ExitSuccess {
		exitCode = code
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print mrscope version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "mrscope version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ./config.yml, then user config dir)")
}
