package cli

import (
	"fmt"
	"os"

	"github.com/dshills/mrscope/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mrscope configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.yml",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Init(flagForce)
		if err != nil {
			fail(ExitRuntimeError, err)
			return nil
		}
		fmt.Fprintf(os.Stdout, "Config written: %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the preferred config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			fail(ExitRuntimeError, err)
			return nil
		}
		fmt.Fprintln(os.Stdout, path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			fail(ExitRuntimeError, err)
			return nil
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fail(ExitRuntimeError, err)
			return nil
		}
		os.Stdout.Write(data)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing config file")
}
