package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the smart-task-parser command tree
func NewRootCmd() *cobra.Command {
	flags := &GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:           "smart-task-parser",
		Short:         "Turn natural-language task descriptions into structured tasks",
		Long:          "CLI for the rule-based and LLM task parsers. Configuration is read from the environment.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "enable debug logging (overrides PARSER_DEBUG_MODE)")
	rootCmd.PersistentFlags().BoolVar(&flags.DevLogs, "dev-logs", false, "use human-readable console logs")
	rootCmd.PersistentFlags().StringVar(&flags.NamesFile, "names-file", "", "YAML name dictionary (overrides PARSER_NAMES_FILE)")

	rootCmd.AddCommand(NewParseCmd(flags))
	rootCmd.AddCommand(NewBatchCmd(flags))
	rootCmd.AddCommand(NewNamesCmd(flags))

	return rootCmd
}
