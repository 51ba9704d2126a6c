package commands

import (
	"fmt"

	"github.com/benvon/smart-task-parser/internal/names"
	"github.com/spf13/cobra"
)

// NewNamesCmd creates the names command
func NewNamesCmd(flags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "names",
		Short: "List the assignee name dictionary",
		Long:  "List the names accepted after @ and \"assign to\", from --names-file, PARSER_NAMES_FILE or the built-in list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, appOverrides{})
			if err != nil {
				return err
			}
			defer a.close()

			source := "built-in"
			if a.cfg.NamesFile != "" {
				source = a.cfg.NamesFile
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Names (%d, %s):\n", a.dict.Len(), source)
			for _, name := range a.dict.Names() {
				fmt.Fprintf(out, "  - %s\n", names.Capitalize(name))
			}
			return nil
		},
	}

	return cmd
}
