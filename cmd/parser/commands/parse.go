package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/benvon/smart-task-parser/internal/models"
	"github.com/spf13/cobra"
)

// errParseFailed signals a failed result that has already been printed
var errParseFailed = errors.New("parse failed")

// NewParseCmd creates the parse command
func NewParseCmd(flags *GlobalFlags) *cobra.Command {
	var method string
	var mode string

	cmd := &cobra.Command{
		Use:   "parse <text...>",
		Short: "Parse one task description",
		Long:  "Parse a natural-language task description and print the result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, appOverrides{llmMode: mode})
			if err != nil {
				return err
			}
			defer a.close()

			if method == "" {
				method = string(a.cfg.DefaultMethod)
			}

			result := a.parser.ParseString(cmd.Context(), strings.Join(args, " "), method)

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(out)); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("%w: %s", errParseFailed, result.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", "", fmt.Sprintf("parsing method (%s or %s); defaults to PARSER_DEFAULT_METHOD", models.MethodRuleBased, models.MethodLLM))
	cmd.Flags().StringVar(&mode, "mode", "", "llm extraction mode (single or multi); defaults to PARSER_LLM_MODE")

	return cmd
}
