package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/benvon/smart-task-parser/internal/models"
	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch command
func NewBatchCmd(flags *GlobalFlags) *cobra.Command {
	var method string
	var mode string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Parse one task per line from stdin",
		Long:  "Read task descriptions from stdin, one per line, and print one JSON result per line in input order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, appOverrides{llmMode: mode, concurrency: concurrency})
			if err != nil {
				return err
			}
			defer a.close()

			if method == "" {
				method = string(a.cfg.DefaultMethod)
			}
			parseMethod, err := models.ParseMethod(method)
			if err != nil {
				return err
			}

			var texts []string
			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					texts = append(texts, scanner.Text())
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			results := a.parser.ParseBatch(cmd.Context(), texts, parseMethod)

			encoder := json.NewEncoder(cmd.OutOrStdout())
			failed := 0
			for _, result := range results {
				if err := encoder.Encode(result); err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
				if !result.Success {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d inputs", errParseFailed, failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", "", fmt.Sprintf("parsing method (%s or %s); defaults to PARSER_DEFAULT_METHOD", models.MethodRuleBased, models.MethodLLM))
	cmd.Flags().StringVar(&mode, "mode", "", "llm extraction mode (single or multi); defaults to PARSER_LLM_MODE")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "maximum inputs parsed at once; defaults to PARSER_BATCH_CONCURRENCY")

	return cmd
}
