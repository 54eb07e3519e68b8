package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ai-analyst/internal/analysis"
	"ai-analyst/internal/config"
	"ai-analyst/internal/extract"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		filePath string
		text     string
		category string
		apiKey   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a file, text or stdin once and print the result",
		Example: `  analyst analyze --file resume.md --category "career planning"
  echo "my plan..." | analyst analyze --category "marketing plan"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			a, err := newApp(cfg)
			if err != nil {
				return err
			}

			req := analysis.Request{Category: category, APIKey: apiKey}
			switch {
			case filePath != "":
				data, err := os.ReadFile(filePath)
				if err != nil {
					return err
				}
				p, _ := extract.Extract(data, "", filepath.Base(filePath))
				req.Content, req.Source = p.Text, "uploaded "+p.Label
			case text != "":
				req.Content, req.Source = text, "entered text"
			default:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				req.Content, req.Source = string(data), "entered text"
			}

			sess := a.sessions.GetOrCreate("cli")
			res := a.orch.Analyze(cmd.Context(), sess, req)
			if err := res.Err(); err != nil {
				if res.Detail != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), res.Detail)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s analysis\n\n%s\n", res.Category, res.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "file to analyze (.txt, .md, .json, .csv)")
	cmd.Flags().StringVarP(&text, "text", "t", "", "text to analyze")
	cmd.Flags().StringVarP(&category, "category", "c", "", "analysis type (defaults to the first category)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (defaults to OPENAI_API_KEY)")
	return cmd
}
