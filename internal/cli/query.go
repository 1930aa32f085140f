package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	queryDir  string
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Index a document directory and retrieve relevant passages",
	Long: `Index the documents under a directory, then print the passages most
similar to the query.

Examples:
  docrag query -d ./docs -q "refund policy"
  docrag query -d ./docs -q "refund policy" -k 5 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryDir, "dir", "d", ".", "document directory")
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

type queryResult struct {
	SourceID string  `json:"source_id"`
	Offset   int     `json:"offset"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, err := buildPipeline(cfg)
	if err != nil {
		return fmt.Errorf("failed to build retrieval pipeline: %w", err)
	}

	ctx := cmd.Context()
	if _, _, err := ingestDir(ctx, p.indexUC, cfg, queryDir); err != nil {
		return err
	}

	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	results, err := p.retrieveUC.Retrieve(ctx, queryText, topK)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if queryJSON {
		out := make([]queryResult, len(results))
		for i, sp := range results {
			out[i] = queryResult{
				SourceID: sp.Passage.SourceID,
				Offset:   sp.Passage.Offset,
				Score:    sp.Score,
				Text:     sp.Passage.Text,
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(results) == 0 {
		fmt.Println("No relevant passages found.")
		return nil
	}

	for i, sp := range results {
		fmt.Printf("%d. %s (offset %d, score %.4f)\n", i+1, sp.Passage.SourceID, sp.Passage.Offset, sp.Score)
		text := sp.Passage.Text
		if len(text) > 300 {
			text = text[:300] + "..."
		}
		fmt.Printf("   %s\n\n", strings.ReplaceAll(text, "\n", "\n   "))
	}
	return nil
}
