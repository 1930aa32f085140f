package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docrag/internal/adapter/llm"
	"docrag/internal/usecase"
)

var (
	chatDir      string
	chatQuestion string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Index a document directory and answer a question over it",
	Long: `Index the documents under a directory, retrieve the passages most
relevant to the question, and stream the model's answer to stdout.

Examples:
  docrag chat -d ./docs -q "How do refunds work?"`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatDir, "dir", "d", ".", "document directory")
	chatCmd.Flags().StringVarP(&chatQuestion, "query", "q", "", "question to answer (required)")
	chatCmd.MarkFlagRequired("query")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, err := buildPipeline(cfg)
	if err != nil {
		return fmt.Errorf("failed to build retrieval pipeline: %w", err)
	}

	chatModel, err := llm.NewOpenAIChat(cfg.Chat.APIKeyEnv, cfg.Chat.Model, cfg.Chat.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to build chat model: %w", err)
	}

	chatUC, err := usecase.NewChatUseCase(p.retrieveUC, chatModel, cfg.Retrieve.TopK)
	if err != nil {
		return fmt.Errorf("failed to build chat pipeline: %w", err)
	}

	ctx := cmd.Context()
	if _, _, err := ingestDir(ctx, p.indexUC, cfg, chatDir); err != nil {
		return err
	}

	err = chatUC.StreamAnswer(ctx, chatQuestion, func(delta string) error {
		fmt.Print(delta)
		return nil
	})
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	fmt.Println()
	return nil
}
