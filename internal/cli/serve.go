package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"docrag/internal/adapter/llm"
	"docrag/internal/server"
	"docrag/internal/usecase"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the document RAG HTTP service",
	Long: `Run the HTTP service: upload documents, retrieve passages, and chat
over the indexed content with streamed answers.

Examples:
  docrag serve
  docrag serve --addr :9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

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

	srv := server.New(cfg, p.indexUC, p.retrieveUC, chatUC, slog.Default())
	return srv.Run()
}
