package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"docrag/config"
	"docrag/internal/adapter/fs"
	"docrag/internal/adapter/loader"
	"docrag/internal/usecase"
)

// ingestDir walks dir for document files and indexes each one. Files
// that cannot be read or parsed are skipped with a warning; embedding
// failures abort the run.
func ingestDir(ctx context.Context, indexUC *usecase.IndexUseCase, cfg *config.Config, dir string) (int, int, error) {
	walker := fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes)
	files, err := walker.Walk(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	if len(files) == 0 {
		return 0, 0, fmt.Errorf("no documents found under %s", dir)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	indexed := 0
	passages := 0
	for _, file := range files {
		text, err := loader.Load(file.Path)
		if err != nil {
			slog.Warn("skipping document", "path", file.Rel, "error", err)
			bar.Add(1)
			continue
		}

		count, err := indexUC.IndexDocument(ctx, file.Rel, text)
		if err != nil {
			return indexed, passages, fmt.Errorf("failed to index %s: %w", file.Rel, err)
		}

		indexed++
		passages += count
		bar.Add(1)
	}

	return indexed, passages, nil
}
