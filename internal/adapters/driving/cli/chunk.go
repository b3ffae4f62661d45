package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KShivendu/agentic-search/internal/adapters/driving/tui"
	"github.com/KShivendu/agentic-search/internal/core/ports/driving"
)

// chunkFactory builds a chunk pipeline. Injected by main; a factory
// rather than an instance so construction errors (missing dump, bad
// config) surface when the command runs, not at startup.
var chunkFactory func() (driving.ChunkPipeline, error)

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Split dump articles into passages",
	Long: `Streams articles out of the downloaded dump, strips wiki markup, and
splits the text into word-bounded passages appended to the passage store.

Re-running after an interruption skips articles already in the store, so
the command can simply be invoked again.`,
	RunE: runChunk,
}

// SetChunkFactory injects the chunk pipeline constructor.
func SetChunkFactory(f func() (driving.ChunkPipeline, error)) {
	chunkFactory = f
}

func init() {
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, _ []string) error {
	if chunkFactory == nil {
		return errNotConfigured("chunk service")
	}

	return withRunLock(func() error {
		pipeline, err := chunkFactory()
		if err != nil {
			return err
		}

		poll := func() tui.Snapshot {
			s := pipeline.Status()
			return tui.Snapshot{
				Done: s.ArticlesSeen,
				Detail: fmt.Sprintf("%d passages, %d skipped, %d too short, %d unparseable",
					s.PassagesWritten, s.ArticlesSkipped, s.ArticlesTooShort, s.ArticlesUnparseable),
			}
		}

		var stats *driving.ChunkStats
		runErr := runWithProgress(cmd.Context(), "Chunking articles", poll, func(ctx context.Context) error {
			var err error
			stats, err = pipeline.Run(ctx)
			return err
		})
		if runErr != nil {
			return fmt.Errorf("chunk failed: %w", runErr)
		}

		cmd.Printf("Chunked %d articles into %d passages (%d skipped, %d too short, %d unparseable)\n",
			stats.ArticlesSeen, stats.PassagesWritten,
			stats.ArticlesSkipped, stats.ArticlesTooShort, stats.ArticlesUnparseable)
		return nil
	})
}
