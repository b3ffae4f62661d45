package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KShivendu/agentic-search/internal/adapters/driving/tui"
	"github.com/KShivendu/agentic-search/internal/core/ports/driving"
)

// UploadOptions carries the per-invocation flags into the factory.
type UploadOptions struct {
	// CloudInference uploads raw text and lets the index embed
	// server-side. No local embedding model is contacted.
	CloudInference bool

	// Fresh drops the existing collection instead of resuming into it.
	Fresh bool
}

// uploadFactory builds an upload pipeline for the given options.
// Injected by main.
var uploadFactory func(UploadOptions) (driving.UploadPipeline, error)

var uploadOpts UploadOptions

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Embed passages and upsert them into Qdrant",
	Long: `Streams the passage store through the embedding model and upserts the
resulting points into the Qdrant collection.

Progress survives interruption: point IDs are derived from passage IDs,
and a restarted run resumes from the last complete upload batch.`,
	RunE: runUpload,
}

// SetUploadFactory injects the upload pipeline constructor.
func SetUploadFactory(f func(UploadOptions) (driving.UploadPipeline, error)) {
	uploadFactory = f
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadOpts.CloudInference, "cloud-inference", false,
		"let the Qdrant cluster embed passages server-side")
	uploadCmd.Flags().BoolVar(&uploadOpts.Fresh, "fresh", false,
		"drop the existing collection and upload from scratch")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, _ []string) error {
	if uploadFactory == nil {
		return errNotConfigured("upload service")
	}

	return withRunLock(func() error {
		pipeline, err := uploadFactory(uploadOpts)
		if err != nil {
			return err
		}

		poll := func() tui.Snapshot {
			s := pipeline.Status()
			return tui.Snapshot{
				Done:  s.SkippedPassages + s.UploadedPassages,
				Total: s.TotalPassages,
				Detail: fmt.Sprintf("%d resumed past, %d malformed lines",
					s.SkippedPassages, s.MalformedLines),
			}
		}

		var stats *driving.UploadStats
		runErr := runWithProgress(cmd.Context(), "Uploading passages", poll, func(ctx context.Context) error {
			var err error
			stats, err = pipeline.Run(ctx)
			return err
		})
		if runErr != nil {
			return fmt.Errorf("upload failed: %w", runErr)
		}

		cmd.Printf("Uploaded %d passages (%d skipped on resume, %d malformed): collection %q now holds %d points\n",
			stats.UploadedPassages, stats.SkippedPassages, stats.MalformedLines,
			settings.Collection, stats.FinalPointCount)
		return nil
	})
}
