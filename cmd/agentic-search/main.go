// Command agentic-search ingests a Wikipedia dump into a Qdrant
// collection. This is the composition root: configuration is loaded
// here, adapters are constructed here, and the CLI receives only
// port interfaces and factories.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/KShivendu/agentic-search/internal/adapters/driven/config"
	"github.com/KShivendu/agentic-search/internal/adapters/driven/download"
	"github.com/KShivendu/agentic-search/internal/adapters/driven/embedding/ollama"
	"github.com/KShivendu/agentic-search/internal/adapters/driven/embedding/openai"
	"github.com/KShivendu/agentic-search/internal/adapters/driven/store/jsonl"
	"github.com/KShivendu/agentic-search/internal/adapters/driven/vector/qdrant"
	"github.com/KShivendu/agentic-search/internal/adapters/driving/cli"
	"github.com/KShivendu/agentic-search/internal/connectors/wikidump"
	"github.com/KShivendu/agentic-search/internal/core/domain"
	"github.com/KShivendu/agentic-search/internal/core/ports/driven"
	"github.com/KShivendu/agentic-search/internal/core/ports/driving"
	"github.com/KShivendu/agentic-search/internal/core/services"
	"github.com/KShivendu/agentic-search/internal/normalisers/wikitext"
	"github.com/KShivendu/agentic-search/internal/postprocessors/chunker"
)

// version is overridden at build time via
// -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	settings, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli.SetVersion(version)
	cli.SetSettings(settings)
	cli.SetFetcher(download.New())
	cli.SetChunkFactory(func() (driving.ChunkPipeline, error) {
		return newChunkPipeline(settings)
	})
	cli.SetUploadFactory(func(opts cli.UploadOptions) (driving.UploadPipeline, error) {
		return newUploadPipeline(settings, opts)
	})
	cli.SetStatusFunc(func(ctx context.Context) (*cli.StatusReport, error) {
		return gatherStatus(ctx, settings)
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

func newChunkPipeline(settings *config.Settings) (driving.ChunkPipeline, error) {
	return services.NewChunkService(
		wikidump.New(settings.DumpPath()),
		wikitext.New(),
		chunker.New(
			chunker.WithMinWords(settings.MinWords),
			chunker.WithMaxWords(settings.MaxWords),
		),
		jsonl.New(settings.PassagesPath()),
	), nil
}

func newUploadPipeline(settings *config.Settings, opts cli.UploadOptions) (driving.UploadPipeline, error) {
	index := qdrant.New(qdrant.Config{
		BaseURL: settings.QdrantURL,
		APIKey:  settings.QdrantAPIKey,
		Model:   settings.EmbeddingModel,
	})

	cfg := services.UploadConfig{
		Collection:        settings.Collection,
		Distance:          domain.DistanceCosine,
		EmbedBatchSize:    settings.EmbedBatchSize,
		UploadBatchSize:   settings.UploadBatchSize,
		IndexingThreshold: settings.IndexingThreshold,
		CloudInference:    opts.CloudInference,
		Fresh:             opts.Fresh,
	}

	if opts.CloudInference {
		// The cluster embeds server-side; smaller batches keep request
		// bodies within its limits.
		cfg.UploadBatchSize = settings.CloudBatchSize
		cfg.Dimension = openai.ModelDimension(settings.EmbeddingModel)
		return services.NewUploadService(jsonl.New(settings.PassagesPath()), index, nil, cfg), nil
	}

	embedder, err := newEmbedder(settings)
	if err != nil {
		return nil, err
	}
	cfg.Dimension = embedder.Dimensions()
	return services.NewUploadService(jsonl.New(settings.PassagesPath()), index, embedder, cfg), nil
}

func newEmbedder(settings *config.Settings) (driven.Embedder, error) {
	switch settings.EmbeddingProvider {
	case "ollama":
		return ollama.New(ollama.Config{
			BaseURL: settings.EmbeddingBaseURL,
			Model:   settings.EmbeddingModel,
		}), nil
	case "openai":
		return openai.New(openai.Config{
			BaseURL: settings.EmbeddingBaseURL,
			APIKey:  settings.EmbeddingAPIKey,
			Model:   settings.EmbeddingModel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", settings.EmbeddingProvider)
	}
}

func gatherStatus(ctx context.Context, settings *config.Settings) (*cli.StatusReport, error) {
	report := &cli.StatusReport{
		DumpPath:   settings.DumpPath(),
		StorePath:  settings.PassagesPath(),
		Collection: settings.Collection,
	}

	if _, err := os.Stat(settings.DumpPath()); err == nil {
		report.DumpPresent = true
	}

	store := jsonl.New(settings.PassagesPath())
	if count, err := store.Count(); err == nil {
		report.PassageCount = count
	}

	index := qdrant.New(qdrant.Config{
		BaseURL: settings.QdrantURL,
		APIKey:  settings.QdrantAPIKey,
	})
	defer index.Close()

	exists, err := index.CollectionExists(ctx, settings.Collection)
	if err != nil {
		// Partial report: the index being down should not hide the
		// local stage progress.
		return report, err
	}
	if exists {
		info, err := index.GetCollection(ctx, settings.Collection)
		if err != nil {
			return report, err
		}
		report.CollectionInfo = info
	}
	return report, nil
}
