package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Fetcher downloads the dump archive to a local path.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// dumpFetcher is injected by main.
var dumpFetcher Fetcher

var downloadURLFlag string

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the article dump",
	Long: `Downloads the compressed Wikipedia XML dump from the configured mirror.

An interrupted download resumes from where it stopped. If the dump is
already present the command exits immediately.`,
	RunE: runDownload,
}

// SetFetcher injects the dump fetcher.
func SetFetcher(f Fetcher) {
	dumpFetcher = f
}

func init() {
	downloadCmd.Flags().StringVar(&downloadURLFlag, "url", "",
		"dump URL (overrides the configured mirror)")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, _ []string) error {
	if dumpFetcher == nil {
		return errNotConfigured("download service")
	}
	if settings == nil {
		return errNotConfigured("settings")
	}

	url := downloadURLFlag
	if url == "" {
		url = settings.DumpURL
	}
	dest := settings.DumpPath()

	cmd.Printf("Downloading %s\n", url)
	if err := dumpFetcher.Fetch(cmd.Context(), url, dest); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	cmd.Printf("Dump ready at %s\n", dest)
	return nil
}
