// Package cli implements the cobra command tree. Commands hold no
// construction logic: services are injected by main through the Set*
// functions, and every command checks its dependency before running.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/KShivendu/agentic-search/internal/adapters/driven/config"
	"github.com/KShivendu/agentic-search/internal/adapters/driving/tui"
	"github.com/KShivendu/agentic-search/internal/locking"
	"github.com/KShivendu/agentic-search/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// lockTimeout bounds how long a command waits for a concurrent run to
// release the data-file lock before giving up.
const lockTimeout = 2 * time.Second

var verboseFlag bool

// settings holds the loaded configuration, injected by main.
var settings *config.Settings

var rootCmd = &cobra.Command{
	Use:   "agentic-search",
	Short: "Build a semantic search index over a Wikipedia dump",
	Long: `agentic-search ingests a Wikipedia XML dump into a Qdrant collection.

The pipeline runs in three stages, each resumable after interruption:

  download   fetch the compressed dump from a mirror
  chunk      split articles into word-bounded passages (JSON Lines)
  upload     embed passages and upsert them into Qdrant`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"enable debug logging")
}

// SetSettings injects the loaded configuration.
func SetSettings(s *config.Settings) {
	settings = s
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// withRunLock takes the exclusive run lock for the duration of fn.
func withRunLock(fn func() error) error {
	if settings == nil {
		return errNotConfigured("settings")
	}
	release, err := locking.Acquire(settings.LockPath(), lockTimeout)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// runWithProgress executes run in a goroutine while showing progress.
// On a TTY the bubbletea UI polls for snapshots; otherwise the services'
// own log lines carry the progress and this just waits.
func runWithProgress(ctx context.Context, title string, poll tui.Poll, run func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	if term.IsTerminal(int(os.Stdout.Fd())) {
		logger.SetQuiet(true)
		defer logger.SetQuiet(false)
		return tui.Run(title, poll, done)
	}
	return <-done
}

func errNotConfigured(what string) error {
	return fmt.Errorf("%s not configured", what)
}
