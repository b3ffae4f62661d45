package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/KShivendu/agentic-search/internal/core/domain"
)

// StatusReport summarises pipeline state across all three stages.
type StatusReport struct {
	DumpPath    string
	DumpPresent bool

	StorePath    string
	PassageCount int

	Collection     string
	CollectionInfo *domain.CollectionInfo // nil when the collection does not exist
}

// statusFn gathers the report. Injected by main.
var statusFn func(ctx context.Context) (*StatusReport, error)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline progress across all stages",
	RunE:  runStatus,
}

// SetStatusFunc injects the status reporter.
func SetStatusFunc(f func(ctx context.Context) (*StatusReport, error)) {
	statusFn = f
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if statusFn == nil {
		return errNotConfigured("status service")
	}

	report, err := statusFn(cmd.Context())
	if err != nil && (report == nil || !isUnreachable(err)) {
		return err
	}

	if report.DumpPresent {
		cmd.Printf("dump:       present (%s)\n", report.DumpPath)
	} else {
		cmd.Printf("dump:       missing (%s)\n", report.DumpPath)
	}

	cmd.Printf("passages:   %d (%s)\n", report.PassageCount, report.StorePath)

	switch {
	case err != nil:
		cmd.Printf("collection: %q unreachable: %v\n", report.Collection, err)
	case report.CollectionInfo == nil:
		cmd.Printf("collection: %q not created\n", report.Collection)
	case report.CollectionInfo.IndexingEnabled:
		cmd.Printf("collection: %q holds %d points, indexing enabled\n",
			report.Collection, report.CollectionInfo.PointsCount)
	default:
		cmd.Printf("collection: %q holds %d points, indexing disabled (upload in progress?)\n",
			report.Collection, report.CollectionInfo.PointsCount)
	}
	return nil
}

// isUnreachable reports whether err means the index cannot be reached,
// which status treats as informational rather than fatal.
func isUnreachable(err error) bool {
	return errors.Is(err, domain.ErrIndexUnavailable)
}
