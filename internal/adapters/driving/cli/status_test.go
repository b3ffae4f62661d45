package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KShivendu/agentic-search/internal/core/domain"
)

func setupStatusTest(report *StatusReport, err error) func() {
	oldFn := statusFn
	statusFn = func(_ context.Context) (*StatusReport, error) {
		return report, err
	}
	return func() { statusFn = oldFn }
}

func TestStatusCmd_Use(t *testing.T) {
	assert.Equal(t, "status", statusCmd.Use)
}

func TestStatusCmd_ReportsAllStages(t *testing.T) {
	cleanup := setupStatusTest(&StatusReport{
		DumpPath:     "data/dump.xml.bz2",
		DumpPresent:  true,
		StorePath:    "data/passages.jsonl",
		PassageCount: 42000,
		Collection:   "wikipedia",
		CollectionInfo: &domain.CollectionInfo{
			PointsCount:     42000,
			IndexingEnabled: true,
		},
	}, nil)
	defer cleanup()

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, "dump:       present")
	assert.Contains(t, out, "passages:   42000")
	assert.Contains(t, out, `"wikipedia" holds 42000 points, indexing enabled`)
}

func TestStatusCmd_MissingEverything(t *testing.T) {
	cleanup := setupStatusTest(&StatusReport{
		DumpPath:   "data/dump.xml.bz2",
		StorePath:  "data/passages.jsonl",
		Collection: "wikipedia",
	}, nil)
	defer cleanup()

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, "dump:       missing")
	assert.Contains(t, out, "passages:   0")
	assert.Contains(t, out, `"wikipedia" not created`)
}

func TestStatusCmd_IndexingDisabledHintsAtUpload(t *testing.T) {
	cleanup := setupStatusTest(&StatusReport{
		Collection:     "wikipedia",
		CollectionInfo: &domain.CollectionInfo{PointsCount: 100},
	}, nil)
	defer cleanup()

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, "indexing disabled (upload in progress?)")
}

func TestStatusCmd_UnreachableIndexIsNotFatal(t *testing.T) {
	cleanup := setupStatusTest(&StatusReport{
		DumpPresent:  true,
		PassageCount: 10,
		Collection:   "wikipedia",
	}, fmt.Errorf("dial tcp: %w", domain.ErrIndexUnavailable))
	defer cleanup()

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, `"wikipedia" unreachable`)
}

func TestStatusCmd_OtherErrorsAreFatal(t *testing.T) {
	cleanup := setupStatusTest(nil, errors.New("store corrupt"))
	defer cleanup()

	_, err := execute("status")

	assert.ErrorContains(t, err, "store corrupt")
}

func TestStatusCmd_RequiresStatusFunc(t *testing.T) {
	cleanup := setupStatusTest(nil, nil)
	statusFn = nil
	defer cleanup()

	_, err := execute("status")

	assert.ErrorContains(t, err, "status service not configured")
}
