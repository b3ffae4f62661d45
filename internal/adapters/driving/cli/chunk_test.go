package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KShivendu/agentic-search/internal/adapters/driven/config"
	"github.com/KShivendu/agentic-search/internal/core/ports/driving"
)

// mockChunkPipeline implements driving.ChunkPipeline for testing.
type mockChunkPipeline struct {
	stats driving.ChunkStats
	err   error
	runs  int
}

func (m *mockChunkPipeline) Run(_ context.Context) (*driving.ChunkStats, error) {
	m.runs++
	if m.err != nil {
		return nil, m.err
	}
	snapshot := m.stats
	return &snapshot, nil
}

func (m *mockChunkPipeline) Status() *driving.ChunkStats {
	snapshot := m.stats
	return &snapshot
}

func setupChunkTest(t *testing.T, pipeline driving.ChunkPipeline, factoryErr error) func() {
	t.Helper()
	oldFactory := chunkFactory
	oldSettings := settings

	chunkFactory = func() (driving.ChunkPipeline, error) {
		if factoryErr != nil {
			return nil, factoryErr
		}
		return pipeline, nil
	}
	s := config.Defaults()
	s.DataDir = t.TempDir()
	settings = s

	return func() {
		chunkFactory = oldFactory
		settings = oldSettings
	}
}

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestChunkCmd_Use(t *testing.T) {
	assert.Equal(t, "chunk", chunkCmd.Use)
}

func TestChunkCmd_Short(t *testing.T) {
	assert.Equal(t, "Split dump articles into passages", chunkCmd.Short)
}

func TestChunkCmd_PrintsSummary(t *testing.T) {
	pipeline := &mockChunkPipeline{stats: driving.ChunkStats{
		ArticlesSeen:        100,
		ArticlesSkipped:     10,
		ArticlesTooShort:    5,
		ArticlesUnparseable: 1,
		PassagesWritten:     340,
	}}
	cleanup := setupChunkTest(t, pipeline, nil)
	defer cleanup()

	out, err := execute("chunk")

	assert.NoError(t, err)
	assert.Equal(t, 1, pipeline.runs)
	assert.Contains(t, out, "Chunked 100 articles into 340 passages")
	assert.Contains(t, out, "10 skipped")
}

func TestChunkCmd_PipelineErrorSurfaces(t *testing.T) {
	pipeline := &mockChunkPipeline{err: errors.New("dump truncated")}
	cleanup := setupChunkTest(t, pipeline, nil)
	defer cleanup()

	_, err := execute("chunk")

	assert.ErrorContains(t, err, "chunk failed")
	assert.ErrorContains(t, err, "dump truncated")
}

func TestChunkCmd_FactoryErrorSurfaces(t *testing.T) {
	cleanup := setupChunkTest(t, nil, errors.New("no embedding model"))
	defer cleanup()

	_, err := execute("chunk")

	assert.ErrorContains(t, err, "no embedding model")
}

func TestChunkCmd_RequiresFactory(t *testing.T) {
	oldFactory := chunkFactory
	chunkFactory = nil
	defer func() { chunkFactory = oldFactory }()

	_, err := execute("chunk")

	assert.ErrorContains(t, err, "chunk service not configured")
}
