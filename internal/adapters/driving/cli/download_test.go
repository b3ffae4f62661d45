package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KShivendu/agentic-search/internal/adapters/driven/config"
)

// mockFetcher implements Fetcher for testing.
type mockFetcher struct {
	url  string
	dest string
	err  error
}

func (m *mockFetcher) Fetch(_ context.Context, url, dest string) error {
	m.url = url
	m.dest = dest
	return m.err
}

func setupDownloadTest(t *testing.T, fetcher Fetcher) func() {
	t.Helper()
	oldFetcher := dumpFetcher
	oldSettings := settings
	oldURL := downloadURLFlag

	dumpFetcher = fetcher
	s := config.Defaults()
	s.DataDir = t.TempDir()
	settings = s

	return func() {
		dumpFetcher = oldFetcher
		settings = oldSettings
		downloadURLFlag = oldURL
	}
}

func TestDownloadCmd_Use(t *testing.T) {
	assert.Equal(t, "download", downloadCmd.Use)
}

func TestDownloadCmd_UsesConfiguredURL(t *testing.T) {
	fetcher := &mockFetcher{}
	cleanup := setupDownloadTest(t, fetcher)
	defer cleanup()

	out, err := execute("download")

	assert.NoError(t, err)
	assert.Equal(t, settings.DumpURL, fetcher.url)
	assert.Equal(t, settings.DumpPath(), fetcher.dest)
	assert.Contains(t, out, "Dump ready at")
}

func TestDownloadCmd_URLFlagOverrides(t *testing.T) {
	fetcher := &mockFetcher{}
	cleanup := setupDownloadTest(t, fetcher)
	defer cleanup()

	_, err := execute("download", "--url", "https://mirror.example/dump.xml.bz2")

	assert.NoError(t, err)
	assert.Equal(t, "https://mirror.example/dump.xml.bz2", fetcher.url)
}

func TestDownloadCmd_FetchErrorSurfaces(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("mirror offline")}
	cleanup := setupDownloadTest(t, fetcher)
	defer cleanup()

	_, err := execute("download")

	assert.ErrorContains(t, err, "download failed")
	assert.ErrorContains(t, err, "mirror offline")
}

func TestDownloadCmd_RequiresFetcher(t *testing.T) {
	cleanup := setupDownloadTest(t, nil)
	defer cleanup()

	_, err := execute("download")

	assert.ErrorContains(t, err, "download service not configured")
}
