package download

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rangeServer serves content with Range support, like a dump mirror.
func rangeServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := content
		if rng := r.Header.Get("Range"); rng != "" {
			var offset int
			_, err := fmt.Sscanf(rng, "bytes=%d-", &offset)
			require.NoError(t, err)
			if offset >= len(content) {
				w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
				return
			}
			body = content[offset:]
			w.Header().Set("Content-Range",
				fmt.Sprintf("bytes %d-%d/%d", offset, len(content)-1, len(content)))
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
			w.WriteHeader(http.StatusPartialContent)
		}
		_, _ = w.Write([]byte(body))
	}))
}

func TestFetch_FullDownload(t *testing.T) {
	srv := rangeServer(t, "dump-bytes-here")
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "dump.xml.bz2")
	f := New(WithHTTPClient(srv.Client()))

	require.NoError(t, f.Fetch(context.Background(), srv.URL, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "dump-bytes-here", string(data))
	assert.NoFileExists(t, dest+".partial")
}

func TestFetch_ResumesFromPartial(t *testing.T) {
	content := strings.Repeat("x", 100) + strings.Repeat("y", 100)
	srv := rangeServer(t, content)
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "dump.xml.bz2")
	require.NoError(t, os.WriteFile(dest+".partial", []byte(content[:100]), 0o644))

	var sawRange bool
	client := srv.Client()
	client.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get("Range") == "bytes=100-" {
			sawRange = true
		}
		return http.DefaultTransport.RoundTrip(r)
	})

	f := New(WithHTTPClient(client))
	require.NoError(t, f.Fetch(context.Background(), srv.URL, dest))

	assert.True(t, sawRange, "expected a Range request for the partial file")
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestFetch_CompletePartialIsRenamed(t *testing.T) {
	content := "complete-content"
	srv := rangeServer(t, content)
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "dump.xml.bz2")
	require.NoError(t, os.WriteFile(dest+".partial", []byte(content), 0o644))

	f := New(WithHTTPClient(srv.Client()))
	require.NoError(t, f.Fetch(context.Background(), srv.URL, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestFetch_ExistingDestIsNoop(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "dump.xml.bz2")
	require.NoError(t, os.WriteFile(dest, []byte("already here"), 0o644))

	// No server: a request would fail, proving none is made.
	f := New()
	require.NoError(t, f.Fetch(context.Background(), "http://127.0.0.1:0/nope", dest))
}

func TestFetch_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "mirror offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "dump.xml.bz2")
	f := New(WithHTTPClient(srv.Client()))

	err := f.Fetch(context.Background(), srv.URL, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mirror offline")
}

func TestFetch_ReportsProgress(t *testing.T) {
	srv := rangeServer(t, "0123456789")
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "dump.xml.bz2")
	var last int64
	f := New(WithHTTPClient(srv.Client()), WithProgress(func(downloaded, _ int64) {
		last = downloaded
	}))

	require.NoError(t, f.Fetch(context.Background(), srv.URL, dest))
	assert.Equal(t, int64(10), last)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
