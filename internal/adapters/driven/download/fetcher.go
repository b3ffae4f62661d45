// Package download fetches the compressed article dump over HTTP.
// Downloads land in a .partial file and resume with a Range request, so
// an interrupted multi-gigabyte transfer picks up where it stopped. The
// final rename is atomic: the destination path either holds a complete
// dump or does not exist.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KShivendu/agentic-search/internal/logger"
)

const (
	defaultTimeout = 0 // no overall timeout, dumps take hours on slow links
	userAgent      = "agentic-search/1.0"
	copyBufSize    = 256 * 1024
)

// Progress reports transfer state to the caller. total is -1 when the
// server does not advertise a length.
type Progress func(downloaded, total int64)

// Fetcher downloads dump archives.
type Fetcher struct {
	client   *http.Client
	progress Progress
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client. Useful for testing.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithProgress installs a progress callback.
func WithProgress(p Progress) Option {
	return func(f *Fetcher) { f.progress = p }
}

// New creates a dump fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url to dest, resuming a previous partial transfer if
// one is found. It is a no-op when dest already exists.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		logger.Info("Dump already present at %s, skipping download", dest)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	partial := dest + ".partial"
	offset := int64(0)
	if info, err := os.Stat(partial); err == nil {
		offset = info.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
		logger.Info("Resuming download at byte %d", offset)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
		// Server honoured the Range header, append to the partial file.
	case http.StatusOK:
		// Full body from the start; discard whatever was downloaded before.
		offset = 0
	case http.StatusRequestedRangeNotSatisfiable:
		// Partial file already covers the full object.
		return finalize(partial, dest)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return fmt.Errorf("download failed: %s\n%s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := f.copyBody(resp, partial, offset); err != nil {
		return err
	}
	return finalize(partial, dest)
}

func (f *Fetcher) copyBody(resp *http.Response, partial string, offset int64) error {
	flags := os.O_CREATE | os.O_WRONLY
	if offset > 0 {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	out, err := os.OpenFile(partial, flags, 0o644)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", partial, err)
	}
	defer out.Close()

	total := resp.ContentLength
	if total > 0 {
		total += offset
	}

	downloaded := offset
	lastReport := time.Now()
	buf := make([]byte, copyBufSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write failed: %w", werr)
			}
			downloaded += int64(n)
			if f.progress != nil && time.Since(lastReport) > 200*time.Millisecond {
				f.progress(downloaded, total)
				lastReport = time.Now()
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			return fmt.Errorf("download read failed: %w", rerr)
		}
	}
	if f.progress != nil {
		f.progress(downloaded, total)
	}

	return out.Sync()
}

func finalize(partial, dest string) error {
	if err := os.Rename(partial, dest); err != nil {
		return fmt.Errorf("finalize download: %w", err)
	}
	logger.Info("Download complete: %s", dest)
	return nil
}
