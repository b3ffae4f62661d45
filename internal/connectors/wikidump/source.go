// Package wikidump streams articles out of a MediaWiki XML dump.
//
// The dump is parsed token by token so memory stays bounded no matter how
// large the archive is. Only main-namespace pages are emitted; redirects
// and empty pages are skipped.
package wikidump

import (
	"compress/bzip2"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KShivendu/agentic-search/internal/core/domain"
	"github.com/KShivendu/agentic-search/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.ArticleSource = (*Source)(nil)

// mainNamespace is the MediaWiki namespace holding encyclopedia articles.
const mainNamespace = "0"

// redirectMarker starts the markup of redirect pages (case-insensitive).
const redirectMarker = "#redirect"

// channelBuffer decouples XML decoding from downstream processing.
const channelBuffer = 64

// Source reads articles from a (optionally bz2-compressed) XML dump file.
type Source struct {
	path string
}

// New creates an article source for the dump file at path.
// Files ending in .bz2 are decompressed transparently.
func New(path string) *Source {
	return &Source{path: path}
}

// Validate checks the dump file exists and is readable.
func (s *Source) Validate(_ context.Context) error {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s (run the download stage first)", domain.ErrDumpMissing, s.path)
	}
	if err != nil {
		return fmt.Errorf("stat dump: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, s.path)
	}
	return nil
}

// Stream fetches all main-namespace articles from the dump in file order.
func (s *Source) Stream(ctx context.Context) (<-chan domain.Article, <-chan error) {
	articles := make(chan domain.Article, channelBuffer)
	errs := make(chan error, 1)

	go func() {
		defer close(articles)
		defer close(errs)

		f, err := os.Open(s.path)
		if err != nil {
			errs <- fmt.Errorf("open dump: %w", err)
			return
		}
		defer f.Close()

		var r io.Reader = f
		if strings.HasSuffix(s.path, ".bz2") {
			r = bzip2.NewReader(f)
		}

		if err := decodePages(ctx, r, articles); err != nil {
			errs <- err
		}
	}()

	return articles, errs
}

// Close releases resources.
func (s *Source) Close() error {
	// The file handle lives inside Stream's goroutine.
	return nil
}

// page mirrors the subset of the MediaWiki export schema we consume.
// The decoder matches by local name, so the export namespace version
// does not matter.
type page struct {
	Title    string `xml:"title"`
	Ns       string `xml:"ns"`
	Redirect *struct {
		Title string `xml:"title,attr"`
	} `xml:"redirect"`
	Revision struct {
		Text string `xml:"text"`
	} `xml:"revision"`
}

// decodePages walks the XML token stream and emits qualifying articles.
func decodePages(ctx context.Context, r io.Reader, out chan<- domain.Article) error {
	decoder := xml.NewDecoder(r)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode dump: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "page" {
			continue
		}

		var p page
		if err := decoder.DecodeElement(&p, &start); err != nil {
			return fmt.Errorf("decode page: %w", err)
		}

		if !wanted(&p) {
			continue
		}

		select {
		case out <- domain.Article{Title: p.Title, RawText: p.Revision.Text}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// wanted filters to main-namespace, non-redirect, non-empty pages.
func wanted(p *page) bool {
	if p.Ns != mainNamespace {
		return false
	}
	if p.Title == "" || p.Revision.Text == "" {
		return false
	}
	if p.Redirect != nil {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(p.Revision.Text), redirectMarker)
}
