// Package jsonl implements the passage store as an append-only JSONL file.
//
// One JSON object per line, UTF-8, fields id/title/text/chunk_index. Blank
// lines and malformed lines are ignored on read so a corrupt record never
// aborts a stream. The file is the durable hand-off between the chunk
// stage and the upload stage.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/KShivendu/agentic-search/internal/core/domain"
	"github.com/KShivendu/agentic-search/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.PassageStore = (*Store)(nil)

// maxLineBytes bounds a single record; passages are a few KB at most.
const maxLineBytes = 1 << 20

// readBuffer is the scanner's initial buffer size.
const readBuffer = 64 * 1024

// Store reads and writes passages at a fixed file path.
type Store struct {
	mu   sync.Mutex
	path string
	file *os.File
	w    *bufio.Writer
}

// New creates a store for the JSONL file at path. The file is created
// lazily on first append; reads against a missing file return
// domain.ErrStoreMissing.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Append serialises passages to the store, one record per line.
func (s *Store) Append(passages []domain.Passage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureWriter(); err != nil {
		return err
	}

	for _, p := range passages {
		line, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal passage %s: %w", p.ID, err)
		}
		if _, err := s.w.Write(line); err != nil {
			return fmt.Errorf("append passage: %w", err)
		}
		if err := s.w.WriteByte('\n'); err != nil {
			return fmt.Errorf("append passage: %w", err)
		}
	}
	return nil
}

// Titles re-scans the store and returns the set of article titles already
// present. This is the chunk stage's resume state: an article whose title
// is in the set has been fully chunked by a previous run.
func (s *Store) Titles() (map[string]struct{}, error) {
	titles := make(map[string]struct{})

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return titles, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	scanner := newScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p domain.Passage
		if err := json.Unmarshal(line, &p); err != nil {
			continue
		}
		if p.Title != "" {
			titles[p.Title] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan store: %w", err)
	}
	return titles, nil
}

// Sync flushes buffered writes to stable storage.
func (s *Store) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil {
		return nil
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush store: %w", err)
	}
	return s.file.Sync()
}

// Close flushes and closes the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush store: %w", err)
	}
	err := s.file.Close()
	s.file = nil
	s.w = nil
	return err
}

// Count returns the number of non-blank lines without decoding them.
func (s *Store) Count() (int, error) {
	f, err := s.openForRead()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := newScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) > 0 {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan store: %w", err)
	}
	return count, nil
}

// Stream reads passages in file order, skipping the first skip non-blank
// records without decoding them. Malformed lines are reported on the
// error channel and do not terminate the stream.
func (s *Store) Stream(ctx context.Context, skip int) (<-chan domain.Passage, <-chan error) {
	passages := make(chan domain.Passage, 64)
	errs := make(chan error, 8)

	go func() {
		defer close(passages)
		defer close(errs)

		f, err := s.openForRead()
		if err != nil {
			errs <- err
			return
		}
		defer f.Close()

		skipped := 0
		lineNo := 0
		scanner := newScanner(f)
		for scanner.Scan() {
			lineNo++
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			if skipped < skip {
				skipped++
				continue
			}

			var p domain.Passage
			if err := json.Unmarshal(line, &p); err != nil {
				// Permanently corrupt line: report and move on.
				select {
				case errs <- fmt.Errorf("line %d: %w: %v", lineNo, domain.ErrInvalidInput, err):
				case <-ctx.Done():
					return
				}
				continue
			}

			select {
			case passages <- p:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errs <- fmt.Errorf("scan store: %w", err)
		}
	}()

	return passages, errs
}

// ensureWriter lazily opens the file for appending. Callers hold s.mu.
func (s *Store) ensureWriter() error {
	if s.w != nil {
		return nil
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open store for append: %w", err)
	}
	s.file = f
	s.w = bufio.NewWriter(f)
	return nil
}

// openForRead opens the store file, mapping absence to ErrStoreMissing.
func (s *Store) openForRead() (*os.File, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s (run the chunk stage first)", domain.ErrStoreMissing, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return f, nil
}

func newScanner(f *os.File) *bufio.Scanner {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, readBuffer), maxLineBytes)
	return scanner
}
