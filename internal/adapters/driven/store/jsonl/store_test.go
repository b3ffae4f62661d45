package jsonl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KShivendu/agentic-search/internal/core/domain"
)

func testPassages(titles ...string) []domain.Passage {
	var out []domain.Passage
	for _, title := range titles {
		for i := 0; i < 2; i++ {
			out = append(out, domain.Passage{
				ID:         domain.PassageID(title, i),
				Title:      title,
				Text:       "some passage text for " + title,
				ChunkIndex: i,
			})
		}
	}
	return out
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "passages.jsonl"))
}

func drain(t *testing.T, s *Store, skip int) ([]domain.Passage, []error) {
	t.Helper()
	passages, errs := s.Stream(context.Background(), skip)

	var out []domain.Passage
	var errList []error
	for passages != nil || errs != nil {
		select {
		case p, ok := <-passages:
			if !ok {
				passages = nil
				continue
			}
			out = append(out, p)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			errList = append(errList, err)
		}
	}
	return out, errList
}

func TestAppendAndStream_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := testPassages("Physics", "Chemistry")

	require.NoError(t, s.Append(want))
	require.NoError(t, s.Close())

	got, errs := drain(t, s, 0)
	assert.Empty(t, errs)
	assert.Equal(t, want, got)
}

func TestStream_SkipCount(t *testing.T) {
	s := newTestStore(t)
	all := testPassages("A", "B", "C") // 6 records

	require.NoError(t, s.Append(all))
	require.NoError(t, s.Close())

	got, errs := drain(t, s, 4)
	assert.Empty(t, errs)
	require.Len(t, got, 2)
	assert.Equal(t, all[4:], got)
}

func TestStream_SkipPastEnd(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(testPassages("A")))
	require.NoError(t, s.Close())

	got, errs := drain(t, s, 100)
	assert.Empty(t, errs)
	assert.Empty(t, got)
}

func TestStream_MalformedLinesSkippedAndReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passages.jsonl")
	content := `{"id":"A_0","title":"A","text":"first","chunk_index":0}
not json at all

{"id":"A_1","title":"A","text":"second","chunk_index":1}
{"broken":
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s := New(path)
	got, errs := drain(t, s, 0)

	require.Len(t, got, 2)
	assert.Equal(t, "A_0", got[0].ID)
	assert.Equal(t, "A_1", got[1].ID)
	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestCount_IgnoresBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passages.jsonl")
	content := "{\"id\":\"A_0\"}\n\n{\"id\":\"A_1\"}\n\n\n{\"id\":\"A_2\"}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s := New(path)
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCount_MissingFile(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Count()
	assert.ErrorIs(t, err, domain.ErrStoreMissing)
}

func TestStream_MissingFile(t *testing.T) {
	s := newTestStore(t)
	got, errs := drain(t, s, 0)
	assert.Empty(t, got)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrStoreMissing)
}

func TestTitles_ResumeSet(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(testPassages("Physics", "Chemistry")))
	require.NoError(t, s.Close())

	titles, err := s.Titles()
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{
		"Physics":   {},
		"Chemistry": {},
	}, titles)
}

func TestTitles_MissingFileIsEmptySet(t *testing.T) {
	s := newTestStore(t)
	titles, err := s.Titles()
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestAppend_ResumesAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passages.jsonl")

	first := New(path)
	require.NoError(t, first.Append(testPassages("A")))
	require.NoError(t, first.Close())

	second := New(path)
	require.NoError(t, second.Append(testPassages("B")))
	require.NoError(t, second.Close())

	n, err := second.Count()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
