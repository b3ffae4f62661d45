// Package chunker splits article text into bounded-length passages.
//
// Text is split on blank-line boundaries and paragraphs are accumulated
// until the next one would push the accumulator past the word limit. A
// paragraph that alone exceeds the limit is folded in sentence by
// sentence, so an oversized paragraph still yields bounded passages
// without ever splitting mid-sentence.
package chunker

import (
	"regexp"
	"strings"

	"github.com/KShivendu/agentic-search/internal/core/domain"
	"github.com/KShivendu/agentic-search/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// DefaultMinWords is the default lower bound to flush a pending passage.
const DefaultMinWords = 30

// DefaultMaxWords is the default hard upper bound before a forced split.
const DefaultMaxWords = 300

// sentenceEnd splits after '.', '!' or '?' followed by whitespace.
// Go's regexp has no lookbehind, so the terminator is captured with the
// sentence instead of being asserted behind the split point.
var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// Processor splits normalised text into passages between MinWords and
// MaxWords, preferring paragraph boundaries and falling back to sentence
// boundaries for oversized paragraphs.
type Processor struct {
	minWords int
	maxWords int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMinWords sets the lower bound to flush a pending passage.
func WithMinWords(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.minWords = n
		}
	}
}

// WithMaxWords sets the hard upper bound before a forced split.
func WithMaxWords(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxWords = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		minWords: DefaultMinWords,
		maxWords: DefaultMaxWords,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure the bounds are ordered
	if p.minWords >= p.maxWords {
		p.minWords = p.maxWords / 4
	}

	return p
}

// MinWords returns the configured lower bound.
func (p *Processor) MinWords() int {
	return p.minWords
}

// MaxWords returns the configured upper bound.
func (p *Processor) MaxWords() int {
	return p.maxWords
}

// accumulator collects text fragments until they are flushed as a passage.
type accumulator struct {
	fragments []string
	words     int
}

func (a *accumulator) add(fragment string, words int) {
	a.fragments = append(a.fragments, fragment)
	a.words += words
}

func (a *accumulator) reset() {
	a.fragments = nil
	a.words = 0
}

func (a *accumulator) text() string {
	return strings.Join(a.fragments, " ")
}

// Chunk splits text into ordered passages for the given article title.
//
// Passages are flushed when the next fragment would exceed maxWords, but
// only once the accumulator holds at least minWords: an under-filled
// accumulator is allowed to grow past maxWords rather than emit a tiny
// fragment. A trailing remainder under minWords is dropped.
func (p *Processor) Chunk(text, title string) []domain.Passage {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	var passages []domain.Passage
	var acc accumulator

	flush := func() {
		passages = append(passages, domain.Passage{
			ID:         domain.PassageID(title, len(passages)),
			Title:      title,
			Text:       acc.text(),
			ChunkIndex: len(passages),
		})
		acc.reset()
	}

	// fold adds one fragment, flushing first if it would overflow a
	// sufficiently full accumulator.
	fold := func(fragment string, words int) {
		if acc.words+words > p.maxWords && acc.words >= p.minWords {
			flush()
		}
		acc.add(fragment, words)
	}

	for _, para := range paragraphs {
		words := countWords(para)

		if words > p.maxWords {
			// Oversized paragraph: fold sentence by sentence so each
			// emitted passage still respects maxWords.
			for _, sentence := range splitSentences(para) {
				fold(sentence, countWords(sentence))
			}
			continue
		}

		fold(para, words)
	}

	// Flush the final accumulator only if it clears the minimum; a short
	// trailing remainder is dropped.
	if acc.words >= p.minWords {
		flush()
	}

	return passages
}

// splitParagraphs splits text on blank-line boundaries, dropping empties.
func splitParagraphs(text string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			out = append(out, para)
		}
	}
	return out
}

// splitSentences splits a paragraph after sentence-ending punctuation
// followed by whitespace, keeping the terminator with its sentence.
func splitSentences(para string) []string {
	parts := sentenceEnd.Split(para, -1)
	terms := sentenceEnd.FindAllStringSubmatch(para, -1)

	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if i < len(terms) {
			part += terms[i][1]
		}
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// countWords counts whitespace-separated tokens.
func countWords(s string) int {
	return len(strings.Fields(s))
}
