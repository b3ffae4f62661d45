// Package wikitext converts MediaWiki markup into plain text.
package wikitext

import (
	"regexp"
	"strings"

	"github.com/KShivendu/agentic-search/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.TextNormaliser = (*Normaliser)(nil)

// Normaliser handles wiki markup. Conversion is best-effort: the goal is
// clean sentences for chunking and embedding, not a faithful rendering.
// Input that cannot be parsed degrades to an empty string.
type Normaliser struct{}

// New creates a new wikitext normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

var (
	// HTML comments <!-- ... -->
	comments = regexp.MustCompile(`(?s)<!--.*?-->`)

	// Reference tags and their contents (<ref>...</ref>, <ref name=x/>)
	refs     = regexp.MustCompile(`(?s)<ref[^>/]*/>|<ref[^>]*>.*?</ref>`)
	mathTags = regexp.MustCompile(`(?s)<math[^>]*>.*?</math>`)

	// Remaining HTML tags, keeping inner text
	htmlTags = regexp.MustCompile(`(?s)</?[a-zA-Z][^>]*>`)

	// Innermost template invocations {{...}}; applied repeatedly so
	// nested templates unwind from the inside out.
	templates = regexp.MustCompile(`\{\{[^{}]*\}\}`)

	// Tables {| ... |}
	tables = regexp.MustCompile(`(?s)\{\|.*?\|\}`)

	// Media links [[File:...]] / [[Image:...]] including trailing options
	mediaLinks = regexp.MustCompile(`(?i)\[\[(?:file|image|media|category):[^\[\]]*(?:\[\[[^\[\]]*\]\][^\[\]]*)*\]\]`)

	// Piped wiki links [[target|label]] -> label
	pipedLinks = regexp.MustCompile(`\[\[[^\[\]|]*\|([^\[\]]+)\]\]`)

	// Plain wiki links [[target]] -> target
	plainLinks = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)

	// External links [url label] -> label, bare [url] -> removed
	extLinks     = regexp.MustCompile(`\[\S+\s+([^\]]+)\]`)
	bareExtLinks = regexp.MustCompile(`\[\S+\]`)

	// Section headings == Heading == -> Heading
	headings = regexp.MustCompile(`(?m)^={1,6}\s*(.*?)\s*={1,6}\s*$`)

	// List and indent markers at line start
	listMarkers = regexp.MustCompile(`(?m)^[*#:;]+\s*`)

	// Whitespace cleanup
	multiNewlines = regexp.MustCompile(`\n{3,}`)
	multiSpaces   = regexp.MustCompile(` {2,}`)
)

// templatePasses bounds the nested-template unwinding so pathological
// markup cannot loop forever.
const templatePasses = 10

// Normalise converts wiki markup to plain text, or "" when nothing
// readable survives stripping.
func (n *Normaliser) Normalise(raw string) string {
	text := raw

	text = comments.ReplaceAllString(text, "")
	text = refs.ReplaceAllString(text, "")
	text = mathTags.ReplaceAllString(text, "")
	text = tables.ReplaceAllString(text, "")

	for i := 0; i < templatePasses && strings.Contains(text, "{{"); i++ {
		stripped := templates.ReplaceAllString(text, "")
		if stripped == text {
			break
		}
		text = stripped
	}

	text = mediaLinks.ReplaceAllString(text, "")
	text = pipedLinks.ReplaceAllString(text, "$1")
	text = plainLinks.ReplaceAllString(text, "$1")
	text = extLinks.ReplaceAllString(text, "$1")
	text = bareExtLinks.ReplaceAllString(text, "")

	text = headings.ReplaceAllString(text, "$1")
	text = listMarkers.ReplaceAllString(text, "")
	text = htmlTags.ReplaceAllString(text, "")

	// Bold/italic quote runs
	text = strings.ReplaceAll(text, "'''", "")
	text = strings.ReplaceAll(text, "''", "")

	text = multiNewlines.ReplaceAllString(text, "\n\n")
	text = multiSpaces.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
