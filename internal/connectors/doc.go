// Package connectors provides implementations of the ArticleSource
// interface. Each connector knows how to stream articles out of a
// specific dump format; wikidump reads MediaWiki XML export archives.
package connectors
