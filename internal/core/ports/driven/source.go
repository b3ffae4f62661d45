package driven

import (
	"context"

	"github.com/KShivendu/agentic-search/internal/core/domain"
)

// ArticleSource streams articles out of a compressed dump archive.
// Implementations yield every page in the primary content namespace,
// excluding redirects, without ever materialising the whole dump.
type ArticleSource interface {
	// Validate checks the archive exists and is readable.
	// Returns domain.ErrDumpMissing when the file is absent.
	Validate(ctx context.Context) error

	// Stream fetches all articles from the archive in dump order.
	// Returns channels for articles and errors; both are closed when the
	// stream ends. A decode failure is reported on the error channel and
	// ends the stream, since the archive is corrupt past that point.
	Stream(ctx context.Context) (<-chan domain.Article, <-chan error)

	// Close releases resources.
	Close() error
}
