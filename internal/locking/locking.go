// Package locking guards the pipeline's data files against concurrent
// runs. The chunk and upload stages both append to or read from the
// passage store, and two writers would interleave JSON lines, so each
// run takes an exclusive file lock for its lifetime.
package locking

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/KShivendu/agentic-search/internal/core/domain"
)

// Acquire obtains the exclusive run lock at path, retrying until the
// timeout elapses. The returned release function is safe to call more
// than once. If another process holds the lock past the deadline, the
// error wraps domain.ErrRunLocked.
func Acquire(path string, timeout time.Duration) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	l := flock.New(path)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return nil, fmt.Errorf("cannot acquire run lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w (lock: %s)", domain.ErrRunLocked, path)
		}
		time.Sleep(200 * time.Millisecond)
	}
}
