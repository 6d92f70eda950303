package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

const defaultRetryDelay = 200 * time.Millisecond

// FileLock guards a resource with an advisory file lock. It works between
// processes sharing a filesystem; bound the wait through ctx.
type FileLock struct {
	path       string
	retryDelay time.Duration
}

// NewFileLock creates a file lock at path. The lock file is created on first
// acquisition; its parent directory must exist.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		path:       path,
		retryDelay: defaultRetryDelay,
	}
}

// Lock acquires the file lock, retrying until it is held or ctx is done.
func (l *FileLock) Lock(ctx context.Context) (func(), error) {
	// A fresh file handle per acquisition, so goroutines of one process
	// exclude each other just like separate processes do.
	fileLock := flock.New(l.path)

	locked, err := fileLock.TryLockContext(ctx, l.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("cannot acquire file lock %s: %w", l.path, err)
	}

	if !locked {
		return nil, fmt.Errorf("file lock %s is held elsewhere", l.path)
	}

	return func() { _ = fileLock.Unlock() }, nil
}
