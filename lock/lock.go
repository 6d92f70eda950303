package lock

import "context"

// Locker serializes writers of a shared resource across processes or nodes.
type Locker interface {
	// Lock blocks until the lock is held or ctx is done. On success it
	// returns a release function that must be called exactly once.
	Lock(ctx context.Context) (release func(), err error)
}
