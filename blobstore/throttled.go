package blobstore

import (
	"context"

	"golang.org/x/time/rate"
)

// ThrottledStore wraps a Store and limits the rate of operations against it.
// Useful in front of request-rate-limited backends (S3 per-prefix limits,
// shared test clusters).
type ThrottledStore struct {
	inner   Store
	limiter *rate.Limiter
}

// NewThrottledStore creates a new ThrottledStore allowing opsPerSec
// operations per second with the given burst.
func NewThrottledStore(inner Store, opsPerSec float64, burst int) *ThrottledStore {
	return &ThrottledStore{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(opsPerSec), burst),
	}
}

// URI returns the wrapped store's location identifier.
func (s *ThrottledStore) URI() string {
	return s.inner.URI()
}

// Exists reports whether the named blob exists.
func (s *ThrottledStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return false, err
	}
	return s.inner.Exists(ctx, name)
}

// ReadAll reads the full content of the named blob.
func (s *ThrottledStore) ReadAll(ctx context.Context, name string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.ReadAll(ctx, name)
}

// Put writes a blob.
func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// Delete removes a blob.
func (s *ThrottledStore) Delete(ctx context.Context, name string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.inner.Delete(ctx, name)
}
