package blobstore

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CachingStore wraps a Store and adds a read-through cache over whole blobs.
// Writes invalidate the cached entry. Concurrent cache misses for the same
// blob are collapsed into a single backend read.
//
// The cache only observes writes going through it. Stores mutated by another
// process behind its back require the caller's single-writer discipline,
// same as the manifest itself.
type CachingStore struct {
	inner Store
	group singleflight.Group

	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewCachingStore creates a new CachingStore.
func NewCachingStore(inner Store) *CachingStore {
	return &CachingStore{
		inner: inner,
		blobs: make(map[string][]byte),
	}
}

// URI returns the wrapped store's location identifier.
func (s *CachingStore) URI() string {
	return s.inner.URI()
}

// Exists reports whether the named blob exists. Cached entries answer
// without a backend call.
func (s *CachingStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	_, ok := s.blobs[name]
	s.mu.RUnlock()
	if ok {
		return true, nil
	}
	return s.inner.Exists(ctx, name)
}

// ReadAll reads the full content of the named blob, serving repeated reads
// from the cache.
func (s *CachingStore) ReadAll(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.blobs[name]
	s.mu.RUnlock()
	if ok {
		return clone(data), nil
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		data, err := s.inner.ReadAll(ctx, name)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.blobs[name] = clone(data)
		s.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	// Copy so collapsed callers never share a slice.
	return clone(v.([]byte)), nil
}

// Put writes a blob and invalidates its cached entry.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes a blob and invalidates its cached entry.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) invalidate(name string) {
	s.mu.Lock()
	delete(s.blobs, name)
	s.mu.Unlock()
	s.group.Forget(name)
}

func clone(data []byte) []byte {
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied
}
