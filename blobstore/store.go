package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrUnauthorized is returned when the backing storage denies access.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrUnauthorized)`.
// The default maps to `os.ErrPermission`.
var ErrUnauthorized = os.ErrPermission

// Store is an abstraction for reading and writing small named documents
// (manifests, index metadata).
type Store interface {
	// Exists reports whether the named blob exists.
	Exists(ctx context.Context, name string) (bool, error)

	// ReadAll reads the full content of the named blob.
	// Returns ErrNotFound if the blob does not exist.
	ReadAll(ctx context.Context, name string) ([]byte, error)

	// Put writes a blob atomically, replacing any previous content.
	// Readers never observe a partially written blob.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// URI returns the location of the store root for error messages,
	// e.g. "file:///var/lib/petrel" or "s3://bucket/prefix".
	URI() string
}
