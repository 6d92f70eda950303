// Package blobstore provides storage abstraction for Petrel's metadata files.
//
// Store is the interface for reading and writing named documents (manifests,
// index metadata). Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with atomic temp-file + rename writes
//   - MemoryStore: In-memory, for tests
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible services
//
// Decorators compose around any Store:
//
//   - CachingStore: read-through whole-blob cache
//   - ThrottledStore: request rate limiting
//   - FaultStore: error injection for tests
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Exists(ctx, name) (bool, error)
//	    ReadAll(ctx, name) ([]byte, error)  // ErrNotFound if missing
//	    Put(ctx, name, data) error          // Atomic write
//	    Delete(ctx, name) error             // Idempotent
//	    URI() string                        // Location for error messages
//	}
//
// Errors must be classifiable: return errors satisfying
// errors.Is(err, ErrNotFound) for missing blobs and
// errors.Is(err, ErrUnauthorized) for access denial.
package blobstore
