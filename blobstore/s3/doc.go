// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	import s3blob "github.com/petrel-search/petrel/blobstore/s3"
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3blob.NewStore(s3.NewFromConfig(cfg), "my-bucket", "metastore/")
//
// # Features
//
//   - Multipart-capable uploads via the AWS upload manager
//   - Storage error kinds mapped onto blobstore sentinels
//     (NoSuchKey/NotFound -> ErrNotFound, AccessDenied -> ErrUnauthorized)
//   - Configurable prefix for multi-tenant isolation
package s3
