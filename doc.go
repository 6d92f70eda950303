// Package petrel provides a blob-storage-backed metastore for search
// indexes.
//
// Petrel keeps the metadata of a search deployment, which indexes exist,
// their lifecycle status, and the index templates that configure new
// indexes, in a single versioned manifest file on blob storage, with one
// small metadata file per index next to it. There is no database: any
// backend that can read, write, and delete whole named blobs can host a
// metastore.
//
// # Quick Start
//
// Local mode:
//
//	ctx := context.Background()
//	store, _ := blobstore.NewLocalStore("./metastore")
//
//	ms, _ := petrel.Open(ctx, store)
//	defer ms.Close()
//
//	metadata, _ := ms.CreateIndex(ctx, "logs-2026")
//	fmt.Println(metadata.IndexUID)
//
// Cloud mode:
//
//	client := s3.NewFromConfig(cfg)
//	store := s3blob.NewStore(client, "my-bucket", "metastore")
//
//	ms, _ := petrel.Open(ctx, store,
//	    petrel.WithLocker(lock.NewDynamoLock(ddb, "petrel-locks", "my-metastore")),
//	)
//
// # Storage Layout
//
//	manifest.json             all indexes and templates, versioned envelope
//	{index_id}/metastore.json per-index metadata
//	indexes_states.json       legacy manifest, migrated away on first load
//
// The manifest is pretty-printed deterministic JSON so operators can diff
// revisions.
//
// # Concurrency Model
//
// One writer mutates a given store at a time. The facade serializes its own
// writers with an internal mutex; cross-process deployments add a
// lock.Locker (file lock or DynamoDB lease) via WithLocker. Read-mostly
// replicas follow a writer elsewhere with WithPollingInterval.
//
// # Key Features
//
//   - Versioned manifest envelope with legacy-format migration
//   - Deterministic, human-diffable JSON output
//   - Pluggable storage: local FS, S3, MinIO, in-memory
//   - Index templates with glob patterns, priorities, and exclusions
//   - Structured logging (log/slog) and pluggable metrics
package petrel
