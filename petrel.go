package petrel

import (
	"context"

	"github.com/petrel-search/petrel/blobstore"
	"github.com/petrel-search/petrel/metastore"
	"github.com/petrel-search/petrel/template"
)

// Re-export the metastore types callers touch on the common path.
type (
	// Metastore is a complete file-backed metastore over one blob store.
	Metastore = metastore.FileBacked

	// Manifest is the persisted metadata aggregate: indexes and templates.
	Manifest = metastore.Manifest

	// IndexMetadata describes one index known to the metastore.
	IndexMetadata = metastore.IndexMetadata

	// IndexStatus is the lifecycle state of an index.
	IndexStatus = metastore.IndexStatus

	// Template declares index settings applied to indexes whose IDs match
	// one of its patterns.
	Template = template.Template

	// Option configures a Metastore.
	Option = metastore.Option
)

// Index lifecycle statuses.
const (
	IndexStatusCreating = metastore.IndexStatusCreating
	IndexStatusActive   = metastore.IndexStatusActive
	IndexStatusDeleting = metastore.IndexStatusDeleting
)

// Configuration options, re-exported from metastore.
var (
	WithCodec            = metastore.WithCodec
	WithLogger           = metastore.WithLogger
	WithMetricsCollector = metastore.WithMetricsCollector
	WithLocker           = metastore.WithLocker
	WithPollingInterval  = metastore.WithPollingInterval
)

// Open loads or creates the metastore held on the given store and returns a
// ready facade. Close it when done.
func Open(ctx context.Context, store blobstore.Store, optFns ...Option) (*Metastore, error) {
	return metastore.Open(ctx, store, optFns...)
}
