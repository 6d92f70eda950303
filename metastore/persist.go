package metastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petrel-search/petrel/blobstore"
	"github.com/petrel-search/petrel/codec"
)

const (
	// ManifestFileName is the current-format manifest file at the store root.
	ManifestFileName = "manifest.json"

	// LegacyManifestFileName is the deprecated pre-versioning manifest file.
	// It is read and deleted during migration, never written.
	LegacyManifestFileName = "indexes_states.json"
)

// LoadOrCreateManifest materializes the manifest of a store. In order: a
// current-format file is decoded and returned; failing that, a legacy file
// is decoded, upgraded, persisted in the current format and then deleted
// best-effort; failing that, an empty manifest is synthesized and persisted.
// A successful call always leaves the store holding a current-format file.
//
// The function issues strictly sequential storage calls and holds no locks;
// the caller must serialize invocations against the same store.
func LoadOrCreateManifest(ctx context.Context, store blobstore.Store, optFns ...Option) (*Manifest, error) {
	return loadOrCreateManifest(ctx, store, defaultOptions(optFns...))
}

// SaveManifest pretty-prints the manifest and overwrites the current-format
// file. Last writer wins at the storage layer; the single-writer discipline
// of LoadOrCreateManifest applies here too.
func SaveManifest(ctx context.Context, store blobstore.Store, manifest *Manifest, optFns ...Option) error {
	return saveManifest(ctx, store, manifest, defaultOptions(optFns...))
}

func loadOrCreateManifest(ctx context.Context, store blobstore.Store, o options) (manifest *Manifest, err error) {
	start := time.Now()
	defer func() { o.metrics.RecordManifestLoad(time.Since(start), err) }()

	exists, err := fileExists(ctx, store, ManifestFileName)
	if err != nil {
		return nil, err
	}

	if exists {
		data, err := getBytes(ctx, store, ManifestFileName)
		if err != nil {
			return nil, err
		}

		return decodeManifest(o.codec, data)
	}

	legacyExists, err := fileExists(ctx, store, LegacyManifestFileName)
	if err != nil {
		return nil, err
	}

	if legacyExists {
		data, err := getBytes(ctx, store, LegacyManifestFileName)
		if err != nil {
			return nil, err
		}

		legacy, err := decodeLegacyManifest(data)
		if err != nil {
			return nil, err
		}

		manifest := legacy.upgrade()

		// The upgraded manifest must be durable before the legacy file is
		// touched: a crash in between leaves both files, and the next call
		// takes the current-format branch.
		if err := saveManifest(ctx, store, manifest, o); err != nil {
			return nil, err
		}

		if err := store.Delete(ctx, LegacyManifestFileName); err != nil {
			// Best effort. An orphaned legacy file is unreachable from now
			// on, so the failure is observed but never returned.
			o.metrics.RecordLegacyCleanupFailure()
			o.logger.Error("failed to delete legacy manifest file",
				"location", store.URI()+"/"+LegacyManifestFileName,
				"error", err,
			)
		}

		o.metrics.RecordMigration()

		return manifest, nil
	}

	manifest = NewManifest()
	if err := saveManifest(ctx, store, manifest, o); err != nil {
		return nil, err
	}

	return manifest, nil
}

func saveManifest(ctx context.Context, store blobstore.Store, manifest *Manifest, o options) (err error) {
	start := time.Now()
	defer func() { o.metrics.RecordManifestSave(time.Since(start), err) }()

	data, err := codec.MarshalIndent(o.codec, manifest, "", "  ")
	if err != nil {
		return &InternalError{Message: "failed to serialize manifest", cause: err}
	}

	return putBytes(ctx, store, ManifestFileName, data)
}

func fileExists(ctx context.Context, store blobstore.Store, path string) (bool, error) {
	exists, err := store.Exists(ctx, path)
	if err != nil {
		return false, intoMetastoreError(err, store.URI(), path, "manifest file", "list")
	}

	return exists, nil
}

func getBytes(ctx context.Context, store blobstore.Store, path string) ([]byte, error) {
	data, err := store.ReadAll(ctx, path)
	if err != nil {
		return nil, intoMetastoreError(err, store.URI(), path, "manifest file", "load")
	}

	return data, nil
}

func putBytes(ctx context.Context, store blobstore.Store, path string, data []byte) error {
	if err := store.Put(ctx, path, data); err != nil {
		return intoMetastoreError(err, store.URI(), path, "manifest file", "save")
	}

	return nil
}

// intoMetastoreError classifies a storage failure before it crosses the
// package boundary. Unauthorized failures become ForbiddenError; everything
// else becomes InternalError with a summary naming the attempted operation
// and the original failure kept as the cause. No retries happen here.
func intoMetastoreError(err error, uri, path, fileKind, operationName string) error {
	if errors.Is(err, blobstore.ErrUnauthorized) {
		return &ForbiddenError{
			Message: fmt.Sprintf("failed to access %s located at `%s/%s`: unauthorized", fileKind, uri, path),
		}
	}

	return &InternalError{
		Message: fmt.Sprintf("failed to %s %s located at `%s/%s`", operationName, fileKind, uri, path),
		cause:   err,
	}
}
