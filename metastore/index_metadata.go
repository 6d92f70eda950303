package metastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/petrel-search/petrel/blobstore"
	"github.com/petrel-search/petrel/codec"
	"github.com/petrel-search/petrel/model"
)

// IndexMetadataFileName is the per-index metadata file, stored under the
// index ID directory at the store root.
const IndexMetadataFileName = "metastore.json"

// IndexMetadata describes one index known to the metastore. The incarnation
// half of the UID distinguishes an index from earlier, deleted indexes that
// carried the same ID.
type IndexMetadata struct {
	IndexUID        model.IndexUID
	CreateTimestamp int64
}

// IndexID returns the index ID half of the UID.
func (im *IndexMetadata) IndexID() string {
	return im.IndexUID.IndexID
}

// indexMetadataV0_7 is the version "0.7" wire payload of an index metadata
// file, written under the same tagged envelope scheme as the manifest.
type indexMetadataV0_7 struct {
	Version         string         `json:"version"`
	IndexUID        model.IndexUID `json:"index_uid"`
	CreateTimestamp int64          `json:"create_timestamp"`
}

// MarshalJSON encodes the metadata wrapped in the current-version envelope.
func (im IndexMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(indexMetadataV0_7{
		Version:         ManifestVersion,
		IndexUID:        im.IndexUID,
		CreateTimestamp: im.CreateTimestamp,
	})
}

// UnmarshalJSON decodes any known envelope version. An unrecognized version
// tag fails with a DecodeError, exactly like the manifest.
func (im *IndexMetadata) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Version string `json:"version"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return &DecodeError{TypeName: "index metadata", cause: err}
	}

	switch envelope.Version {
	case ManifestVersion:
		var payload indexMetadataV0_7
		if err := json.Unmarshal(data, &payload); err != nil {
			return &DecodeError{TypeName: "index metadata", cause: err}
		}

		im.IndexUID = payload.IndexUID
		im.CreateTimestamp = payload.CreateTimestamp

		return nil
	default:
		return &DecodeError{
			TypeName: "index metadata",
			cause:    fmt.Errorf("unknown version tag %q", envelope.Version),
		}
	}
}

func indexMetadataPath(indexID string) string {
	return path.Join(indexID, IndexMetadataFileName)
}

func loadIndexMetadata(ctx context.Context, store blobstore.Store, indexID string, o options) (*IndexMetadata, error) {
	filePath := indexMetadataPath(indexID)

	data, err := store.ReadAll(ctx, filePath)
	if err != nil {
		return nil, intoMetastoreError(err, store.URI(), filePath, "index metadata file", "load")
	}

	metadata := &IndexMetadata{}
	if err := o.codec.Unmarshal(data, metadata); err != nil {
		return nil, intoDecodeError("index metadata", err)
	}

	return metadata, nil
}

func saveIndexMetadata(ctx context.Context, store blobstore.Store, metadata *IndexMetadata, o options) error {
	filePath := indexMetadataPath(metadata.IndexID())

	data, err := codec.MarshalIndent(o.codec, metadata, "", "  ")
	if err != nil {
		return &InternalError{Message: "failed to serialize index metadata", cause: err}
	}

	if err := store.Put(ctx, filePath, data); err != nil {
		return intoMetastoreError(err, store.URI(), filePath, "index metadata file", "save")
	}

	return nil
}

// deleteIndexMetadata removes the per-index file. A missing file is not an
// error: a retried deletion must be able to complete.
func deleteIndexMetadata(ctx context.Context, store blobstore.Store, indexID string) error {
	filePath := indexMetadataPath(indexID)

	if err := store.Delete(ctx, filePath); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return intoMetastoreError(err, store.URI(), filePath, "index metadata file", "delete")
	}

	return nil
}
