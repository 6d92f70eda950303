// Package metastore persists the authoritative set of indexes and index
// templates of a search cluster as a single manifest document inside a blob
// store.
//
// The manifest is written as a tagged, versioned JSON envelope so the on-disk
// format can evolve without breaking old data. Decoding dispatches on the
// version tag; stores still holding the deprecated pre-versioning format are
// migrated in place on first access. Storage failures are classified into
// ForbiddenError and InternalError before they leave the package, and
// malformed bytes surface as DecodeError, never as a silently empty manifest.
//
// LoadOrCreateManifest and SaveManifest are the low-level persistence
// operations. They issue strictly sequential storage calls and hold no locks:
// the caller must serialize all mutations of a given store. FileBacked wraps
// them into a full metastore facade that owns that serialization, tracks
// per-index metadata files, and applies index templates.
package metastore
