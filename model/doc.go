// Package model defines core identity types used throughout Petrel.
//
// # Identity Types
//
//   - IndexUID: Index identifier plus incarnation ID, unique across
//     delete/recreate cycles of the same index ID
//   - SourceID: Identifier of an ingestion source within an index
//   - ShardID: Identifier of an ingestion shard within a source
//   - NodeID: Identifier of a cluster node
//
// # Offsets
//
//   - Position: Ordered offset in an ingestion shard log, from Beginning
//     through numeric offsets to Eof
//
// Index identifiers are validated with ValidateIndexID before they enter the
// metastore.
package model
