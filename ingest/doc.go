// Package ingest defines the data schema shared by ingestion components:
// shards, shard groupings, document batches, and commit semantics.
//
// The package is schema only. It carries no orchestration logic; deciding
// when a shard opens, closes, or moves between nodes belongs to the callers.
package ingest
