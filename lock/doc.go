// Package lock provides advisory locks that serialize manifest writers
// sharing a store.
//
// A single process needs no Locker; the manifest store already serializes
// its own mutations. Deployments with several writer processes pick the
// implementation matching their store: FileLock for a shared filesystem,
// DynamoLock for object storage.
package lock
