// Package store provides the key/value storage abstraction used for browser-style persistence and the
// namespaced, size-capped [DataStore] built on top of it.
//
// Two storages are in play at runtime:
//   - local storage, long-lived, holding display names per stream identity
//   - session storage, holding the last submitted token
//
// Both are [WebStorage] implementations. [MemoryStorage] serves tests and throwaway runs; the sqlite-backed
// implementation lives in the repositories package.
package store
