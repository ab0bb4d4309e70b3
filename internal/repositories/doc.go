// Package repositories implements SQLite persistence for the browser-style storages.
//
// Key Implementations:
//   - [StorageRepository] : key/value rows partitioned by scope, exposed per scope as a [store.WebStorage]
//   - [SessionRepository] : session scopes with last-seen tracking, so stale session storage can be purged
//
// The local scope is shared by every run; each session gets its own scope named by [SessionScope].
package repositories
