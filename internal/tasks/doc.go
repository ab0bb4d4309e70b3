// Package tasks resolves display names for a set of stream identities with real-time progress reporting.
//
// # Core Operation
//
// [Resolver.Resolve] turns every identity back into its canonical URL and looks the streamer up:
//   - lookups run on a bounded [ants] worker pool
//   - a rate limiter paces submissions so upstream APIs are not flooded
//   - results keep the input order and never fail the whole run
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// [ants]: https://github.com/panjf2000/ants
package tasks
