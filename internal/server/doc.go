// Package server provides HTTP routing, middleware, and the streamer lookup endpoint.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Middleware
//
//   - [RequestID] tags every request with a uuid, reusing an incoming X-Request-ID
//   - [Logging] writes one line per request with status and duration
//   - [Recover] turns handler panics into 500 responses
//   - [CORS] answers preflight requests for the configured origins
//
// # Streamer Lookup
//
// [StreamerHandler] answers GET ?q=<url> and POST {"url": ...} with the JSON lookup response:
//
//	{"identified": true, "candidates": [{"name": "...", "thumbnailUrl": "...", "streamUrl": "..."}]}
//
// Lookup failures never surface as HTTP errors; the handler answers with the not-identified response instead.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
