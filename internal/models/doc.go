// Package models defines the domain values shared by every horzcv package.
//
// # Streaming services
//
// [StreamingService] enumerates the supported platforms. Each has a one-character code used in tokens
// and a human-readable label. [ServiceByCode] fails loudly for unknown codes.
//
// # Identities and entries
//
// An [Identity] names a stream independent of URL formatting: a service plus a non-empty id.
// It is immutable and can only be built through [NewIdentity].
//
// An [Entry] is a user-editable row. It holds the raw URL, the inferred service, an optional
// display name, and the id derived from the URL. Changing the URL or service clears the id, so
// [Entry.IsValid] only reports true after a successful detection.
//
// [NamedIdentity] pairs an identity with an optional display name. It is what tokens carry.
//
// # Lookup responses
//
// [StreamerInfo] and [StreamerInfoResponse] are the JSON shapes returned by the streamer lookup service.
package models
