// Package services resolves a stream URL or keyword to the streamer behind it through the Twitch and
// YouTube APIs.
//
// # Finder Interface
//
// Each platform implements [Finder]. A finder only accepts queries it recognises and answers with a
// [models.StreamerInfoResponse]; an unidentified query yields the empty response.
//
// # Twitch
//
// [TwitchFinder] extracts the channel login from a twitch.tv URL and searches channels through the Helix
// API, authenticated with an app access token from the OAuth2 client credentials grant.
//
// # YouTube
//
// [YouTubeFinder] extracts the video id from a watch or live URL, reads the video's channel and returns the
// channel's title and default thumbnail through the YouTube Data API.
//
// # Lookup Chain
//
// [Finders] tries each finder in order and returns the first identified result. Blank queries short-circuit
// to the empty response. Results are kept in a size-capped [Cache] whose entries expire after a period
// without access, and upstream calls are paced by a rate limiter.
//
// # Error Handling
//
// Upstream failures never leave the chain: they are logged and the lookup degrades to "not identified".
// Finders themselves report failures wrapped in:
//   - [shared.ErrAPIRequest] : the upstream call failed or returned an error status
//   - [shared.ErrMissingCredentials] : the finder was created without credentials
package services
