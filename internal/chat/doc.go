// Package chat builds embeddable chat frames and keeps them in a reorderable row.
//
// # Builders
//
// A [Builder] renders the embed fragment for one service from a stream id. [YouTubeBuilder] and
// [TwitchBuilder] produce iframes for the respective live chat popouts; both take the embedding host and
// a dark-mode flag. Output goes through html/template, so ids and hosts are escaped.
//
// # List
//
// [List] turns validated entries into [Frame] values using the registered builders, skipping entries
// whose service has no builder. A frame points at its entry, so display-name edits made through the
// reorder controller are visible to whoever holds the list and vice versa.
//
// # Reorder
//
// [Reorder] holds the displayed frames as a doubly linked sequence. Nodes live in an arena addressed by
// [Handle]; left and right links are handles, never pointers, and frame data is kept in a separate map
// under the same handle. Swapping neighbours relinks four handles. Removal relinks the two neighbours and
// advances the first handle when needed. After every operation exactly one node has no left neighbour and
// exactly one has no right neighbour; [Reorder.Check] verifies this.
//
// Every mutation notifies [Reorder.OnChange] listeners with the current order.
package chat
