// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the two pages of the chat row client:
//  1. [state.Landing] : Paste stream URLs into the editor; names are looked up as each URL is recognized
//  2. [state.ChatList] : The horizontal chat row, reorderable and renamable, with its token in the footer
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the [tasks.Resolver], providing non-blocking status reporting
// while display names are resolved.
//
// Keyboard navigation uses vim-style bindings (h/l, H/L, r, o, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
