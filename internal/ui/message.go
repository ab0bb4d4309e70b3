package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgLookupDone MsgKind = iota
	MsgProgressUpdate
	MsgResolveComplete
	MsgOpened
)

type lookupData struct {
	entry *models.Entry
	resp  models.StreamerInfoResponse
}

type openData struct {
	url string
	err error
}

type resolveData struct {
	result *tasks.ResolveResult
	err    error
}

// lookupDoneMsg is the constructor for [MsgLookupDone]
func lookupDoneMsg(entry *models.Entry, resp models.StreamerInfoResponse) Msg {
	return Msg{kind: MsgLookupDone, data: lookupData{entry, resp}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// resolveCompleteMsg is the constructor for [MsgResolveComplete]
func resolveCompleteMsg(result *tasks.ResolveResult, err error) Msg {
	return Msg{kind: MsgResolveComplete, data: resolveData{result, err}}
}

// openedMsg is the constructor for [MsgOpened]
func openedMsg(url string, err error) Msg {
	return Msg{kind: MsgOpened, data: openData{url, err}}
}
