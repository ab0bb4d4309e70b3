// Package state implements the two-page state machine: the Landing editor and the ChatList row.
//
// The [Controller] reacts to navigation tokens, restores entries and display names from storage, and keeps
// the session token and history in step with every change to the chat row.
package state

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/k7t3/horzcv/internal/chat"
	"github.com/k7t3/horzcv/internal/editor"
	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/platform"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/store"
	"github.com/k7t3/horzcv/internal/token"
)

// View is the page currently shown.
type View int

const (
	Landing View = iota
	ChatList
)

func (v View) String() string {
	switch v {
	case Landing:
		return "landing"
	case ChatList:
		return "chat list"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

const (
	// DisplayNameNamespace is the local storage namespace for display names.
	DisplayNameNamespace = "horzcv.displayname"
	// TokenNamespace is the session storage namespace for the last submitted token.
	TokenNamespace = "horzcv.token"
	// TokenKey is the key of the last submitted token within [TokenNamespace].
	TokenKey = "value"
)

// Options configures a [Controller].
type Options struct {
	Registry  *platform.Registry
	Navigator Navigator
	// Local backs the display-name store.
	Local store.WebStorage
	// Session backs the last submitted token.
	Session          store.WebStorage
	DisplayNameLimit int
	Logger           *log.Logger
}

// Controller mediates between the editor, the chat row, storage and navigation.
type Controller struct {
	editor  *editor.Editor
	list    *chat.List
	reorder *chat.Reorder
	nav     Navigator
	names   *store.DataStore
	tokens  *store.DataStore
	logger  *log.Logger

	view      View
	syncing   bool
	listeners []func(View)
}

// New wires a controller and loads the display-name catalog.
func New(opts Options) (*Controller, error) {
	if opts.Registry == nil || opts.Navigator == nil || opts.Local == nil || opts.Session == nil {
		return nil, fmt.Errorf("%w: registry, navigator and storages are required", shared.ErrMissingArgument)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Controller{
		editor:  opts.Registry.NewEditor(editor.New(logger)),
		list:    opts.Registry.NewList(chat.NewList(logger)),
		reorder: chat.NewReorder(),
		nav:     opts.Navigator,
		names:   store.NewDataStore(opts.Local, DisplayNameNamespace, opts.DisplayNameLimit),
		tokens:  store.NewDataStore(opts.Session, TokenNamespace, 1),
		logger:  logger,
	}

	if err := c.names.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize display names: %w", err)
	}

	c.reorder.OnChange(c.rowChanged)
	c.nav.Listen(func(tok string) {
		c.logger.Info("history token changed", "token", tok)
		if err := c.HandleToken(tok); err != nil {
			c.logger.Error("failed to handle token", "token", tok, "error", err)
		}
	})

	return c, nil
}

func (c *Controller) Editor() *editor.Editor     { return c.editor }
func (c *Controller) Reorder() *chat.Reorder     { return c.reorder }
func (c *Controller) View() View                 { return c.view }
func (c *Controller) Names() *store.DataStore    { return c.names }
func (c *Controller) Navigator() Navigator       { return c.nav }
func (c *Controller) OnViewChange(fn func(View)) { c.listeners = append(c.listeners, fn) }

// Launch handles the navigator's current token.
func (c *Controller) Launch() error {
	c.logger.Info("launching", "token", c.nav.Current())
	return c.HandleToken(c.nav.Current())
}

// HandleToken shows the chat row for tok, or the Landing page when tok is blank or holds no identities.
func (c *Controller) HandleToken(tok string) error {
	if strings.TrimSpace(tok) == "" {
		return c.showLanding()
	}

	identities, errs := token.DecodeManyReport(tok)
	for _, err := range errs {
		c.logger.Warn("dropping token entry", "error", err)
	}
	if len(identities) == 0 {
		return c.showLanding()
	}

	c.editor.SetAll(identities)
	c.restoreNames()
	return c.showChatList()
}

// Submit turns the editor's valid entries into a token and shows the chat row.
//
// It reports false and stays on Landing when no entry is valid.
func (c *Controller) Submit() (bool, error) {
	active := c.editor.ActiveIdentities()
	if len(active) == 0 {
		return false, nil
	}

	for _, n := range active {
		if err := c.rememberName(n); err != nil {
			return false, err
		}
	}
	if err := c.names.Flush(); err != nil {
		return false, err
	}

	tok := token.EncodeMany(active)
	if err := c.tokens.Store(TokenKey, tok); err != nil {
		return false, err
	}
	c.nav.Push(tok, false)
	c.logger.Info("token submitted and stored", "token", tok)

	return true, c.showChatList()
}

// EditURL sets entry's URL and detects its service and id.
//
// A newly detected entry gets its remembered display name, or its id when none is stored. An entry whose
// service and id are unchanged keeps its current name. An undetected entry loses its display name.
func (c *Controller) EditURL(entry *models.Entry, url string) error {
	prevService, prevID, prevName := entry.Service(), entry.ID(), entry.DisplayName()

	entry.SetURL(url)
	if err := c.editor.Detect(entry); err != nil {
		entry.SetDisplayName("")
		return err
	}

	identity, err := entry.AsIdentity()
	if err != nil {
		return err
	}
	if prevID != "" && prevName != "" && prevID == identity.ID() && prevService == identity.Service() {
		return nil
	}
	if name, ok := c.loadName(identity); ok {
		entry.SetDisplayName(name)
	} else {
		entry.SetDisplayName(entry.ID())
	}
	return nil
}

// ApplyLookup sets entry's display name from a lookup result.
//
// Results for entries no longer in the editor, and unidentified results, are ignored.
func (c *Controller) ApplyLookup(entry *models.Entry, resp models.StreamerInfoResponse) bool {
	if !c.editor.Contains(entry) {
		c.logger.Debug("ignoring stale lookup result", "entry", entry)
		return false
	}
	info, ok := resp.First()
	if !ok || info.Name == "" {
		return false
	}
	entry.SetDisplayName(info.Name)
	return true
}

// Rename changes the display name of a chat and remembers it.
func (c *Controller) Rename(h chat.Handle, name string) error {
	frame, err := c.reorder.Frame(h)
	if err != nil {
		return err
	}
	identity, err := frame.Entry.AsIdentity()
	if err != nil {
		return err
	}
	if err := c.reorder.Rename(h, name); err != nil {
		return err
	}
	if err := c.rememberName(models.Named(identity, name)); err != nil {
		return err
	}
	return c.names.Flush()
}

// Token encodes the chat row in display order.
func (c *Controller) Token() string {
	return encodeFrames(c.reorder.Frames())
}

// Title is the window title for the current page.
func (c *Controller) Title() string {
	if c.view != ChatList {
		return ""
	}
	return chat.Title(c.reorder.Frames())
}

func (c *Controller) showLanding() error {
	var identities []models.NamedIdentity
	tok, ok, err := c.tokens.Load(TokenKey)
	if err != nil {
		c.logger.Warn("failed to load session token", "error", err)
	} else if ok {
		identities = token.DecodeMany(tok)
	}
	c.logger.Info("loaded live streams", "count", len(identities))

	c.editor.SetAll(identities)
	c.restoreNames()
	c.editor.Fill()

	c.setView(Landing)
	c.logger.Info("landing page shown")
	return nil
}

func (c *Controller) showChatList() error {
	active := c.editor.ActiveEntries()
	entries := make([]*models.Entry, len(active))
	for i, a := range active {
		entry := models.RestoreEntry(a.Identity.Identity, a.Entry.URL())
		entry.SetDisplayName(a.Identity.DisplayName)
		entries[i] = entry
	}

	c.list.SetAll(entries)

	c.syncing = true
	c.reorder.Set(c.list.Frames())
	c.syncing = false

	c.setView(ChatList)
	c.logger.Info("chat list page shown", "frames", c.reorder.Len())
	return nil
}

func (c *Controller) setView(v View) {
	c.view = v
	for _, fn := range c.listeners {
		fn(v)
	}
}

// rowChanged keeps the session token and the history entry in step with the chat row.
func (c *Controller) rowChanged(frames []*chat.Frame) {
	if c.syncing || c.view != ChatList {
		return
	}
	tok := encodeFrames(frames)
	if err := c.tokens.Store(TokenKey, tok); err != nil {
		c.logger.Warn("failed to store token", "error", err)
	}
	c.nav.Replace(tok, false)
}

func encodeFrames(frames []*chat.Frame) string {
	list := make([]models.NamedIdentity, 0, len(frames))
	for _, f := range frames {
		n, err := f.Identity()
		if err != nil {
			continue
		}
		list = append(list, n)
	}
	return token.EncodeMany(list)
}

// restoreNames fills blank display names of valid entries from the store.
func (c *Controller) restoreNames() {
	for _, entry := range c.editor.Entries() {
		if !entry.IsValid() || entry.DisplayName() != "" {
			continue
		}
		identity, err := entry.AsIdentity()
		if err != nil {
			continue
		}
		if name, ok := c.loadName(identity); ok {
			entry.SetDisplayName(name)
		}
	}
}

func (c *Controller) loadName(identity models.Identity) (string, bool) {
	name, ok, err := c.names.Load(token.Key(identity))
	if err != nil {
		c.logger.Warn("failed to load display name", "identity", identity, "error", err)
		return "", false
	}
	return name, ok && name != ""
}

func (c *Controller) rememberName(n models.NamedIdentity) error {
	key := token.Key(n.Identity)
	if strings.TrimSpace(n.DisplayName) == "" {
		return c.names.Remove(key)
	}
	return c.names.Store(key, n.DisplayName)
}
