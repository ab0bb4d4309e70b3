package ui

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/k7t3/horzcv/internal/chat"
	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/services"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/state"
	"github.com/k7t3/horzcv/internal/tasks"
)

const (
	appName   = "Horz CV"
	chatWidth = 24
)

// Options configures a [Model].
type Options struct {
	Controller *state.Controller
	History    *state.History
	Lookup     services.Lookup        // Optional; names are not looked up while editing without it
	Resolver   *tasks.Resolver        // Optional; disables the resolve names action when nil
	Open       func(url string) error // Defaults to [shared.OpenBrowser]
	Logger     *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	ctrl     *state.Controller
	history  *state.History
	lookup   services.Lookup
	resolver *tasks.Resolver
	open     func(string) error
	logger   *log.Logger

	view   state.View
	width  int
	height int

	// Landing
	entries  []*models.Entry
	inputs   []textinput.Model
	focus    int
	detected map[*models.Entry]string

	// ChatList
	cursor      int
	renaming    bool
	renameInput textinput.Model

	resolving    bool
	progressChan chan tasks.ProgressUpdate
	resolveDone  chan resolveData
	progress     tasks.ProgressUpdate
	spinner      spinner.Model

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model and launches the controller on the history's current token.
func NewModel(ctx context.Context, opts Options) (*Model, error) {
	if opts.Controller == nil || opts.History == nil {
		return nil, fmt.Errorf("%w: controller and history are required", shared.ErrMissingArgument)
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	rename := textinput.New()
	rename.Prompt = "Rename: "
	rename.CharLimit = 64

	m := &Model{
		ctx:         ctx,
		ctrl:        opts.Controller,
		history:     opts.History,
		lookup:      opts.Lookup,
		resolver:    opts.Resolver,
		open:        opts.Open,
		logger:      opts.Logger,
		detected:    make(map[*models.Entry]string),
		renameInput: rename,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:        help.New(),
		keys:        newKeyMap(),
	}

	m.ctrl.OnViewChange(m.viewChanged)
	if err := m.ctrl.Launch(); err != nil {
		return nil, fmt.Errorf("failed to launch: %w", err)
	}
	return m, nil
}

// Init starts the cursor blink and sets the window title.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.SetWindowTitle(m.windowTitle()))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.resolving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.renaming {
			return m.handleRenameKeys(msg)
		}
		switch m.view {
		case state.Landing:
			return m.handleLandingKeys(msg)
		case state.ChatList:
			return m.handleChatListKeys(msg)
		}
	}

	return m.updateInputs(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case state.Landing:
		body = m.renderLanding()
	case state.ChatList:
		body = m.renderChatList()
	}

	var footer []string
	if m.err != nil {
		footer = append(footer, styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.status != "" {
		footer = append(footer, styles.ok.Render(m.status))
	}
	return strings.Join(append([]string{body}, footer...), "\n")
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgLookupDone:
		d := msg.data.(lookupData)
		if m.ctrl.ApplyLookup(d.entry, d.resp) {
			m.status = fmt.Sprintf("Found %s", d.entry.DisplayName())
		}
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgResolveComplete:
		d := msg.data.(resolveData)
		m.resolving = false
		m.progressChan = nil
		m.resolveDone = nil
		if d.err != nil {
			m.err = d.err
		}
		if d.result != nil {
			renamed := m.applyResolved(d.result)
			m.status = fmt.Sprintf("Resolved %d of %d stream(s), renamed %d", d.result.Resolved, d.result.Total, renamed)
		}
		return m, tea.SetWindowTitle(m.windowTitle())

	case MsgOpened:
		d := msg.data.(openData)
		if d.err != nil {
			m.err = fmt.Errorf("failed to open %s: %w", d.url, d.err)
		} else {
			m.status = "Opened " + d.url
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) viewChanged(v state.View) {
	m.view = v
	m.renaming = false
	m.err = nil
	switch v {
	case state.Landing:
		m.syncInputs()
	case state.ChatList:
		m.cursor = 0
	}
}

func (m *Model) handleLandingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch {
	case key.Matches(msg, m.keys.next):
		return m, m.setFocus(m.focus + 1)

	case key.Matches(msg, m.keys.prev):
		return m, m.setFocus(m.focus - 1)

	case key.Matches(msg, m.keys.add):
		if _, err := m.ctrl.Editor().AddEmpty(); err != nil {
			m.err = err
			return m, nil
		}
		m.syncInputs()
		return m, m.setFocus(len(m.inputs) - 1)

	case key.Matches(msg, m.keys.delete):
		if len(m.entries) == 0 {
			return m, nil
		}
		m.ctrl.Editor().Remove(m.entries[m.focus])
		m.ctrl.Editor().Fill()
		m.syncInputs()
		return m, nil

	case key.Matches(msg, m.keys.forward):
		if !m.history.Forward() {
			m.status = "Nothing to go forward to"
		}
		return m, tea.SetWindowTitle(m.windowTitle())

	case key.Matches(msg, m.keys.submit):
		ok, err := m.ctrl.Submit()
		if err != nil {
			m.err = err
			return m, nil
		}
		if !ok {
			m.status = "Enter at least one valid stream URL"
			return m, nil
		}
		m.status = ""
		return m, tea.SetWindowTitle(m.windowTitle())
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.inputs[m.focus].Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.editURL(m.focus))
}

func (m *Model) handleChatListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	reorder := m.ctrl.Reorder()
	handles := reorder.Handles()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.back):
		if !m.history.Back() {
			m.history.Push("", true)
		}
		return m, tea.SetWindowTitle(m.windowTitle())
	}

	if len(handles) == 0 {
		return m, nil
	}
	m.cursor = min(max(m.cursor, 0), len(handles)-1)
	h := handles[m.cursor]

	switch {
	case key.Matches(msg, m.keys.left):
		m.cursor = max(m.cursor-1, 0)

	case key.Matches(msg, m.keys.right):
		m.cursor = min(m.cursor+1, len(handles)-1)

	case key.Matches(msg, m.keys.moveLeft):
		m.err = reorder.MoveLeft(h)
		m.cursor = slices.Index(reorder.Handles(), h)

	case key.Matches(msg, m.keys.moveRight):
		m.err = reorder.MoveRight(h)
		m.cursor = slices.Index(reorder.Handles(), h)

	case key.Matches(msg, m.keys.remove):
		m.err = reorder.Remove(h)
		m.cursor = min(m.cursor, reorder.Len()-1)
		return m, tea.SetWindowTitle(m.windowTitle())

	case key.Matches(msg, m.keys.rename):
		frame, err := reorder.Frame(h)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.renaming = true
		m.renameInput.SetValue(frame.Entry.DisplayName())
		m.renameInput.CursorEnd()
		return m, m.renameInput.Focus()

	case key.Matches(msg, m.keys.open):
		frame, err := reorder.Frame(h)
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, m.openURL(frame.Entry.URL())

	case key.Matches(msg, m.keys.resolve):
		return m, m.startResolve()
	}
	return m, nil
}

func (m *Model) handleRenameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.confirm):
		m.renaming = false
		m.renameInput.Blur()
		handles := m.ctrl.Reorder().Handles()
		if m.cursor < 0 || m.cursor >= len(handles) {
			return m, nil
		}
		if err := m.ctrl.Rename(handles[m.cursor], strings.TrimSpace(m.renameInput.Value())); err != nil {
			m.err = err
			return m, nil
		}
		return m, tea.SetWindowTitle(m.windowTitle())

	case key.Matches(msg, m.keys.cancel):
		m.renaming = false
		m.renameInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.renaming {
		var cmd tea.Cmd
		m.renameInput, cmd = m.renameInput.Update(msg)
		return m, cmd
	}
	if m.view != state.Landing || len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// syncInputs rebuilds one input per editor entry.
func (m *Model) syncInputs() {
	m.entries = m.ctrl.Editor().Entries()
	m.inputs = make([]textinput.Model, len(m.entries))
	clear(m.detected)

	for i, entry := range m.entries {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 56
		ti.Placeholder = m.placeholder(entry)
		ti.SetValue(entry.URL())
		m.inputs[i] = ti
		if entry.IsValid() {
			m.detected[entry] = entry.ID()
		}
	}
	m.focus = min(max(m.focus, 0), max(len(m.inputs)-1, 0))
	if len(m.inputs) > 0 {
		m.inputs[m.focus].Focus()
	}
}

func (m *Model) setFocus(i int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	m.inputs[m.focus].Blur()
	m.focus = (i + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m *Model) placeholder(entry *models.Entry) string {
	if d, ok := m.ctrl.Editor().Detector(entry.Service()); ok {
		return d.Placeholder()
	}
	return "https://..."
}

// editURL applies the input's value to its entry and looks the stream up once per newly detected id.
func (m *Model) editURL(i int) tea.Cmd {
	entry := m.entries[i]
	if err := m.ctrl.EditURL(entry, m.inputs[i].Value()); err != nil {
		delete(m.detected, entry)
		return nil
	}
	if m.detected[entry] == entry.ID() {
		return nil
	}
	m.detected[entry] = entry.ID()
	m.inputs[i].Placeholder = m.placeholder(entry)
	return m.lookupCmd(entry)
}

func (m *Model) lookupCmd(entry *models.Entry) tea.Cmd {
	if m.lookup == nil {
		return nil
	}
	url := entry.URL()
	return func() tea.Msg {
		return lookupDoneMsg(entry, m.lookup.Lookup(m.ctx, url))
	}
}

func (m *Model) openURL(url string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg(url, m.open(url))
	}
}

func (m *Model) startResolve() tea.Cmd {
	if m.resolver == nil {
		m.status = "Name lookup is not configured"
		return nil
	}
	if m.resolving {
		return nil
	}

	var identities []models.NamedIdentity
	for _, f := range m.ctrl.Reorder().Frames() {
		if n, err := f.Identity(); err == nil {
			identities = append(identities, n)
		}
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan resolveData, 1)
	m.progressChan = progress
	m.resolveDone = done
	m.resolving = true
	m.status = ""

	go func() {
		result, err := m.resolver.Resolve(m.ctx, progress, identities)
		close(progress)
		done <- resolveData{result: result, err: err}
	}()

	return tea.Batch(m.waitForProgress(), m.spinner.Tick)
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.resolveDone
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			d := <-done
			return resolveCompleteMsg(d.result, d.err)
		}
		return progressUpdateMsg(update)
	}
}

// applyResolved renames chats that still show no name or their bare id.
func (m *Model) applyResolved(result *tasks.ResolveResult) int {
	found := make(map[models.Identity]string)
	for _, r := range result.Results {
		if r.Info != nil && r.Info.Name != "" {
			found[r.Identity.Identity] = r.Info.Name
		}
	}

	renamed := 0
	reorder := m.ctrl.Reorder()
	for _, h := range reorder.Handles() {
		frame, err := reorder.Frame(h)
		if err != nil {
			continue
		}
		n, err := frame.Identity()
		if err != nil {
			continue
		}
		name, ok := found[n.Identity]
		current := frame.Entry.DisplayName()
		if !ok || (current != "" && current != frame.Entry.ID()) {
			continue
		}
		if err := m.ctrl.Rename(h, name); err != nil {
			m.logger.Warn("failed to apply resolved name", "identity", n.Identity, "error", err)
			continue
		}
		renamed++
	}
	return renamed
}

func (m *Model) windowTitle() string {
	if t := m.ctrl.Title(); t != "" {
		return t + " - " + appName
	}
	return appName
}

func (m *Model) renderLanding() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(appName))
	b.WriteString("\n")

	for i, entry := range m.entries {
		marker := "  "
		if i == m.focus {
			marker = styles.ok.Render("› ")
		}
		label := styles.label.Render(fmt.Sprintf("%-8s", "-"))
		if entry.IsValid() {
			label = styles.ok.Render(fmt.Sprintf("%-8s", entry.Service().Label()))
		}
		fmt.Fprintf(&b, "%s%s %s  %s\n", marker, label, m.inputs[i].View(), styles.help.Render(entry.DisplayName()))
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.landingHelp()))
	return b.String()
}

func (m *Model) renderChatList() string {
	reorder := m.ctrl.Reorder()
	title := m.ctrl.Title()
	if title == "" {
		title = "Chats"
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	handles := reorder.Handles()
	if len(handles) == 0 {
		b.WriteString(styles.warn.Render("No chats. Press esc to edit streams."))
		b.WriteString("\n")
	} else {
		boxes := make([]string, 0, len(handles))
		for i, h := range handles {
			boxes = append(boxes, m.renderChat(reorder, h, i == m.cursor))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
		b.WriteString("\n")
	}

	if m.renaming {
		b.WriteString(m.renameInput.View())
		b.WriteString("\n")
	}
	if m.resolving {
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), m.progress.Message)
	}

	b.WriteString(styles.label.Render("token: " + m.ctrl.Token()))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderChat(reorder *chat.Reorder, h chat.Handle, selected bool) string {
	frame, err := reorder.Frame(h)
	if err != nil {
		return ""
	}
	buttons, _ := reorder.Buttons(h)

	left, right := "◀", "▶"
	if buttons.DisableLeft {
		left = " "
	}
	if buttons.DisableRight {
		right = " "
	}

	name := frame.Entry.DisplayName()
	if name == "" {
		name = frame.Entry.ID()
	}
	content := strings.Join([]string{
		styles.label.Render(frame.Entry.Service().Label()),
		lipgloss.NewStyle().Bold(true).Render(name),
		styles.help.Render(frame.Entry.ID()),
		fmt.Sprintf("%s%s%s", left, strings.Repeat(" ", chatWidth-4), right),
	}, "\n")

	if selected {
		return styles.selected.Render(content)
	}
	return styles.chat.Render(content)
}
