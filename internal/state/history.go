package state

// Navigator is the navigation history the controller reads and writes tokens through.
type Navigator interface {
	Current() string
	// Push adds token as a new history entry. Listeners run only when fire is set.
	Push(token string, fire bool)
	// Replace overwrites the current entry. Listeners run only when fire is set.
	Replace(token string, fire bool)
	Listen(fn func(token string))
}

// History is an in-memory [Navigator] with back and forward.
type History struct {
	entries   []string
	pos       int
	listeners []func(string)
}

// NewHistory creates a history whose current entry is initial.
func NewHistory(initial string) *History {
	return &History{entries: []string{initial}}
}

func (h *History) Current() string { return h.entries[h.pos] }

func (h *History) Push(token string, fire bool) {
	h.entries = append(h.entries[:h.pos+1], token)
	h.pos++
	if fire {
		h.fire()
	}
}

func (h *History) Replace(token string, fire bool) {
	h.entries[h.pos] = token
	if fire {
		h.fire()
	}
}

func (h *History) Listen(fn func(string)) {
	h.listeners = append(h.listeners, fn)
}

// Back moves to the previous entry and notifies listeners. It reports false at the start.
func (h *History) Back() bool {
	if h.pos == 0 {
		return false
	}
	h.pos--
	h.fire()
	return true
}

// Forward moves to the next entry and notifies listeners. It reports false at the end.
func (h *History) Forward() bool {
	if h.pos == len(h.entries)-1 {
		return false
	}
	h.pos++
	h.fire()
	return true
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

func (h *History) fire() {
	token := h.Current()
	for _, fn := range h.listeners {
		fn(token)
	}
}
