// Package web serves the rendered chat row page.
//
// # Routes
//
//	GET /horzcv/?t=<token> → standalone page with one chat frame per decoded identity
//
// The token uses the same format as the terminal client so a row shared from the TUI opens in a browser as-is.
// Undecodable token segments are dropped and logged, the same way the client restores a row.
package web

import (
	"bytes"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/k7t3/horzcv/internal/formatter"
	"github.com/k7t3/horzcv/internal/platform"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/token"
)

// TokenParam is the query parameter carrying the token.
const TokenParam = "t"

// PageHandler renders the chat row page for a token.
type PageHandler struct {
	registry *platform.Registry
	prefix   string
	logger   *log.Logger
}

// NewPageHandler creates a page handler mounted at prefix (e.g. "/horzcv/").
func NewPageHandler(registry *platform.Registry, prefix string, logger *log.Logger) *PageHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if prefix == "" {
		prefix = "/"
	}
	return &PageHandler{registry: registry, prefix: prefix, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *PageHandler) Routes() []string {
	return []string{h.prefix}
}

// ServeHTTP renders the page for the t query parameter.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != h.prefix {
		http.NotFound(w, r)
		return
	}

	identities, errs := token.DecodeManyReport(r.URL.Query().Get(TokenParam))
	for _, err := range errs {
		h.logger.Warn("dropping token entry", "error", err)
	}

	row, errs := formatter.NewRow(h.registry, identities)
	for _, err := range errs {
		h.logger.Warn("skipping chat", "error", err)
	}

	var buf bytes.Buffer
	if err := formatter.WriteHTML(&buf, row); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = buf.WriteTo(w)
	}
}
