package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/services"
	"github.com/k7t3/horzcv/internal/shared"
)

// StreamerPath is the route of [StreamerHandler].
const StreamerPath = "/horzcv/api/streamer"

const maxRequestBody = 4 << 10

// StreamerRequest is the POST body accepted by [StreamerHandler].
type StreamerRequest struct {
	URL string `json:"url"`
}

// StreamerHandler answers streamer lookups as JSON.
type StreamerHandler struct {
	lookup services.Lookup
	logger *log.Logger
}

// NewStreamerHandler creates a handler backed by lookup.
func NewStreamerHandler(lookup services.Lookup, logger *log.Logger) *StreamerHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &StreamerHandler{lookup: lookup, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *StreamerHandler) Routes() []string {
	return []string{StreamerPath}
}

// ServeHTTP reads the query from ?q= (GET) or the JSON body (POST) and writes the lookup response.
func (h *StreamerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var query string
	switch r.Method {
	case http.MethodGet:
		query = r.URL.Query().Get("q")
	case http.MethodPost:
		var req StreamerRequest
		dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			h.logger.Debug("rejecting lookup body", "error", err)
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		query = req.URL
	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := h.lookup.Lookup(r.Context(), strings.TrimSpace(query))
	writeJSON(w, http.StatusOK, resp)
}

// HealthHandler reports liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error":    msg,
		"response": models.EmptyStreamerInfoResponse(),
	})
}
