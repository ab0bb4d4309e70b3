package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/k7t3/horzcv/internal/shared"
)

func newTwitchServer(t *testing.T, searchStatus int, body string) (*httptest.Server, *int) {
	t.Helper()
	searches := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"app-token","token_type":"bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/helix/search/channels", func(w http.ResponseWriter, r *http.Request) {
		searches++
		if got := r.Header.Get("Authorization"); got != "Bearer app-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if got := r.Header.Get("Client-Id"); got != "client" {
			t.Errorf("unexpected client id header %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "streamer" {
			t.Errorf("unexpected query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(searchStatus)
		fmt.Fprint(w, body)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &searches
}

func newTwitchFinder(t *testing.T, srv *httptest.Server) *TwitchFinder {
	t.Helper()
	f, err := NewTwitchFinder(context.Background(), TwitchOpts{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/oauth2/token",
		APIBaseURL:   srv.URL + "/helix",
		HTTPClient:   srv.Client(),
	})
	if err != nil {
		t.Fatalf("failed to create finder: %v", err)
	}
	return f
}

const twitchChannels = `{"data":[
	{"broadcaster_login":"streamer2","display_name":"Streamer Two","thumbnail_url":"https://img/2.png"},
	{"broadcaster_login":"Streamer","display_name":"The Streamer","thumbnail_url":"https://img/1.png"}
]}`

func TestTwitchFinder(t *testing.T) {
	t.Run("Accepts", func(t *testing.T) {
		f := &TwitchFinder{}
		tests := []struct {
			query    string
			expected bool
		}{
			{"https://www.twitch.tv/streamer", true},
			{"http://twitch.tv/streamer", true},
			{"https://www.twitch.tv/streamer/videos", false},
			{"https://www.youtube.com/watch?v=abc", false},
			{"streamer", false},
		}
		for _, tt := range tests {
			if got := f.Accepts(tt.query); got != tt.expected {
				t.Errorf("Accepts(%q): expected %v, got %v", tt.query, tt.expected, got)
			}
		}
	})

	t.Run("Find picks the exact login", func(t *testing.T) {
		srv, searches := newTwitchServer(t, http.StatusOK, twitchChannels)
		f := newTwitchFinder(t, srv)

		resp, err := f.Find(context.Background(), "https://www.twitch.tv/streamer")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, ok := resp.First()
		if !ok || !resp.Identified {
			t.Fatalf("expected identified response, got %+v", resp)
		}
		if got.Name != "The Streamer" || got.ThumbnailURL != "https://img/1.png" || got.StreamURL != "https://www.twitch.tv/streamer" {
			t.Errorf("unexpected info %+v", got)
		}
		if *searches != 1 {
			t.Errorf("expected 1 search, got %d", *searches)
		}
	})

	t.Run("Find without a match is empty", func(t *testing.T) {
		srv, _ := newTwitchServer(t, http.StatusOK, `{"data":[{"broadcaster_login":"other","display_name":"Other"}]}`)
		f := newTwitchFinder(t, srv)

		resp, err := f.Find(context.Background(), "https://www.twitch.tv/streamer")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resp.IsEmpty() {
			t.Errorf("expected empty response, got %+v", resp)
		}
	})

	t.Run("Find reports API errors", func(t *testing.T) {
		srv, _ := newTwitchServer(t, http.StatusUnauthorized, `{"error":"Unauthorized","status":401,"message":"Invalid OAuth token"}`)
		f := newTwitchFinder(t, srv)

		_, err := f.Find(context.Background(), "https://www.twitch.tv/streamer")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Find ignores other URLs", func(t *testing.T) {
		srv, searches := newTwitchServer(t, http.StatusOK, twitchChannels)
		f := newTwitchFinder(t, srv)

		resp, err := f.Find(context.Background(), "https://example.com/streamer")
		if err != nil || !resp.IsEmpty() {
			t.Errorf("expected empty response, got %+v %v", resp, err)
		}
		if *searches != 0 {
			t.Errorf("expected no search, got %d", *searches)
		}
	})
}
