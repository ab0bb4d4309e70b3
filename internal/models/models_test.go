package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/k7t3/horzcv/internal/shared"
)

func TestStreamingService(t *testing.T) {
	t.Run("codes and labels", func(t *testing.T) {
		tt := []struct {
			service StreamingService
			code    string
			label   string
		}{
			{YouTube, "y", "Youtube"},
			{Twitch, "t", "Twitch"},
		}

		for _, tc := range tt {
			if tc.service.Code() != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.service.Code())
			}
			if tc.service.Label() != tc.label {
				t.Errorf("expected label %s, got %s", tc.label, tc.service.Label())
			}
		}
	})

	t.Run("ServiceByCode", func(t *testing.T) {
		s, err := ServiceByCode("t")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s != Twitch {
			t.Errorf("expected Twitch, got %v", s)
		}

		if _, err := ServiceByCode("x"); !errors.Is(err, shared.ErrUnknownServiceCode) {
			t.Errorf("expected ErrUnknownServiceCode, got %v", err)
		}
		if _, err := ServiceByCode(""); !errors.Is(err, shared.ErrUnknownServiceCode) {
			t.Errorf("expected ErrUnknownServiceCode for empty code, got %v", err)
		}
	})

	t.Run("text marshaling uses the code", func(t *testing.T) {
		data, err := json.Marshal(map[string]StreamingService{"s": Twitch})
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		if string(data) != `{"s":"t"}` {
			t.Errorf("expected {\"s\":\"t\"}, got %s", data)
		}

		var out map[string]StreamingService
		if err := json.Unmarshal([]byte(`{"s":"y"}`), &out); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}
		if out["s"] != YouTube {
			t.Errorf("expected YouTube, got %v", out["s"])
		}

		if _, err := StreamingService(9).MarshalText(); !errors.Is(err, shared.ErrUnknownService) {
			t.Errorf("expected ErrUnknownService, got %v", err)
		}
	})
}

func TestIdentity(t *testing.T) {
	t.Run("valid identity", func(t *testing.T) {
		i, err := NewIdentity(Twitch, "channel")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if i.Service() != Twitch || i.ID() != "channel" {
			t.Errorf("unexpected identity %v", i)
		}
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		for _, id := range []string{"", "   "} {
			if _, err := NewIdentity(YouTube, id); !errors.Is(err, shared.ErrEmptyIdentifier) {
				t.Errorf("expected ErrEmptyIdentifier for %q, got %v", id, err)
			}
		}
	})

	t.Run("unknown service is rejected", func(t *testing.T) {
		if _, err := NewIdentity(StreamingService(42), "id"); !errors.Is(err, shared.ErrUnknownService) {
			t.Errorf("expected ErrUnknownService, got %v", err)
		}
	})

	t.Run("identities compare by value", func(t *testing.T) {
		if MustIdentity(YouTube, "a") != MustIdentity(YouTube, "a") {
			t.Error("expected equal identities")
		}
		if MustIdentity(YouTube, "a") == MustIdentity(Twitch, "a") {
			t.Error("expected identities with different services to differ")
		}
	})
}

func TestEntry(t *testing.T) {
	t.Run("NewEntry defaults", func(t *testing.T) {
		e := NewEntry()
		if e.Service() != YouTube {
			t.Errorf("expected default service YouTube, got %v", e.Service())
		}
		if e.URL() != "" || e.IsValid() {
			t.Errorf("expected empty invalid entry, got %v", e)
		}
	})

	t.Run("SetURL clears the id", func(t *testing.T) {
		e := RestoreEntry(MustIdentity(Twitch, "abc"), "https://www.twitch.tv/abc")
		if !e.IsValid() {
			t.Fatal("expected restored entry to be valid")
		}
		e.SetURL("https://www.twitch.tv/other")
		if e.IsValid() {
			t.Error("expected entry to be invalid after url change")
		}
	})

	t.Run("SetService clears the id only on change", func(t *testing.T) {
		e := RestoreEntry(MustIdentity(Twitch, "abc"), "https://www.twitch.tv/abc")
		e.SetService(Twitch)
		if !e.IsValid() {
			t.Error("expected same service to keep the id")
		}
		e.SetService(YouTube)
		if e.IsValid() {
			t.Error("expected service change to clear the id")
		}
	})

	t.Run("AsIdentity", func(t *testing.T) {
		if _, err := NewEntry().AsIdentity(); !errors.Is(err, shared.ErrEmptyIdentifier) {
			t.Errorf("expected ErrEmptyIdentifier, got %v", err)
		}

		e := RestoreEntry(MustIdentity(YouTube, "vid"), "https://www.youtube.com/watch?v=vid")
		e.SetDisplayName("Stream")
		named, err := e.Named()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if named.ID() != "vid" || named.DisplayName != "Stream" {
			t.Errorf("unexpected named identity %+v", named)
		}
	})
}

func TestStreamerInfoResponse(t *testing.T) {
	t.Run("empty response", func(t *testing.T) {
		r := EmptyStreamerInfoResponse()
		if !r.IsEmpty() {
			t.Error("expected empty response")
		}
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		if string(data) != `{"identified":false,"candidates":[]}` {
			t.Errorf("unexpected json %s", data)
		}
		if _, ok := r.First(); ok {
			t.Error("expected no first candidate")
		}
	})

	t.Run("identified response", func(t *testing.T) {
		r := NewStreamerInfoResponse(StreamerInfo{Name: "Name", ThumbnailURL: "thumb", StreamURL: "url"})
		if r.IsEmpty() {
			t.Error("expected identified response")
		}
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		want := `{"identified":true,"candidates":[{"name":"Name","thumbnailUrl":"thumb","streamUrl":"url"}]}`
		if string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
	})

	t.Run("no infos yields empty response", func(t *testing.T) {
		if !NewStreamerInfoResponse().IsEmpty() {
			t.Error("expected empty response")
		}
	})
}
