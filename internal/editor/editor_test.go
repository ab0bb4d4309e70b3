package editor

import (
	"errors"
	"testing"

	"github.com/k7t3/horzcv/internal/detector"
	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
)

func newEditor() *Editor {
	e := New(nil)
	for _, d := range detector.Defaults() {
		e.RegisterDetector(d)
	}
	return e
}

func entryWith(service models.StreamingService, url string) *models.Entry {
	entry := models.NewEntry()
	entry.SetService(service)
	entry.SetURL(url)
	return entry
}

// acceptAll is a detector that claims every non-empty URL for its service.
type acceptAll struct{ service models.StreamingService }

func (a acceptAll) IsValidURL(url string) bool          { return url != "" }
func (a acceptAll) ParseID(url string) (string, error)  { return "any", nil }
func (a acceptAll) Construct(id string) (string, error) { return "any://" + id, nil }
func (a acceptAll) Placeholder() string                 { return "" }
func (a acceptAll) Service() models.StreamingService    { return a.service }

func TestRegisterDetector(t *testing.T) {
	t.Run("last registration wins", func(t *testing.T) {
		e := newEditor()
		e.RegisterDetector(acceptAll{service: models.YouTube})

		d, ok := e.Detector(models.YouTube)
		if !ok {
			t.Fatal("expected youtube detector")
		}
		if _, isAcceptAll := d.(acceptAll); !isAcceptAll {
			t.Errorf("expected replacement detector, got %T", d)
		}
	})

	t.Run("replacement keeps registration order", func(t *testing.T) {
		e := New(nil)
		e.RegisterDetector(acceptAll{service: models.Twitch})
		e.RegisterDetector(acceptAll{service: models.YouTube})
		e.RegisterDetector(acceptAll{service: models.Twitch})

		s, ok := e.FindSuitableService("anything")
		if !ok || s != models.Twitch {
			t.Errorf("expected first registered service Twitch, got %v (%v)", s, ok)
		}
	})
}

func TestAddRemove(t *testing.T) {
	t.Run("duplicates are allowed", func(t *testing.T) {
		e := newEditor()
		entry := models.NewEntry()
		if err := e.Add(entry); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := e.Add(entry); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Len() != 2 {
			t.Errorf("expected 2 entries, got %d", e.Len())
		}
	})

	t.Run("Add refuses beyond MaxForms", func(t *testing.T) {
		e := newEditor()
		for i := 0; i < MaxForms; i++ {
			if _, err := e.AddEmpty(); err != nil {
				t.Fatalf("unexpected error at %d: %v", i, err)
			}
		}
		if _, err := e.AddEmpty(); !errors.Is(err, shared.ErrTooManyEntries) {
			t.Errorf("expected ErrTooManyEntries, got %v", err)
		}
	})

	t.Run("Remove matches by reference", func(t *testing.T) {
		e := newEditor()
		a, _ := e.AddEmpty()
		b, _ := e.AddEmpty()

		if !e.Remove(a) {
			t.Fatal("expected a to be removed")
		}
		if e.Remove(a) {
			t.Error("expected second removal to report false")
		}
		if !e.Contains(b) || e.Contains(a) {
			t.Error("unexpected working set after removal")
		}
	})

	t.Run("Fill pads to MinForms", func(t *testing.T) {
		e := newEditor()
		e.AddEmpty()
		e.Fill()
		if e.Len() != MinForms {
			t.Errorf("expected %d entries, got %d", MinForms, e.Len())
		}
	})
}

func TestSetAll(t *testing.T) {
	t.Run("restores entries with canonical urls", func(t *testing.T) {
		e := newEditor()
		e.AddEmpty()
		e.SetAll([]models.NamedIdentity{
			models.Named(models.MustIdentity(models.Twitch, "abc"), "Name"),
			models.Named(models.MustIdentity(models.YouTube, "vid"), ""),
		})

		entries := e.Entries()
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].URL() != "https://www.twitch.tv/abc" || entries[0].DisplayName() != "Name" || !entries[0].IsValid() {
			t.Errorf("unexpected first entry %v", entries[0])
		}
		if entries[1].URL() != "https://www.youtube.com/watch?v=vid" || entries[1].ID() != "vid" {
			t.Errorf("unexpected second entry %v", entries[1])
		}
	})

	t.Run("drops identities without a detector", func(t *testing.T) {
		e := New(nil)
		e.RegisterDetector(detector.NewTwitch())
		e.RestoreFromIdentities([]models.Identity{
			models.MustIdentity(models.YouTube, "vid"),
			models.MustIdentity(models.Twitch, "abc"),
		})

		entries := e.Entries()
		if len(entries) != 1 || entries[0].Service() != models.Twitch {
			t.Errorf("expected only the twitch entry, got %v", entries)
		}
	})
}

func TestFindSuitableService(t *testing.T) {
	e := newEditor()

	tt := []struct {
		url  string
		want models.StreamingService
		ok   bool
	}{
		{"https://www.youtube.com/watch?v=abc", models.YouTube, true},
		{"https://www.twitch.tv/abc", models.Twitch, true},
		{"https://example.com", 0, false},
		{"", 0, false},
	}

	for _, tc := range tt {
		got, ok := e.FindSuitableService(tc.url)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("FindSuitableService(%q) = %v, %v; want %v, %v", tc.url, got, ok, tc.want, tc.ok)
		}
	}
}

func TestValidate(t *testing.T) {
	e := newEditor()

	if !e.Validate(entryWith(models.Twitch, "https://www.twitch.tv/abc")) {
		t.Error("expected twitch entry to validate")
	}
	if e.Validate(entryWith(models.YouTube, "https://www.twitch.tv/abc")) {
		t.Error("expected service mismatch to fail validation")
	}

	bare := New(nil)
	if bare.Validate(entryWith(models.Twitch, "https://www.twitch.tv/abc")) {
		t.Error("expected validation without detectors to fail")
	}
}

func TestDetect(t *testing.T) {
	e := newEditor()

	t.Run("infers service and records id", func(t *testing.T) {
		entry := models.NewEntry()
		entry.SetURL("https://www.twitch.tv/abc")
		if err := e.Detect(entry); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry.Service() != models.Twitch || entry.ID() != "abc" {
			t.Errorf("unexpected entry %v", entry)
		}
	})

	t.Run("invalid url leaves entry invalid", func(t *testing.T) {
		entry := models.RestoreEntry(models.MustIdentity(models.Twitch, "abc"), "https://www.twitch.tv/abc")
		entry.SetURL("garbage")
		if err := e.Detect(entry); !errors.Is(err, shared.ErrInvalidURL) {
			t.Errorf("expected ErrInvalidURL, got %v", err)
		}
		if entry.IsValid() {
			t.Error("expected entry to be invalid")
		}
	})
}

func TestActiveIdentities(t *testing.T) {
	e := newEditor()
	valid := entryWith(models.YouTube, "https://www.youtube.com/live/abc")
	valid.SetDisplayName("Live")
	e.Add(valid)
	e.Add(entryWith(models.YouTube, "not a url"))
	e.Add(entryWith(models.Twitch, "https://www.twitch.tv/chan"))

	got := e.ActiveIdentities()
	if len(got) != 2 {
		t.Fatalf("expected 2 active identities, got %d", len(got))
	}
	if got[0].ID() != "abc" || got[0].DisplayName != "Live" {
		t.Errorf("unexpected first identity %+v", got[0])
	}
	if got[1].Service() != models.Twitch || got[1].ID() != "chan" {
		t.Errorf("unexpected second identity %+v", got[1])
	}

	if valid.IsValid() {
		t.Error("expected ActiveIdentities to leave entries untouched")
	}

	active := e.ActiveEntries()
	if len(active) != 2 || active[0].Entry != valid {
		t.Errorf("expected active entries to reference the editor's entries, got %+v", active)
	}
}
