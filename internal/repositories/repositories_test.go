package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/store"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestStorageRepository(t *testing.T) {
	t.Run("Set and Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		if err := repo.Set(LocalScope, "key", "value"); err != nil {
			t.Fatalf("failed to set item: %v", err)
		}

		value, ok, err := repo.Get(LocalScope, "key")
		if err != nil {
			t.Fatalf("failed to get item: %v", err)
		}
		if !ok || value != "value" {
			t.Errorf("expected value, got %q (%v)", value, ok)
		}
	})

	t.Run("Set overwrites", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		_ = repo.Set(LocalScope, "key", "first")
		_ = repo.Set(LocalScope, "key", "second")

		value, _, _ := repo.Get(LocalScope, "key")
		if value != "second" {
			t.Errorf("expected second, got %q", value)
		}
		if n, _ := repo.Count(LocalScope); n != 1 {
			t.Errorf("expected 1 item, got %d", n)
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, ok, err := NewStorageRepository(db).Get(LocalScope, "missing")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok {
			t.Error("expected missing item")
		}
	})

	t.Run("scopes are isolated", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		_ = repo.Set(LocalScope, "key", "local")
		_ = repo.Set(SessionScope("a"), "key", "session")

		removed, err := repo.DeleteScope(SessionScope("a"))
		if err != nil {
			t.Fatalf("failed to clear scope: %v", err)
		}
		if removed != 1 {
			t.Errorf("expected 1 removed, got %d", removed)
		}
		if value, _, _ := repo.Get(LocalScope, "key"); value != "local" {
			t.Errorf("expected local value to survive, got %q", value)
		}
	})

	t.Run("Keys are sorted", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		for _, k := range []string{"c", "a", "b"} {
			_ = repo.Set(LocalScope, k, k)
		}

		keys, err := repo.Keys(LocalScope)
		if err != nil {
			t.Fatalf("failed to list keys: %v", err)
		}
		if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
			t.Errorf("unexpected keys %v", keys)
		}
	})
}

func TestScopedStorage(t *testing.T) {
	t.Run("backs a DataStore", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		storage := NewStorageRepository(db).Scope(LocalScope)
		d := store.NewDataStore(storage, "horzcv.displayname", 0)
		if err := d.Store("t,streamer", "Streamer"); err != nil {
			t.Fatalf("failed to store: %v", err)
		}
		if err := d.Flush(); err != nil {
			t.Fatalf("failed to flush: %v", err)
		}

		reloaded := store.NewDataStore(NewStorageRepository(db).Scope(LocalScope), "horzcv.displayname", 0)
		if err := reloaded.Initialize(); err != nil {
			t.Fatalf("failed to initialize: %v", err)
		}
		if reloaded.Size() != 1 {
			t.Errorf("expected 1 entry, got %d", reloaded.Size())
		}
		if v, _, _ := reloaded.Load("t,streamer"); v != "Streamer" {
			t.Errorf("expected Streamer, got %q", v)
		}
	})

	t.Run("Remove and Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		local := repo.Scope(LocalScope)
		session := repo.Scope(SessionScope("default"))

		_ = local.Set("a", "1")
		_ = local.Set("b", "2")
		_ = session.Set("value", "token")

		if err := local.Remove("a"); err != nil {
			t.Fatalf("failed to remove: %v", err)
		}
		if err := local.Remove("a"); err != nil {
			t.Errorf("expected removing a missing key to succeed, got %v", err)
		}
		if err := local.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}

		keys, _ := local.Keys()
		if len(keys) != 0 {
			t.Errorf("expected empty scope, got %v", keys)
		}
		if v, ok, _ := session.Get("value"); !ok || v != "token" {
			t.Errorf("expected session value to survive, got %q", v)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	t.Run("Touch creates and updates", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if err := repo.Touch("default"); err != nil {
			t.Fatalf("failed to touch: %v", err)
		}
		first, err := repo.Get("default")
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}

		if err := repo.Touch("default"); err != nil {
			t.Fatalf("failed to touch: %v", err)
		}
		second, _ := repo.Get("default")

		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Error("expected created_at to be kept")
		}
		if second.LastSeenAt.Before(first.LastSeenAt) {
			t.Error("expected last_seen_at to move forward")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		_ = repo.Touch("a")
		_ = repo.Touch("b")

		sessions, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(sessions) != 2 {
			t.Errorf("expected 2 sessions, got %d", len(sessions))
		}
	})

	t.Run("Purge removes stale sessions and their items", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		sessions := NewSessionRepository(db)
		items := NewStorageRepository(db)
		_ = sessions.Touch("old")
		_ = items.Set(SessionScope("old"), "value", "token")
		_ = items.Set(LocalScope, "kept", "yes")

		purged, err := sessions.Purge(time.Now().Add(time.Hour))
		if err != nil {
			t.Fatalf("failed to purge: %v", err)
		}
		if len(purged) != 1 || purged[0] != "old" {
			t.Errorf("unexpected purged sessions %v", purged)
		}
		if n, _ := items.Count(SessionScope("old")); n != 0 {
			t.Errorf("expected session items to be removed, got %d", n)
		}
		if n, _ := items.Count(LocalScope); n != 1 {
			t.Errorf("expected local items to survive, got %d", n)
		}
	})

	t.Run("Purge keeps recent sessions", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		_ = repo.Touch("recent")

		purged, err := repo.Purge(time.Now().Add(-time.Hour))
		if err != nil {
			t.Fatalf("failed to purge: %v", err)
		}
		if len(purged) != 0 {
			t.Errorf("expected nothing purged, got %v", purged)
		}
	})
}
