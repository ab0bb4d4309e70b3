package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/store"
)

// StorageRepository persists key/value items partitioned by scope.
type StorageRepository struct {
	db *sql.DB
}

// NewStorageRepository creates a new [StorageRepository] with the given database connection
func NewStorageRepository(db *sql.DB) *StorageRepository {
	return &StorageRepository{db: db}
}

// Get retrieves the value stored under scope and key.
func (r *StorageRepository) Get(scope, key string) (string, bool, error) {
	query := `SELECT value FROM storage_items WHERE scope = ? AND key = ?`

	var value string
	err := r.db.QueryRow(query, scope, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to query item %s/%s: %v", shared.ErrStorage, scope, key, err)
	}
	return value, true, nil
}

// Set inserts or replaces the value under scope and key.
func (r *StorageRepository) Set(scope, key, value string) error {
	query := `
		INSERT INTO storage_items (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, scope, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: failed to store item %s/%s: %v", shared.ErrStorage, scope, key, err)
	}
	return nil
}

// Delete removes the item under scope and key. Missing items are not an error.
func (r *StorageRepository) Delete(scope, key string) error {
	if _, err := r.db.Exec(`DELETE FROM storage_items WHERE scope = ? AND key = ?`, scope, key); err != nil {
		return fmt.Errorf("%w: failed to delete item %s/%s: %v", shared.ErrStorage, scope, key, err)
	}
	return nil
}

// DeleteScope removes every item in scope and returns how many were removed.
func (r *StorageRepository) DeleteScope(scope string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM storage_items WHERE scope = ?`, scope)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to clear scope %s: %v", shared.ErrStorage, scope, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// Keys lists the keys in scope in lexical order.
func (r *StorageRepository) Keys(scope string) ([]string, error) {
	rows, err := r.db.Query(`SELECT key FROM storage_items WHERE scope = ? ORDER BY key`, scope)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list scope %s: %v", shared.ErrStorage, scope, err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keys: %w", err)
	}
	return keys, nil
}

// Count returns the number of items in scope.
func (r *StorageRepository) Count(scope string) (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM storage_items WHERE scope = ?`, scope).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: failed to count scope %s: %v", shared.ErrStorage, scope, err)
	}
	return n, nil
}

// Scope returns a [store.WebStorage] bound to scope.
func (r *StorageRepository) Scope(scope string) *ScopedStorage {
	return &ScopedStorage{repo: r, scope: scope}
}

// ScopedStorage is a [store.WebStorage] over one scope of a [StorageRepository].
type ScopedStorage struct {
	repo  *StorageRepository
	scope string
}

var _ store.WebStorage = (*ScopedStorage)(nil)

func (s *ScopedStorage) Name() string { return s.scope }

func (s *ScopedStorage) Get(key string) (string, bool, error) { return s.repo.Get(s.scope, key) }
func (s *ScopedStorage) Set(key, value string) error          { return s.repo.Set(s.scope, key, value) }
func (s *ScopedStorage) Remove(key string) error              { return s.repo.Delete(s.scope, key) }
func (s *ScopedStorage) Keys() ([]string, error)              { return s.repo.Keys(s.scope) }

func (s *ScopedStorage) Clear() error {
	_, err := s.repo.DeleteScope(s.scope)
	return err
}
