package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/k7t3/horzcv/internal/shared"
)

// Session is a named session scope.
type Session struct {
	Name       string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// SessionRepository tracks session scopes.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Touch records that the session was used, creating it if needed.
func (r *SessionRepository) Touch(name string) error {
	if name == "" {
		return fmt.Errorf("%w: session name", shared.ErrMissingArgument)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO storage_sessions (name, created_at, last_seen_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET last_seen_at = excluded.last_seen_at
	`
	if _, err := r.db.Exec(query, name, now, now); err != nil {
		return fmt.Errorf("%w: failed to touch session %s: %v", shared.ErrStorage, name, err)
	}
	return nil
}

// Get retrieves a session by name.
func (r *SessionRepository) Get(name string) (*Session, error) {
	query := `SELECT name, created_at, last_seen_at FROM storage_sessions WHERE name = ?`

	var s Session
	err := r.db.QueryRow(query, name).Scan(&s.Name, &s.CreatedAt, &s.LastSeenAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query session: %v", shared.ErrStorage, err)
	}
	return &s, nil
}

// List returns every session, most recently seen first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(`SELECT name, created_at, last_seen_at FROM storage_sessions ORDER BY last_seen_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query sessions: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	sessions := []*Session{}
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.Name, &s.CreatedAt, &s.LastSeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return sessions, nil
}

// Purge deletes sessions last seen before cutoff along with their storage scopes.
func (r *SessionRepository) Purge(cutoff time.Time) ([]string, error) {
	sessions, err := r.List()
	if err != nil {
		return nil, err
	}

	var purged []string
	err = inTx(r.db, func(tx *sql.Tx) error {
		for _, s := range sessions {
			if !s.LastSeenAt.Before(cutoff) {
				continue
			}
			if _, err := tx.Exec(`DELETE FROM storage_items WHERE scope = ?`, SessionScope(s.Name)); err != nil {
				return fmt.Errorf("%w: failed to clear session %s: %v", shared.ErrStorage, s.Name, err)
			}
			if _, err := tx.Exec(`DELETE FROM storage_sessions WHERE name = ?`, s.Name); err != nil {
				return fmt.Errorf("%w: failed to delete session %s: %v", shared.ErrStorage, s.Name, err)
			}
			purged = append(purged, s.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purged, nil
}
