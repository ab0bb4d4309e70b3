package repositories

import (
	"database/sql"
	"fmt"
)

const (
	// LocalScope holds long-lived values such as display names.
	LocalScope = "local"
	// sessionScopePrefix prefixes the scope of each session.
	sessionScopePrefix = "session/"
)

// SessionScope returns the storage scope for the named session.
func SessionScope(name string) string {
	return sessionScopePrefix + name
}

// inTx runs fn in a transaction, committing when it returns nil.
func inTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
