package main

import (
	"context"
	"fmt"
	"time"

	"github.com/k7t3/horzcv/internal/repositories"
	"github.com/urfave/cli/v3"
)

const defaultSessionAge = 30 * 24 * time.Hour

// SessionSummary describes a session scope and how much it stores.
type SessionSummary struct {
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	Items      int       `json:"items"`
	Current    bool      `json:"current"`
}

// SessionsList prints every session, most recently seen first.
func (r *Runner) SessionsList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.storage()
	if err != nil {
		return err
	}
	sessions, err := repositories.NewSessionRepository(r.db).List()
	if err != nil {
		return err
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		count, err := repo.Count(repositories.SessionScope(s.Name))
		if err != nil {
			return err
		}
		summaries = append(summaries, SessionSummary{
			Name:       s.Name,
			CreatedAt:  s.CreatedAt,
			LastSeenAt: s.LastSeenAt,
			Items:      count,
			Current:    s.Name == r.config.Storage.Session,
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(summaries, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Sessions (%d)", len(summaries)))
	for _, s := range summaries {
		marker := " "
		if s.Current {
			marker = "*"
		}
		if err := r.writePlain("%s %s  items: %d  last seen: %s\n", marker, s.Name, s.Items, s.LastSeenAt.Local().Format(time.DateTime)); err != nil {
			return err
		}
	}
	return nil
}

// SessionsPurge deletes sessions not seen within --older-than along with their storage.
func (r *Runner) SessionsPurge(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.database(); err != nil {
		return err
	}
	age := cmd.Duration("older-than")
	if age <= 0 {
		age = defaultSessionAge
	}

	purged, err := repositories.NewSessionRepository(r.db).Purge(time.Now().Add(-age))
	if err != nil {
		return err
	}
	r.logger.Info("purged sessions", "count", len(purged), "older_than", age)
	for _, name := range purged {
		r.writePlain("✓ Deleted %s\n", name)
	}
	return r.writePlain("Purged %d session(s)\n", len(purged))
}
