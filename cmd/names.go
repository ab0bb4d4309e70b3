package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/token"
	"github.com/urfave/cli/v3"
)

// RememberedName is a display name with the stream it belongs to.
type RememberedName struct {
	Stream
	LastUsed time.Time `json:"lastUsed"`
}

// NamesList prints remembered display names, newest first.
func (r *Runner) NamesList(ctx context.Context, cmd *cli.Command) error {
	names, err := r.names()
	if err != nil {
		return err
	}

	entries := names.Entries()
	list := make([]RememberedName, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		n, err := token.DecodeOne(e.Key)
		if err != nil {
			r.logger.Warn("skipped malformed display name key", "key", e.Key, "error", err)
			continue
		}
		value, ok, err := names.Load(e.Key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		n.DisplayName = value
		s := r.streams([]models.NamedIdentity{n})[0]
		s.Position = len(list) + 1
		list = append(list, RememberedName{Stream: s, LastUsed: e.Timestamp})
	}

	if cmd.Bool("json") {
		return r.writeJSON(list, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Display names (%d/%d)", len(list), names.Limit()))
	for _, n := range list {
		if err := r.writePlain("%d. [%s] %s → %s  (%s)\n", n.Position, n.Service, n.ID, n.DisplayName, n.LastUsed.Format(time.DateTime)); err != nil {
			return err
		}
	}
	return nil
}

// NamesGet prints the remembered display name of a stream URL or identity token.
func (r *Runner) NamesGet(ctx context.Context, cmd *cli.Command) error {
	n, err := r.identify(cmd.StringArg("stream"))
	if err != nil {
		return err
	}
	names, err := r.names()
	if err != nil {
		return err
	}

	name, ok, err := names.Load(token.Key(n.Identity))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no display name for %s", shared.ErrEntryNotFound, n.Identity)
	}
	if err := names.Flush(); err != nil {
		return err
	}
	return r.writePlain("%s\n", name)
}

// NamesSet remembers a display name for a stream.
func (r *Runner) NamesSet(ctx context.Context, cmd *cli.Command) error {
	n, err := r.identify(cmd.StringArg("stream"))
	if err != nil {
		return err
	}
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: display name", shared.ErrMissingArgument)
	}
	names, err := r.names()
	if err != nil {
		return err
	}

	if err := names.Store(token.Key(n.Identity), name); err != nil {
		return err
	}
	if err := names.Flush(); err != nil {
		return err
	}
	r.logger.Info("remembered display name", "identity", n.Identity, "name", name)
	return r.writePlain("✓ %s → %s\n", n.Identity, name)
}

// NamesRemove forgets the display name of a stream.
func (r *Runner) NamesRemove(ctx context.Context, cmd *cli.Command) error {
	n, err := r.identify(cmd.StringArg("stream"))
	if err != nil {
		return err
	}
	names, err := r.names()
	if err != nil {
		return err
	}

	if err := names.Remove(token.Key(n.Identity)); err != nil {
		return err
	}
	if err := names.Flush(); err != nil {
		return err
	}
	return r.writePlain("✓ Forgot %s\n", n.Identity)
}

// NamesClear forgets every display name. Other local storage is untouched.
func (r *Runner) NamesClear(ctx context.Context, cmd *cli.Command) error {
	names, err := r.names()
	if err != nil {
		return err
	}
	count := names.Size()
	if err := names.Clear(); err != nil {
		return err
	}
	return r.writePlain("✓ Forgot %d display name(s)\n", count)
}
