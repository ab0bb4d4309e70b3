package main

import (
	"context"
	"fmt"

	"github.com/k7t3/horzcv/internal/editor"
	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/state"
	"github.com/k7t3/horzcv/internal/store"
	"github.com/k7t3/horzcv/internal/token"
	"github.com/urfave/cli/v3"
)

// Stream is the printable form of one identity in a token.
type Stream struct {
	Position    int    `json:"position"`
	Service     string `json:"service"`
	Code        string `json:"code"`
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	URL         string `json:"url"`
}

func (r *Runner) streams(list []models.NamedIdentity) []Stream {
	out := make([]Stream, len(list))
	for i, n := range list {
		out[i] = Stream{
			Position:    i + 1,
			Service:     n.Service().Label(),
			Code:        n.Service().Code(),
			ID:          n.ID(),
			DisplayName: n.DisplayName,
			URL:         r.streamURL(n.Identity),
		}
	}
	return out
}

// TokenEncode detects every URL argument and prints the token of the resulting row.
func (r *Runner) TokenEncode(ctx context.Context, cmd *cli.Command) error {
	urls := cmd.Args().Slice()
	if len(urls) == 0 {
		return fmt.Errorf("%w: at least one stream URL", shared.ErrMissingArgument)
	}

	e := r.registry.NewEditor(editor.New(r.logger))
	for _, url := range urls {
		entry := models.NewEntry()
		entry.SetURL(url)
		if err := e.Detect(entry); err != nil {
			return err
		}
		if err := e.Add(entry); err != nil {
			return err
		}
	}
	list := e.ActiveIdentities()

	if !cmd.Bool("no-names") {
		names, err := r.names()
		if err != nil {
			return err
		}
		for i, n := range list {
			if name, ok, err := names.Load(token.Key(n.Identity)); err == nil && ok {
				list[i].DisplayName = name
			}
		}
	}

	tok := token.EncodeMany(list)
	if cmd.Bool("save") {
		session, err := r.session(cmd.String("session"))
		if err != nil {
			return err
		}
		if err := store.NewDataStore(session, state.TokenNamespace, 1).Store(state.TokenKey, tok); err != nil {
			return err
		}
		r.logger.Info("saved token", "session", session.Name())
	}

	return r.writePlain("%s\n", tok)
}

// TokenDecode lists the streams of a token. Malformed parts are reported and skipped.
func (r *Runner) TokenDecode(ctx context.Context, cmd *cli.Command) error {
	tok := cmd.StringArg("token")
	if tok == "" {
		return fmt.Errorf("%w: token", shared.ErrMissingArgument)
	}

	list, errs := token.DecodeManyReport(tok)
	for _, err := range errs {
		r.logger.Warn("skipped token part", "error", err)
	}
	streams := r.streams(list)

	if cmd.Bool("json") {
		return r.writeJSON(streams, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Streams (%d)", len(streams)))
	for _, s := range streams {
		name := s.DisplayName
		if name == "" {
			name = "-"
		}
		if err := r.writePlain("%d. [%s] %s  %s  %s\n", s.Position, s.Service, s.ID, name, s.URL); err != nil {
			return err
		}
	}
	return nil
}

// TokenLast prints the last token submitted in a session.
func (r *Runner) TokenLast(ctx context.Context, cmd *cli.Command) error {
	session, err := r.session(cmd.String("session"))
	if err != nil {
		return err
	}

	tok, ok, err := store.NewDataStore(session, state.TokenNamespace, 1).Load(state.TokenKey)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no token stored in %s", shared.ErrEntryNotFound, session.Name())
	}
	return r.writePlain("%s\n", tok)
}
