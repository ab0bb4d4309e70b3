package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/k7t3/horzcv/internal/repositories"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/state"
	"github.com/k7t3/horzcv/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal client.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	session := cmd.String("session")
	if cmd.Bool("new-session") {
		session = shared.GenerateID()
	}
	repo, err := r.storage()
	if err != nil {
		return err
	}
	sessionStorage, err := r.session(session)
	if err != nil {
		return err
	}
	r.logger.Info("starting tui", "session", sessionStorage.Name())

	history := state.NewHistory(cmd.StringArg("token"))
	ctrl, err := state.New(state.Options{
		Registry:         r.registry,
		Navigator:        history,
		Local:            repo.Scope(repositories.LocalScope),
		Session:          sessionStorage,
		DisplayNameLimit: r.config.Storage.DisplayNameLimit,
		Logger:           r.logger,
	})
	if err != nil {
		return err
	}

	opts := ui.Options{
		Controller: ctrl,
		History:    history,
		Logger:     r.logger,
	}
	if r.lookup != nil {
		resolver, err := r.resolver()
		if err != nil {
			return err
		}
		defer resolver.Close()
		opts.Lookup = r.lookup
		opts.Resolver = resolver
	}

	model, err := ui.NewModel(ctx, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
