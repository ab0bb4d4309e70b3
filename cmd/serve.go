package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/k7t3/horzcv/internal/server"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/web"
	"github.com/urfave/cli/v3"
)

// pagePrefix is where the chat row page is mounted.
const pagePrefix = "/horzcv/"

// Serve runs the lookup API and the chat row page until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.lookup == nil {
		return fmt.Errorf("%w: streamer lookup not initialized", shared.ErrServiceUnavailable)
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = int(port)
	}

	logger := shared.WithLogger(r.logger, "component", "server")
	router := server.NewRouter(server.RouterOpts{
		Lookup:      r.lookup,
		Page:        web.NewPageHandler(r.registry, pagePrefix, logger),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server", "addr", cfg.Addr(), "page", pagePrefix, "api", server.StreamerPath)
	return server.New(cfg.Addr(), router, logger).Run(ctx)
}
