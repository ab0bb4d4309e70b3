package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/k7t3/horzcv/internal/services"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)
	ctx := context.Background()

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	config.ApplyEnv(os.Getenv)

	var lookup services.Lookup
	if finders, err := services.FromConfig(ctx, config, logger); err == nil {
		lookup = finders
	} else {
		logger.Warn("streamer lookup unavailable", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Lookup:     lookup,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:    "horzcv",
		Usage:   "Line up Twitch and YouTube live chats side by side",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
