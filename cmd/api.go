package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/aicoconsole/internal/api"
	"github.com/aicoconsole/internal/config"
	"github.com/aicoconsole/internal/database"
	"github.com/aicoconsole/internal/jobqueue"
	"github.com/aicoconsole/internal/sse"
)

// APICommand returns the CLI command for starting the API server
func APICommand() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Start the console API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server (overrides config)",
			},
		},
		Action: runAPI,
	}
}

func runAPI(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.NewDB(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	queue, err := jobqueue.NewJobQueue(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to create job queue: %w", err)
	}

	ctx := context.Background()
	if err := queue.Start(ctx); err != nil {
		return fmt.Errorf("failed to start job queue: %w", err)
	}
	defer queue.Stop(ctx)

	hub := sse.NewHub()

	log.Info().Int("port", cfg.Server.Port).Msg("Starting console API server")

	server := api.NewServer(cfg, db, hub)
	return server.Start()
}
