package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/aicoconsole/cmd"
	"github.com/aicoconsole/internal/logging"
)

const (
	version = "0.1.0"
)

func main() {
	// Optional local overrides; absence is not an error
	godotenv.Load()
	logging.Setup()

	app := &cli.App{
		Name:    "aicoconsole",
		Usage:   "Admin console backend for AICO conversational terminals",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
		},
		Commands: []*cli.Command{
			cmd.APICommand(),
			cmd.ConfigCommand(),
			cmd.SeedCommand(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
