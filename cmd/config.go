package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/aicoconsole/internal/config"
)

// ConfigCommand groups the configuration-file subcommands: `config init`
// writes a starter file, `config validate` checks the effective settings
// the way the api command would see them.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and bootstrap the console configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a starter aicoconsole.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the starter file",
						Value:   "aicoconsole.toml",
					},
				},
				Action: func(c *cli.Context) error {
					path := c.String("output")
					if err := config.InitConfig(path); err != nil {
						return fmt.Errorf("failed to initialize config: %w", err)
					}
					fmt.Printf("Wrote starter configuration to %s\n", path)
					fmt.Println("Set database.url and auth.jwt_secret before starting the server.")
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "Check that the effective configuration can run the server",
				Action: func(c *cli.Context) error {
					cfg, err := config.LoadConfig(c.String("config"))
					if err != nil {
						return fmt.Errorf("failed to load config: %w", err)
					}
					if err := config.Validate(cfg); err != nil {
						return fmt.Errorf("invalid configuration: %w", err)
					}
					fmt.Printf("Configuration OK (server port %d)\n", cfg.Server.Port)
					return nil
				},
			},
		},
	}
}
