// Package context implements `disputectl context`, the named connection
// profiles stored in the config file.
package context

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/config"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "context",
		Usage: "Manage contexts",
		Subcommands: []*cli.Command{
			createCommand(),
			deleteCommand(),
			listCommand(),
			useCommand(),
			setCommand(),
			showCommand(),
		},
	}
}

// nameArg returns the single <context-name> argument.
func nameArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 || c.Args().First() == "" {
		return "", fmt.Errorf("%s expects exactly one <context-name> argument", c.Command.HelpName)
	}
	return c.Args().First(), nil
}

// editConfig loads the config file, lets edit change it and writes it back.
// Nothing is written when edit fails.
func editConfig(edit func(cfg *config.Config) error) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := edit(cfg); err != nil {
		return nil, err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}
	return cfg, nil
}

func loadCurrent(cfg *config.Config) (*config.Context, error) {
	if ctx, ok := cfg.Contexts[cfg.CurrentContext]; ok {
		return ctx, nil
	}
	return nil, fmt.Errorf("current context '%s' not found", cfg.CurrentContext)
}

func requireExisting(cfg *config.Config, name string) error {
	if _, ok := cfg.Contexts[name]; !ok {
		return fmt.Errorf("context '%s' not found", name)
	}
	return nil
}
