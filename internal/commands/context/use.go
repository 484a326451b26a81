package context

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/config"
)

func useCommand() *cli.Command {
	return &cli.Command{
		Name:      "use",
		Usage:     "Make another context the current one",
		ArgsUsage: "<context-name>",
		Action: func(c *cli.Context) error {
			name, err := nameArg(c)
			if err != nil {
				return err
			}
			if _, err := editConfig(func(cfg *config.Config) error {
				if err := requireExisting(cfg, name); err != nil {
					return err
				}
				cfg.CurrentContext = name
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Switched to context '%s'\n", name)
			return nil
		},
	}
}
