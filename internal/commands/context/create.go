package context

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/config"
)

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a context with default settings",
		ArgsUsage: "<context-name>",
		Description: `The first context created becomes the current one. Point it at a
deployment afterwards with 'disputectl context set'.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "use", Usage: "Switch to the new context"},
		},
		Action: func(c *cli.Context) error {
			name, err := nameArg(c)
			if err != nil {
				return err
			}

			switched := false
			if _, err := editConfig(func(cfg *config.Config) error {
				if _, dup := cfg.Contexts[name]; dup {
					return fmt.Errorf("context '%s' already exists", name)
				}
				cfg.Contexts[name] = config.NewContext(name)
				switched = c.Bool("use") || cfg.CurrentContext == ""
				if switched {
					cfg.CurrentContext = name
				}
				return nil
			}); err != nil {
				return err
			}

			config.LoggerFromContext(c.Context).Info("Context created",
				zap.String("name", name), zap.Bool("current", switched))
			fmt.Fprintf(c.App.Writer, "Context '%s' created successfully\n", name)
			if switched {
				fmt.Fprintf(c.App.Writer, "Current context set to '%s'\n", name)
			}
			return nil
		},
	}
}
