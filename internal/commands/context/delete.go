package context

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/config"
)

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Remove a context from the config file",
		ArgsUsage: "<context-name>",
		Description: `The claim id store of the context is left on disk.
The current context cannot be deleted; 'disputectl context use' another one first.`,
		Action: func(c *cli.Context) error {
			name, err := nameArg(c)
			if err != nil {
				return err
			}
			if _, err := editConfig(func(cfg *config.Config) error {
				if err := requireExisting(cfg, name); err != nil {
					return err
				}
				if name == cfg.CurrentContext {
					return fmt.Errorf("cannot delete current context '%s', switch with 'disputectl context use <context-name>' first", name)
				}
				delete(cfg.Contexts, name)
				return nil
			}); err != nil {
				return err
			}

			config.LoggerFromContext(c.Context).Debug("Context deleted", zap.String("name", name))
			fmt.Fprintf(c.App.Writer, "Successfully deleted context '%s'\n", name)
			return nil
		},
	}
}
