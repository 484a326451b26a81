package context

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/commands/middleware"
	"github.com/Layr-Labs/disputectl/internal/config"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the settings of the current context",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			current, err := loadCurrent(cfg)
			if err != nil {
				return err
			}

			settings := current.ToMap()
			settings["name"] = current.Name
			settings["store-dir"] = current.StoreDir()
			return middleware.OutputFormatter(c).Print(settings)
		},
	}
}
