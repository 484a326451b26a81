package claim

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/commands/middleware"
)

func panelsCommand() *cli.Command {
	return &cli.Command{
		Name:   "panels",
		Usage:  "Show which actions the current claim allows",
		Action: panelsAction,
	}
}

func panelsAction(c *cli.Context) error {
	rt, err := startSession(c)
	if err != nil {
		return err
	}
	return middleware.OutputFormatter(c).PrintPanels(rt.Controller.Panels(time.Now()))
}
