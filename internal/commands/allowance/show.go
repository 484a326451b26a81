package allowance

import (
	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/commands/middleware"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:   "show",
		Usage:  "Show the allowance of the selected account",
		Action: showAction,
	}
}

func showAction(c *cli.Context) error {
	rt, err := middleware.RuntimeFromContext(c)
	if err != nil {
		return err
	}
	if err := rt.Controller.RefreshAllowance(c.Context); err != nil {
		return err
	}
	return printAllowance(c, rt)
}
