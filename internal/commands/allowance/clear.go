package allowance

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/commands/middleware"
)

func clearCommand() *cli.Command {
	return &cli.Command{
		Name:   "clear",
		Usage:  "Revoke the allowance of the claims handler",
		Action: clearAction,
	}
}

func clearAction(c *cli.Context) error {
	rt, err := middleware.RuntimeFromContext(c)
	if err != nil {
		return err
	}
	view, err := currentView(c, rt)
	if err != nil {
		return err
	}
	if !view.ShowClear {
		return errors.New("no allowance to clear")
	}

	if err := rt.Controller.ClearAllowance(c.Context); err != nil {
		return err
	}
	return printAllowance(c, rt)
}
