package claim

import (
	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/commands/middleware"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the current claim, or load another one",
		ArgsUsage: "[claim-id]",
		Description: `Without an argument, shows the claim remembered from the last session.
With a claim id, loads that claim and remembers it.`,
		Action: showAction,
	}
}

func showAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.ShowSubcommandHelp(c)
	}

	if c.NArg() == 0 {
		rt, err := startSession(c)
		if err != nil {
			return err
		}
		return printCurrentClaim(c, rt)
	}

	id, err := parseClaimID(c.Args().First())
	if err != nil {
		return err
	}
	rt, err := middleware.RuntimeFromContext(c)
	if err != nil {
		return err
	}
	if err := rt.Controller.RefreshAllowance(c.Context); err != nil {
		return err
	}
	if err := rt.Controller.SelectClaim(c.Context, id); err != nil {
		return err
	}
	return printCurrentClaim(c, rt)
}
