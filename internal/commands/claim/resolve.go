package claim

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve the current claim as the respondent",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "resolution",
				Usage:    "How the dispute was settled",
				Required: true,
			},
		},
		Action: resolveAction,
	}
}

func resolveAction(c *cli.Context) error {
	rt, err := startSession(c)
	if err != nil {
		return err
	}

	claim := rt.Controller.State().Claim
	if claim == nil {
		return errNoClaim
	}
	if !rt.Controller.Panels(time.Now()).Resolve {
		return fmt.Errorf("claim %d cannot be resolved in state %s", claim.ID, claim.State)
	}

	if err := rt.Controller.ResolveClaim(c.Context, c.String("resolution")); err != nil {
		return err
	}
	return printCurrentClaim(c, rt)
}
