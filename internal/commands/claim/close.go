package claim

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/forms"
)

func closeCommand() *cli.Command {
	return &cli.Command{
		Name:  "close",
		Usage: "Close the current claim as the requester",
		Description: `A claim can be closed once it awaits confirmation, or when it has waited
72 hours for acceptance or resolution.`,
		Action: closeAction,
	}
}

func closeAction(c *cli.Context) error {
	rt, err := startSession(c)
	if err != nil {
		return err
	}

	claim := rt.Controller.State().Claim
	if claim == nil {
		return errNoClaim
	}
	if !rt.Controller.Panels(time.Now()).Close {
		return fmt.Errorf("claim %d cannot be closed yet: it is %s and was last modified at %s (claims expire after %s)",
			claim.ID, claim.State, claim.ModifiedAt.Local().Format(time.RFC3339), forms.ExpiryWindow)
	}

	if err := rt.Controller.CloseClaim(c.Context); err != nil {
		return err
	}
	return printCurrentClaim(c, rt)
}
