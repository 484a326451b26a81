package claim

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/forms"
)

func acceptCommand() *cli.Command {
	return &cli.Command{
		Name:   "accept",
		Usage:  "Accept the current claim as the respondent, matching the requester's stake",
		Action: acceptAction,
	}
}

func acceptAction(c *cli.Context) error {
	rt, err := startSession(c)
	if err != nil {
		return err
	}

	state := rt.Controller.State()
	if state.Claim == nil {
		return errNoClaim
	}
	panels := forms.PanelsFor(state.Claim, state.WholeAllowance(), time.Now())
	if !panels.Accept {
		return fmt.Errorf("claim %d cannot be accepted in state %s", state.Claim.ID, state.Claim.State)
	}
	if !panels.AcceptAllowed {
		return fmt.Errorf("allowance of %s does not cover the requester's stake of %s, run `disputectl allowance approve`",
			forms.AllowanceView(state.WholeAllowance()).Display, state.Claim.RequesterStaked)
	}

	if err := rt.Controller.AcceptClaim(c.Context); err != nil {
		return err
	}
	return printCurrentClaim(c, rt)
}
