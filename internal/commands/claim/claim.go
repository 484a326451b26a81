package claim

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/app"
	"github.com/Layr-Labs/disputectl/internal/commands/middleware"
)

var errNoClaim = errors.New("no claim loaded, run `disputectl claim show <claim-id>` or create one")

// Command returns the claim command
func Command() *cli.Command {
	return &cli.Command{
		Name:  "claim",
		Usage: "Create and follow a dispute claim",
		Subcommands: []*cli.Command{
			showCommand(),
			createCommand(),
			acceptCommand(),
			resolveCommand(),
			closeCommand(),
			panelsCommand(),
		},
		Before: middleware.RuntimeBeforeFunc,
		After:  middleware.RuntimeAfterFunc,
	}
}

// startSession returns the runtime after loading the allowance and the claim
// remembered from the previous session.
func startSession(c *cli.Context) (*middleware.Runtime, error) {
	rt, err := middleware.RuntimeFromContext(c)
	if err != nil {
		return nil, err
	}
	if err := rt.Controller.Start(c.Context); err != nil {
		return nil, err
	}
	return rt, nil
}

// startFreshSession is startSession for commands that do not act on the saved
// claim: a saved claim that cannot be reloaded is only a warning, as long as
// the allowance was read.
func startFreshSession(c *cli.Context) (*middleware.Runtime, error) {
	rt, err := middleware.RuntimeFromContext(c)
	if err != nil {
		return nil, err
	}
	err = rt.Controller.Start(c.Context)
	if err == nil {
		return rt, nil
	}

	var saved *app.SavedClaimError
	if !errors.As(err, &saved) || rt.Controller.State().Allowance == nil {
		return nil, err
	}
	middleware.GetLogger(c).Warn("Ignoring saved claim",
		zap.Uint64("claimId", saved.ID),
		zap.Error(saved.Err))
	return rt, nil
}

func printCurrentClaim(c *cli.Context, rt *middleware.Runtime) error {
	return middleware.OutputFormatter(c).PrintClaim(rt.Controller.State().Claim)
}

func parseClaimID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid claim id %q", arg)
	}
	return id, nil
}
