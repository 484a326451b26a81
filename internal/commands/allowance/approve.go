package allowance

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/commands/middleware"
	"github.com/Layr-Labs/disputectl/internal/forms"
)

func approveCommand() *cli.Command {
	return &cli.Command{
		Name:  "approve",
		Usage: "Allow the claims handler to stake tokens",
		Description: `Approve the claims handler to transfer up to --tokens whole tokens.
Only possible while no allowance is set; clear an existing one first.

Examples:
  # Approve the default amount
  disputectl allowance approve

  # Approve a custom amount
  disputectl allowance approve --tokens 500`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "tokens",
				Usage: "Number of whole tokens to approve",
				Value: strconv.FormatUint(forms.DefaultApproveAmount, 10),
			},
		},
		Action: approveAction,
	}
}

func approveAction(c *cli.Context) error {
	tokens, ok := forms.ParseApproveAmount(c.String("tokens"))
	if !ok {
		return fmt.Errorf("invalid --tokens %q: must be a positive whole number", c.String("tokens"))
	}

	rt, err := middleware.RuntimeFromContext(c)
	if err != nil {
		return err
	}

	view, err := currentView(c, rt)
	if err != nil {
		return err
	}
	if !view.ShowApproveInput {
		return fmt.Errorf("an allowance of %s is already set, run `disputectl allowance clear` before approving a new amount", view.Display)
	}

	log := middleware.GetLogger(c)
	log.Debug("Approving allowance",
		zap.Uint64("tokens", tokens),
		zap.String("spender", rt.ClaimsHandler.Hex()))

	if err := rt.Controller.ApproveAllowance(c.Context, tokens); err != nil {
		return err
	}
	return printAllowance(c, rt)
}
