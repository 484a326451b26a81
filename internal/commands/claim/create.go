package claim

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/commands/middleware"
	"github.com/Layr-Labs/disputectl/internal/forms"
)

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Open a dispute about a deal",
		Description: `Stake tokens and open a claim against the respondent of a deal.
The stake must be at least 150 and may not exceed your allowance.

Examples:
  disputectl claim create --deal-id 12 --reason "never delivered" \
    --requester-id buyer --respondent-id seller --stake 200`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "deal-id",
				Usage:    "Deal the claim is about",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "reason",
				Usage:    "Why the claim is raised",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "requester-id",
				Usage:    "Your identifier in the deal",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "respondent-id",
				Usage:    "The other party's identifier in the deal",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "stake",
				Usage: "Whole tokens to stake",
				Value: strconv.FormatUint(forms.MinStake, 10),
			},
		},
		Action: createAction,
	}
}

func createAction(c *cli.Context) error {
	rt, err := startFreshSession(c)
	if err != nil {
		return err
	}

	form := forms.CreateForm{
		DealID:       c.String("deal-id"),
		Reason:       c.String("reason"),
		RequesterID:  c.String("requester-id"),
		RespondentID: c.String("respondent-id"),
		Stake:        c.String("stake"),
	}

	allowance := rt.Controller.State().WholeAllowance()
	payload, err := form.Validate(allowance)
	if err != nil {
		var verr *forms.ValidationError
		if errors.As(err, &verr) && verr.Has("stake") {
			return fmt.Errorf("%w (closest valid stake: %d)", err, forms.ClampStake(form.Stake, allowance))
		}
		return err
	}

	id, err := rt.Controller.CreateClaim(c.Context, payload)
	if err != nil {
		return err
	}

	middleware.GetLogger(c).Info("Claim created", zap.Uint64("claimId", id), zap.Uint64("dealId", payload.DealID))
	return printCurrentClaim(c, rt)
}
