package allowance

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/commands/middleware"
	"github.com/Layr-Labs/disputectl/internal/forms"
	"github.com/Layr-Labs/disputectl/internal/output"
)

// Command returns the allowance command
func Command() *cli.Command {
	return &cli.Command{
		Name:  "allowance",
		Usage: "Manage how many tokens the claims handler may stake on your behalf",
		Subcommands: []*cli.Command{
			showCommand(),
			approveCommand(),
			clearCommand(),
		},
		Before: middleware.RuntimeBeforeFunc,
		After:  middleware.RuntimeAfterFunc,
	}
}

func printAllowance(c *cli.Context, rt *middleware.Runtime) error {
	state := rt.Controller.State()
	account, _ := rt.Wallet.CurrentAddress()
	view := forms.AllowanceView(state.WholeAllowance())

	data := output.AllowanceOutput{
		Account:   account.Hex(),
		Allowance: view.Display,
		Spender:   rt.ClaimsHandler.Hex(),
	}
	if state.Allowance != nil {
		data.Allowance = state.Allowance.String()
	}
	return middleware.OutputFormatter(c).PrintAllowance(data, view)
}

// currentView reads the allowance from the chain and returns the form it
// renders to. approve and clear are only offered by that form.
func currentView(c *cli.Context, rt *middleware.Runtime) (forms.Allowance, error) {
	if err := rt.Controller.RefreshAllowance(c.Context); err != nil {
		return forms.Allowance{}, err
	}
	view := forms.AllowanceView(rt.Controller.State().WholeAllowance())
	if !view.Known {
		return view, fmt.Errorf("allowance is unknown, run `disputectl allowance show` to retry")
	}
	return view, nil
}
