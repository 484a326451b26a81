package context

import (
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/config"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the configured contexts",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			names := make([]string, 0, len(cfg.Contexts))
			for name := range cfg.Contexts {
				names = append(names, name)
			}
			sort.Strings(names)

			table := tablewriter.NewWriter(c.App.Writer)
			table.SetHeader([]string{"CURRENT", "NAME", "RPC URL", "CLAIMS HANDLER", "WALLET"})
			table.SetAutoWrapText(false)
			for _, name := range names {
				table.Append(contextRow(name, cfg.Contexts[name], name == cfg.CurrentContext))
			}
			table.Render()
			return nil
		},
	}
}

func contextRow(name string, ctx *config.Context, current bool) []string {
	marker := ""
	if current {
		marker = "*"
	}
	wallet := ""
	if ctx.Wallet != nil {
		wallet = ctx.Wallet.Type
	}
	return []string{marker, name, ctx.RPCEndpoint(), orDash(ctx.ClaimsHandlerAddress), orDash(wallet)}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
