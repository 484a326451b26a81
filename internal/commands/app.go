// Package commands assembles the disputectl command line.
package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/commands/allowance"
	"github.com/Layr-Labs/disputectl/internal/commands/claim"
	contextcmd "github.com/Layr-Labs/disputectl/internal/commands/context"
	"github.com/Layr-Labs/disputectl/internal/commands/middleware"
	telemetrycmd "github.com/Layr-Labs/disputectl/internal/commands/telemetry"
	"github.com/Layr-Labs/disputectl/internal/hooks"
	"github.com/Layr-Labs/disputectl/internal/version"
)

// Disputectl returns the root command
func Disputectl() *cli.App {
	actionChain := hooks.NewActionChain()
	actionChain.Use(hooks.WithMetricEmission)

	commands := []*cli.Command{
		contextcmd.Command(),
		allowance.Command(),
		claim.Command(),
		telemetrycmd.Command(),
		VersionCommand(),
	}
	hooks.ApplyMiddleware(commands, actionChain)
	for _, cmd := range commands {
		withMetricsContext(cmd)
	}

	return &cli.App{
		Name:    "disputectl",
		Usage:   "Open, accept, resolve and close dispute claims",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable verbose logging",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format (table, json, yaml)",
				Value:   "table",
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep the current claim in memory only",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Use the wallet account without asking",
			},
		},
		Before:         middleware.StandardMiddlewareChain(),
		Commands:       commands,
		ExitErrHandler: middleware.ExitErrHandler,
	}
}

// withMetricsContext starts a metrics context before every leaf command runs.
func withMetricsContext(cmd *cli.Command) {
	if len(cmd.Subcommands) > 0 {
		for _, sub := range cmd.Subcommands {
			withMetricsContext(sub)
		}
		return
	}
	before := cmd.Before
	cmd.Before = func(c *cli.Context) error {
		if err := hooks.WithCommandMetricsContext(c); err != nil {
			return err
		}
		if before != nil {
			return before(c)
		}
		return nil
	}
}

// VersionCommand prints the build version
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, version.GetFullVersion())
			return nil
		},
	}
}
