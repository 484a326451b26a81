package telemetry

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/commands/middleware"
	"github.com/Layr-Labs/disputectl/internal/config"
	"github.com/Layr-Labs/disputectl/internal/output"
	"github.com/Layr-Labs/disputectl/internal/telemetry"
)

const (
	choiceFull      = "Enable telemetry"
	choiceAnonymous = "Enable anonymous telemetry (no wallet account)"
	choiceDisabled  = "Disable telemetry"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "telemetry",
		Usage: "Configure telemetry settings",
		Description: `Configure telemetry settings for disputectl.

Telemetry collects command usage counts, durations and failures.
Claim reasons, resolutions and party identifiers are never sent.`,
		Subcommands: []*cli.Command{
			{
				Name:   "enable",
				Usage:  "Enable telemetry",
				Action: enableTelemetry,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "anonymous",
						Usage: "Do not attach the wallet account to metrics",
					},
				},
			},
			{
				Name:   "disable",
				Usage:  "Disable telemetry completely",
				Action: disableTelemetry,
			},
			{
				Name:   "status",
				Usage:  "Show current telemetry configuration",
				Action: showStatus,
			},
			{
				Name:    "configure",
				Aliases: []string{"config"},
				Usage:   "Configure telemetry interactively",
				Action:  configureTelemetry,
			},
		},
	}
}

// preference is what the user chose; the config file stores it as two
// optional booleans.
type preference struct {
	enabled   bool
	anonymous bool
}

func (p preference) mode() string {
	switch {
	case !p.enabled:
		return "N/A"
	case p.anonymous:
		return "Anonymous"
	default:
		return "Full"
	}
}

func currentPreference(cfg *config.Config) preference {
	return preference{
		enabled:   cfg.TelemetryEnabled != nil && *cfg.TelemetryEnabled,
		anonymous: cfg.TelemetryAnonymous != nil && *cfg.TelemetryAnonymous,
	}
}

func enableTelemetry(c *cli.Context) error {
	return savePreference(c, preference{enabled: true, anonymous: c.Bool("anonymous")})
}

func disableTelemetry(c *cli.Context) error {
	return savePreference(c, preference{})
}

func savePreference(c *cli.Context, p preference) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.TelemetryEnabled = &p.enabled
	cfg.TelemetryAnonymous = &p.anonymous
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	ok := color.New(color.FgGreen, color.Bold)
	note := color.New(color.FgCyan)
	switch p.mode() {
	case "N/A":
		ok.Fprintln(c.App.Writer, "✓ Telemetry disabled")
	case "Anonymous":
		ok.Fprintln(c.App.Writer, "✓ Telemetry enabled (anonymous mode)")
		note.Fprintln(c.App.Writer, "  • Wallet account will NOT be tracked")
	default:
		ok.Fprintln(c.App.Writer, "✓ Telemetry enabled")
		note.Fprintln(c.App.Writer, "  • Wallet account of the current context will be included")
	}
	return nil
}

func showStatus(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	p := currentPreference(cfg)
	status := map[string]interface{}{
		"status":  map[bool]string{true: "Enabled", false: "Disabled"}[p.enabled],
		"mode":    p.mode(),
		"api_key": map[bool]string{true: "Configured", false: "Not configured"}[cfg.PostHogAPIKey != ""],
	}

	overrides := map[string]string{}
	for _, name := range []string{telemetry.EnabledEnv, telemetry.APIKeyEnv, telemetry.EndpointEnv} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if name == telemetry.APIKeyEnv {
			v = "***configured***"
		}
		overrides[name] = v
	}
	if len(overrides) > 0 {
		status["env_overrides"] = overrides
	}

	return middleware.OutputFormatter(c).Print(status)
}

func configureTelemetry(c *cli.Context) error {
	if !output.Interactive() {
		return fmt.Errorf("telemetry configure needs a terminal, use `disputectl telemetry enable` or `disable`")
	}

	choices := map[string]preference{
		choiceFull:      {enabled: true},
		choiceAnonymous: {enabled: true, anonymous: true},
		choiceDisabled:  {},
	}
	choice, err := output.SelectString("How should disputectl collect usage data?",
		[]string{choiceFull, choiceAnonymous, choiceDisabled})
	if err != nil {
		return err
	}
	return savePreference(c, choices[choice])
}
