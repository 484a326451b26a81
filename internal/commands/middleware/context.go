package middleware

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/config"
)

// ContextBeforeFunc stores the current context of the config file in the CLI context.
func ContextBeforeFunc(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Context = context.WithValue(c.Context, config.ConfigKey, cfg)

	if cfg.CurrentContext == "" {
		return nil
	}
	ctx, exists := cfg.Contexts[cfg.CurrentContext]
	if !exists {
		return fmt.Errorf("current context '%s' not found", cfg.CurrentContext)
	}
	c.Context = context.WithValue(c.Context, config.ContextKey, ctx)
	return nil
}

// CurrentContext returns the context loaded by ContextBeforeFunc.
func CurrentContext(c *cli.Context) (*config.Context, bool) {
	ctx, ok := c.Context.Value(config.ContextKey).(*config.Context)
	return ctx, ok && ctx != nil
}

// RequireContext ensures a context is configured before running commands
func RequireContext(c *cli.Context) error {
	if _, ok := CurrentContext(c); ok {
		return nil
	}
	fmt.Fprintf(c.App.ErrWriter, "\nError: No context configured\n\n")
	fmt.Fprintf(c.App.ErrWriter, "To create a context, run:\n")
	fmt.Fprintf(c.App.ErrWriter, "  disputectl context create <name> --use\n\n")
	fmt.Fprintf(c.App.ErrWriter, "To use an existing context:\n")
	fmt.Fprintf(c.App.ErrWriter, "  disputectl context use <name>\n\n")
	return fmt.Errorf("no context configured - please create one first")
}
