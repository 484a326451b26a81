// Package hooks wraps command actions with usage metrics.
package hooks

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/config"
	"github.com/Layr-Labs/disputectl/internal/telemetry"
	"github.com/Layr-Labs/disputectl/internal/version"
)

// Middleware decorates a command action.
type Middleware func(next cli.ActionFunc) cli.ActionFunc

// ActionChain applies middlewares in registration order: the first one
// registered sees the call first.
type ActionChain struct {
	Processors []Middleware
}

func NewActionChain() *ActionChain {
	return &ActionChain{}
}

func (ac *ActionChain) Use(m Middleware) {
	ac.Processors = append(ac.Processors, m)
}

func (ac *ActionChain) Wrap(action cli.ActionFunc) cli.ActionFunc {
	wrapped := action
	for i := len(ac.Processors) - 1; i >= 0; i-- {
		wrapped = ac.Processors[i](wrapped)
	}
	return wrapped
}

// ApplyMiddleware wraps the action of every command in the tree.
func ApplyMiddleware(commands []*cli.Command, chain *ActionChain) {
	for _, cmd := range commands {
		ApplyMiddleware(cmd.Subcommands, chain)
		if cmd.Action == nil {
			continue
		}
		cmd.Action = chain.Wrap(cmd.Action)
	}
}

// Free text and party identifiers typed into claim forms stay on the machine.
var sensitiveFlags = map[string]struct{}{
	"reason":        {},
	"resolution":    {},
	"requester-id":  {},
	"respondent-id": {},
}

// setFlags returns the explicitly set, non-sensitive flags of the app and
// the running command.
func setFlags(c *cli.Context) map[string]string {
	var candidates []cli.Flag
	if c.App != nil {
		candidates = append(candidates, c.App.Flags...)
	}
	if c.Command != nil {
		candidates = append(candidates, c.Command.Flags...)
	}

	values := make(map[string]string)
	for _, f := range candidates {
		name := f.Names()[0]
		if _, skip := sensitiveFlags[name]; skip || !c.IsSet(name) {
			continue
		}
		values[name] = fmt.Sprintf("%v", c.Value(name))
	}
	return values
}

func clientFor(c *cli.Context) telemetry.Client {
	if client, ok := telemetry.ClientFromContext(c.Context); ok {
		return client
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return telemetry.NewNoopClient()
	}
	telemetry.Init(cfg)
	return telemetry.GetGlobalClient()
}

// WithMetricEmission records the outcome and duration of the action and
// sends every metric collected for the command.
func WithMetricEmission(action cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		client := clientFor(c)
		c.Context = telemetry.ContextWithClient(c.Context, client)

		err := action(c)
		flushMetrics(c, client, err)
		return err
	}
}

func flushMetrics(c *cli.Context, client telemetry.Client, actionErr error) {
	metrics, err := telemetry.MetricsFromContext(c.Context)
	if err != nil {
		return
	}
	if c.Command != nil {
		metrics.AddProperty("command", c.Command.HelpName)
	}

	if actionErr != nil {
		metrics.AddMetricWithDimensions("Failure", 1, map[string]string{"error": actionErr.Error()})
	} else {
		metrics.AddMetric("Success", 1)
	}
	metrics.AddMetric("DurationMilliseconds", float64(metrics.Duration().Milliseconds()))

	for _, m := range metrics.Snapshot() {
		_ = client.AddMetric(c.Context, m)
	}
}

// WithCommandMetricsContext is a Before hook that starts collecting metrics
// for the command about to run.
func WithCommandMetricsContext(c *cli.Context) error {
	metrics := telemetry.NewMetricsContext()
	c.Context = telemetry.WithMetricsContext(c.Context, metrics)

	metrics.AddProperty("cli_version", version.GetVersion())
	metrics.AddProperty("os", runtime.GOOS)
	metrics.AddProperty("arch", runtime.GOARCH)

	if cfg, err := config.LoadConfig(); err != nil {
		config.LoggerFromContext(c.Context).Debug("Metrics without config: " + err.Error())
	} else if account := telemetry.WalletAccount(cfg); account != "" {
		metrics.AddProperty("wallet_account", account)
	}

	for name, value := range setFlags(c) {
		metrics.AddProperty(name, value)
	}

	metrics.AddMetric("Count", 1)
	return nil
}
