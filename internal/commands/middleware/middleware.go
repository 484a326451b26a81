package middleware

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/logger"
	"github.com/Layr-Labs/disputectl/internal/telemetry"
)

// ChainBeforeFuncs runs funcs in order and stops at the first error.
func ChainBeforeFuncs(funcs ...cli.BeforeFunc) cli.BeforeFunc {
	return func(c *cli.Context) error {
		for _, fn := range funcs {
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// StandardMiddlewareChain is the root Before hook: logger first, since the
// context and secrets loaders log through it.
func StandardMiddlewareChain() cli.BeforeFunc {
	return ChainBeforeFuncs(
		func(c *cli.Context) error {
			_, err := LoggerBeforeFunc(c)
			return err
		},
		ContextBeforeFunc,
		SecretsBeforeFunc,
	)
}

// ExitErrHandler logs a failed command and reports it as an Error metric.
func ExitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}
	if c == nil {
		logger.GetLogger().Error("Command execution failed", zap.Error(err))
		return
	}

	fields := []zap.Field{zap.Error(err)}
	command := ""
	if c.Command != nil {
		command = c.Command.Name
		fields = append(fields, zap.String("command", command))
	}
	GetLogger(c).Error("Command execution failed", fields...)

	client, ok := telemetry.ClientFromContext(c.Context)
	if !ok || command == "" {
		return
	}
	_ = client.AddMetric(c.Context, telemetry.Metric{
		Name:       "Error",
		Value:      1,
		Dimensions: map[string]string{"command": command},
	})
}
