package middleware

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/config"
	"github.com/Layr-Labs/disputectl/internal/logger"
)

// LoggerBeforeFunc initializes the logger and stores it in the context
func LoggerBeforeFunc(c *cli.Context) (logger.Logger, error) {
	verbose := c.Bool("verbose")
	logger.InitGlobalLoggerWithWriter(verbose, c.App.ErrWriter)

	log := logger.GetLogger()

	c.Context = context.WithValue(c.Context, config.LoggerKey, log)
	c.Context = logger.WithLogger(c.Context, log)

	return log, nil
}

// GetLogger retrieves the logger from the context, or builds one on the
// app's error writer so command output stays clean.
func GetLogger(c *cli.Context) logger.Logger {
	if l, ok := c.Context.Value(config.LoggerKey).(logger.Logger); ok {
		return l
	}
	return logger.NewLoggerWithWriter(c.Bool("verbose"), c.App.ErrWriter)
}
