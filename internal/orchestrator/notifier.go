package orchestrator

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Notifier surfaces a failed operation to the user.
type Notifier interface {
	Notify(ctx context.Context, operation string, err error)
}

type NotifierFunc func(ctx context.Context, operation string, err error)

func (f NotifierFunc) Notify(ctx context.Context, operation string, err error) {
	f(ctx, operation, err)
}

// LogNotifier prints a red alert line and records it at debug level.
type LogNotifier struct {
	logger *zap.Logger
	out    io.Writer
}

func NewLogNotifier(logger *zap.Logger, out io.Writer) *LogNotifier {
	if out == nil {
		out = os.Stderr
	}
	return &LogNotifier{logger: logger, out: out}
}

func (n *LogNotifier) Notify(_ context.Context, operation string, err error) {
	color.New(color.FgRed, color.Bold).Fprintf(n.out, "✗ %s: %v\n", operation, err)
	n.logger.Debug("User notified of failure", zap.String("operation", operation), zap.Error(err))
}
